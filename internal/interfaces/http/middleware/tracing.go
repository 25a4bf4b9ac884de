package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Yitzhakza/electic/internal/infrastructure/logger"
)

// MaxRequestIDLength bounds the request id copied into span attributes
const MaxRequestIDLength = 128

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// Tracing returns the otelgin server middleware followed by the span enricher.
// Register it with engine.Use(middleware.Tracing(name)...).
func Tracing(serviceName string) gin.HandlersChain {
	return TracingWithConfig(TracingConfig{ServiceName: serviceName, Enabled: true})
}

// TracingWithConfig wraps otelgin, which names spans "METHOD /route/:pattern",
// continues incoming W3C trace context and marks 5xx responses as errors.
// otelgin ends its span before returning, so the request id is attached by a
// second handler that runs inside the span.
func TracingWithConfig(cfg TracingConfig) gin.HandlersChain {
	if !cfg.Enabled {
		return gin.HandlersChain{func(c *gin.Context) { c.Next() }}
	}
	return gin.HandlersChain{
		otelgin.Middleware(cfg.ServiceName),
		SpanAttributes(),
	}
}

// SpanAttributes adds the request id to the active server span. It must run
// after the otelgin middleware.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := truncate(logger.GetRequestID(c.Request.Context()), MaxRequestIDLength); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
		}
		c.Next()
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
