package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext(t *testing.T) {
	l := zap.NewExample()
	ctx := WithContext(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
}

func TestFromContext_NotFound(t *testing.T) {
	l := FromContext(context.Background())
	require.NotNil(t, l)
	l.Info("nop logger must not panic")
}

func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), LoggerKey, "not a logger")
	assert.NotNil(t, FromContext(ctx))
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, enriched := WithRequestID(context.Background(), zap.New(core), "req-1")
	assert.Equal(t, "req-1", GetRequestID(ctx))

	FromContext(ctx).Info("from context")
	enriched.Info("direct")

	logs := recorded.All()
	require.Len(t, logs, 2)
	for _, entry := range logs {
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	}
}

func TestWithSyncRunID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	ctx, _ := WithRequestID(context.Background(), zap.New(core), "req-9")
	ctx, _ = WithSyncRunID(ctx, FromContext(ctx), "run-3")

	assert.Equal(t, "run-3", GetSyncRunID(ctx))
	assert.Equal(t, "req-9", GetRequestID(ctx))

	L(ctx).Info("Starting sync with 2 queries")

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "run-3", fields["sync_run_id"])
	assert.Equal(t, "req-9", fields["request_id"])
}

func TestGetIDs_NotFound(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestID(ctx))
	assert.Empty(t, GetSyncRunID(ctx))
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(context.Background(), base))
}

func TestWithTraceContext_NoopSpanIsInvalid(t *testing.T) {
	ctx, span := noop.NewTracerProvider().Tracer("test").Start(context.Background(), "op")
	defer span.End()

	base := zap.NewNop()
	assert.Same(t, base, WithTraceContext(ctx, base))
}

func TestL_AddsTraceFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	traceID, err := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	require.NoError(t, err)
	spanID, err := trace.SpanIDFromHex("00f067aa0ba902b7")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})

	ctx := WithContext(context.Background(), zap.New(core))
	ctx = trace.ContextWithSpanContext(ctx, sc)

	L(ctx).Info("traced")

	logs := recorded.All()
	require.Len(t, logs, 1)
	fields := logs[0].ContextMap()
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", fields["trace_id"])
	assert.Equal(t, "00f067aa0ba902b7", fields["span_id"])
}

func TestL_WithoutLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		L(context.Background()).Error("dropped")
	})
}
