package telemetry

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName names the tracer behind the sync spans
const TracerName = "github.com/Yitzhakza/electic/sync"

// Span attribute keys
const (
	KeySyncRunID       = attribute.Key("sync.run_id")
	KeyTriggeredBy     = attribute.Key("sync.triggered_by")
	KeyQueryID         = attribute.Key("sync.query_id")
	KeyQueryText       = attribute.Key("sync.query_text")
	KeyPromotions      = attribute.Key("sync.promotions")
	KeyProductsUpdated = attribute.Key("sync.products_updated")
)

func SyncRunID(id uuid.UUID) attribute.KeyValue { return KeySyncRunID.String(id.String()) }
func TriggeredBy(by string) attribute.KeyValue { return KeyTriggeredBy.String(by) }
func QueryID(id uuid.UUID) attribute.KeyValue { return KeyQueryID.String(id.String()) }
func QueryText(text string) attribute.KeyValue { return KeyQueryText.String(text) }
func Promotions(n int) attribute.KeyValue { return KeyPromotions.Int(n) }
func ProductsUpdated(n int) attribute.KeyValue { return KeyProductsUpdated.Int(n) }

// StartSpan starts an internal span on the global tracer provider, so spans
// follow whatever Provider installed.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan sets the span status from err and ends it
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
