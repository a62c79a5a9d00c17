package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "jan-server/voicebot-api"

// GetTracer returns the tracer for the voicebot-api service.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartActivationSpan starts a span around one provisioning attempt.
func StartActivationSpan(ctx context.Context, botUUID string, workerID int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "bot.activate",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("bot.uuid", botUUID),
			attribute.Int("worker.id", workerID),
		),
	)
}

// StartSweepSpan starts a span for one activation sweep.
func StartSweepSpan(ctx context.Context, batch int) (context.Context, trace.Span) {
	return GetTracer().Start(ctx, "bot.sweep",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attribute.Int("sweep.batch", batch)),
	)
}

// RecordError records an error on a span.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// AddStatusTransition adds a status transition event to a span.
func AddStatusTransition(span trace.Span, fromStatus, toStatus string) {
	span.AddEvent("status.transition",
		trace.WithAttributes(
			attribute.String("status.from", fromStatus),
			attribute.String("status.to", toStatus),
		),
	)
}
