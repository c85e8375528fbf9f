// Package telemetry holds the OpenTelemetry tracer and span helpers for the
// per-frame decision path. Without an installed provider every span is a noop.
//
// Span attributes use the `parselord.` prefix.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/nstehr/parselord/agent"

// Tracer returns the package-level tracer.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// StartFrameSpan creates the span covering one frame: mirror update,
// orchestration and the reply.
func StartFrameSpan(ctx context.Context, player string, tick int, jobID uint32) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "frame.decide",
		trace.WithAttributes(
			attribute.String("parselord.player", player),
			attribute.Int("parselord.tick", tick),
			attribute.Int64("parselord.job", int64(jobID)),
		),
		trace.WithSpanKind(trace.SpanKindServer),
	)
}

// EndFrameSpan records the tick outcome. actionID is zero when nothing was chosen.
func EndFrameSpan(span trace.Span, reason string, actionID uint32, sent bool) {
	span.SetAttributes(
		attribute.String("parselord.reason", reason),
		attribute.Int64("parselord.action", int64(actionID)),
		attribute.Bool("parselord.sent", sent),
	)
	span.End()
}

// StartCommandSpan creates a span for one operator command.
func StartCommandSpan(ctx context.Context, player, command string) (context.Context, trace.Span) {
	return Tracer().Start(ctx, "command",
		trace.WithAttributes(
			attribute.String("parselord.player", player),
			attribute.String("parselord.command", command),
		),
	)
}

// RecordError marks the span as failed.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
