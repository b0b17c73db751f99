// Package otel provides OpenTelemetry tracing for purge hooks.
package otel

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/roach88/casehistory/internal/purge"
)

const (
	tracerName = "casehistory"
)

// Hooks implements purge.Hooks with OpenTelemetry tracing.
//
// Every hierarchy level gets a span named "purge/<mode>". Levels below the
// first are children of the level that discovered them. Steps are recorded as
// span events.
type Hooks struct {
	purge.NoOpHooks
	tracer trace.Tracer
}

// NewHooks creates OpenTelemetry hooks.
// If tracerProvider is nil, the global tracer provider is used.
func NewHooks(tracerProvider trace.TracerProvider) *Hooks {
	var tracer trace.Tracer
	if tracerProvider != nil {
		tracer = tracerProvider.Tracer(tracerName)
	} else {
		tracer = otel.Tracer(tracerName)
	}
	return &Hooks{tracer: tracer}
}

// OnPurgeStart starts the level span and returns a context carrying it.
func (h *Hooks) OnPurgeStart(ctx context.Context, info purge.PurgeStartInfo) context.Context {
	spanCtx, _ := h.tracer.Start(ctx, fmt.Sprintf("purge/%s", info.Mode),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("casehistory.mode", string(info.Mode)),
			attribute.StringSlice("casehistory.case_instance_ids", info.CaseInstanceIDs),
			attribute.Int("casehistory.depth", info.Depth),
		),
	)
	return spanCtx
}

// OnStepComplete adds a step event to the level span.
func (h *Hooks) OnStepComplete(ctx context.Context, info purge.StepCompleteInfo) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent("step/"+string(info.Step), trace.WithAttributes(
		attribute.Bool("casehistory.skipped", info.Skipped),
		attribute.Int64("casehistory.duration_us", info.Duration.Microseconds()),
	))
}

// OnPurgeComplete ends the level span with success status.
func (h *Hooks) OnPurgeComplete(ctx context.Context, info purge.PurgeCompleteInfo) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.Int("casehistory.child_count", len(info.ChildCaseInstanceIDs)),
		attribute.Int64("casehistory.duration_ms", info.Duration.Milliseconds()),
	)
	span.SetStatus(codes.Ok, "purge completed")
	span.End()
}

// OnPurgeFailed ends the level span with error status.
func (h *Hooks) OnPurgeFailed(ctx context.Context, info purge.PurgeFailedInfo) {
	span := trace.SpanFromContext(ctx)
	span.SetAttributes(
		attribute.String("casehistory.failed_step", string(info.Step)),
		attribute.Int64("casehistory.duration_ms", info.Duration.Milliseconds()),
	)
	if info.Error != nil {
		span.RecordError(info.Error)
		span.SetStatus(codes.Error, info.Error.Error())
	} else {
		span.SetStatus(codes.Error, "purge failed")
	}
	span.End()
}

var _ purge.Hooks = (*Hooks)(nil)
