package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	apperrors "ridership/internal/errors"
	"ridership/internal/infrastructure"
)

const (
	TracerName = "ridership.pipeline"
)

// StepTracer provides OpenTelemetry instrumentation for pipeline runs
type StepTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewStepTracer creates a tracer that records spans on tracer and, when metrics
// is non-nil, run and step instruments. A nil tracer falls back to the global provider.
func NewStepTracer(tracer trace.Tracer, metrics *infrastructure.PipelineMetrics) *StepTracer {
	if tracer == nil {
		tracer = otel.Tracer(TracerName)
	}
	return &StepTracer{
		tracer:  tracer,
		metrics: metrics,
	}
}

// NewStepTracerFromProviders builds a StepTracer on the application providers
func NewStepTracerFromProviders(providers *infrastructure.TelemetryProviders) (*StepTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}
	return NewStepTracer(providers.Tracer(), metrics), nil
}

// Metrics returns the instruments the tracer records to, or nil
func (t *StepTracer) Metrics() *infrastructure.PipelineMetrics {
	return t.metrics
}

// StartRun creates the span covering a whole pipeline run
func (t *StepTracer) StartRun(ctx context.Context, runID string, steps int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.Int("run.steps", steps),
		),
	)
}

// StartStep creates a child span for a single step
func (t *StepTracer) StartStep(ctx context.Context, runID string, step Step) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "pipeline.step."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("run.id", runID),
			attribute.String("step.id", step.ID()),
			attribute.String("step.name", step.Name()),
		),
	)
}

// EndStep closes a step span and records its duration and row count
func (t *StepTracer) EndStep(ctx context.Context, span trace.Span, stepID string, duration time.Duration, rows int, err error) {
	status := statusLabel(err)

	span.SetAttributes(
		attribute.String("step.status", status),
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)
	if rows > 0 {
		span.SetAttributes(attribute.Int("step.rows", rows))
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "step completed")
	}
	span.End()

	if t.metrics == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("step", stepID),
		attribute.String("status", status),
	)
	t.metrics.StepDuration.Record(ctx, duration.Seconds(), attrs)
	if rows > 0 {
		t.metrics.RowsTotal.Add(ctx, int64(rows), metric.WithAttributes(attribute.String("step", stepID)))
	}
}

// EndRun closes the run span and counts the run by outcome. Failed runs also carry
// the error type.
func (t *StepTracer) EndRun(ctx context.Context, span trace.Span, duration time.Duration, err error) {
	status := statusLabel(err)
	labels := []attribute.KeyValue{attribute.String("status", status)}

	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Float64("run.duration_seconds", duration.Seconds()),
	)
	if err != nil {
		kind := ErrorType(err)
		labels = append(labels, attribute.String("error_type", kind))
		span.SetAttributes(attribute.String("error.type", kind))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "run completed")
	}
	span.End()

	if t.metrics != nil {
		t.metrics.RunsTotal.Add(ctx, 1, metric.WithAttributes(labels...))
	}
}

// ErrorType names err by its AppError type, or UNKNOWN for any other error
func ErrorType(err error) string {
	if kind := apperrors.TypeOf(err); kind != "" {
		return string(kind)
	}
	return "UNKNOWN"
}

func statusLabel(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}
