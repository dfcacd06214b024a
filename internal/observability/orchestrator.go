package observability

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"parcel-dispatch/internal/core/application/usecases/commands"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "parcel-dispatch/internal/observability"

type AssignDeliveryHandler interface {
	Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (commands.AssignmentResult, error)
}

type instrumentation struct {
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics orchestratorMetrics
}

type Option func(*instrumentation)

func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		i.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(i *instrumentation) {
		i.tracer = tr
	}
}

// WithMeter creates the orchestrator instruments on m.
func WithMeter(m metric.Meter) Option {
	return func(i *instrumentation) {
		i.metrics = newOrchestratorMetrics(m)
	}
}

// WithInstruments takes tracer, meter and logger from the process setup.
func WithInstruments(in *Instruments) Option {
	return func(i *instrumentation) {
		i.tracer = in.Tracer(instrumentationName)
		i.metrics = newOrchestratorMetrics(in.Meter(instrumentationName))
		if in != nil && in.Logger != nil {
			i.logger = in.Logger
		}
	}
}

func newInstrumentation(opts []Option) instrumentation {
	i := instrumentation{}
	for _, opt := range opts {
		if opt != nil {
			opt(&i)
		}
	}
	if i.tracer == nil {
		i.tracer = tracenoop.NewTracerProvider().Tracer(instrumentationName)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	i.logger = i.logger.With("component", "observability")
	return i
}

// AssignDelivery traces and counts assignment workflow runs.
type AssignDelivery struct {
	inner AssignDeliveryHandler
	instrumentation
}

func NewAssignDelivery(inner AssignDeliveryHandler, opts ...Option) *AssignDelivery {
	return &AssignDelivery{inner: inner, instrumentation: newInstrumentation(opts)}
}

func (d *AssignDelivery) Handle(ctx context.Context, cmd commands.AssignDeliveryCommand) (commands.AssignmentResult, error) {
	attrs := []attribute.KeyValue{attribute.Bool("delivery.preferred", cmd.PreferredVehicle() != nil)}
	ctx, span := d.tracer.Start(ctx, "Orchestrator.AssignDelivery", trace.WithAttributes(attrs...))
	defer span.End()

	started := time.Now()
	result, err := d.inner.Handle(ctx, cmd)
	elapsed := time.Since(started)

	if err != nil {
		reason := "invalid"
		var wfErr *commands.WorkflowError
		if errors.As(err, &wfErr) {
			reason = wfErr.Reason.String()
		}
		d.metrics.recordFailed(ctx, reason, elapsed)
		return result, d.handleError(ctx, span, err, "delivery assignment failed", slog.String("reason", reason))
	}

	span.SetAttributes(
		attribute.String("delivery.parcel_id", result.ParcelID.String()),
		attribute.String("delivery.vehicle_id", result.VehicleID.String()),
	)
	d.metrics.recordAssigned(ctx, elapsed)
	return result, nil
}

// ReportUpdate traces and counts status updates.
type ReportUpdate struct {
	inner commands.UpdateReporter
	instrumentation
}

var _ commands.UpdateReporter = (*ReportUpdate)(nil)

func NewReportUpdate(inner commands.UpdateReporter, opts ...Option) *ReportUpdate {
	return &ReportUpdate{inner: inner, instrumentation: newInstrumentation(opts)}
}

func (d *ReportUpdate) Handle(ctx context.Context, cmd commands.ReportUpdateCommand) (commands.UpdateResult, error) {
	ctx, span := d.tracer.Start(ctx, "Orchestrator.ReportUpdate", trace.WithAttributes(
		attribute.String("delivery.parcel_id", cmd.ParcelID().String()),
		attribute.String("delivery.status", cmd.Status().String()),
	))
	defer span.End()

	result, err := d.inner.Handle(ctx, cmd)
	if err != nil {
		return result, d.handleError(ctx, span, err, "delivery update failed",
			slog.String("parcel_id", cmd.ParcelID().String()))
	}
	d.metrics.recordUpdate(ctx, cmd.Status().String())
	return result, nil
}

func (i instrumentation) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	attrs = append(attrs, slog.String("error", err.Error()))
	i.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	return err
}

type orchestratorMetrics struct {
	assigned metric.Int64Counter
	failed   metric.Int64Counter
	updates  metric.Int64Counter
	duration metric.Float64Histogram
}

func newOrchestratorMetrics(m metric.Meter) orchestratorMetrics {
	if m == nil {
		return orchestratorMetrics{}
	}
	assigned, _ := m.Int64Counter("dispatch.deliveries.assigned",
		metric.WithDescription("Number of deliveries assigned to a vehicle"))
	failed, _ := m.Int64Counter("dispatch.deliveries.failed",
		metric.WithDescription("Number of assignment runs that failed"))
	updates, _ := m.Int64Counter("dispatch.updates.reported",
		metric.WithDescription("Number of delivery status updates"))
	duration, _ := m.Float64Histogram("dispatch.workflow.duration",
		metric.WithDescription("Duration of assignment runs"),
		metric.WithUnit("s"))
	return orchestratorMetrics{
		assigned: assigned,
		failed:   failed,
		updates:  updates,
		duration: duration,
	}
}

func (m orchestratorMetrics) recordAssigned(ctx context.Context, elapsed time.Duration) {
	if m.assigned != nil {
		m.assigned.Add(ctx, 1)
	}
	m.recordDuration(ctx, elapsed, attribute.String("outcome", "assigned"))
}

func (m orchestratorMetrics) recordFailed(ctx context.Context, reason string, elapsed time.Duration) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
	m.recordDuration(ctx, elapsed, attribute.String("outcome", "failed"))
}

func (m orchestratorMetrics) recordUpdate(ctx context.Context, status string) {
	if m.updates != nil {
		m.updates.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func (m orchestratorMetrics) recordDuration(ctx context.Context, elapsed time.Duration, attrs ...attribute.KeyValue) {
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attrs...))
	}
}
