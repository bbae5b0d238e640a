package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/qj0r9j0vc2/calendar-status/internal/domain/entity"
)

// Metrics holds all application metrics.
// Implements the status.MetricsRecorder interface.
type Metrics struct {
	meter metric.Meter

	// Run metrics
	RunsTotal        metric.Int64Counter
	RunDuration      metric.Float64Histogram
	LastRunTimestamp metric.Float64Gauge

	// Calendar metrics
	EventsSeen metric.Int64Gauge
	EventsKept metric.Int64Gauge

	// Status metrics
	StatusWritesTotal metric.Int64Counter
}

// NewMetrics creates and registers all application metrics.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{meter: meter}

	var err error

	// Run metrics
	m.RunsTotal, err = meter.Int64Counter(
		"calendar_status.runs",
		metric.WithDescription("Total number of status sync runs"),
		metric.WithUnit("{runs}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating runs_total: %w", err)
	}

	m.RunDuration, err = meter.Float64Histogram(
		"calendar_status.run.duration",
		metric.WithDescription("Status sync run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating run_duration: %w", err)
	}

	m.LastRunTimestamp, err = meter.Float64Gauge(
		"calendar_status.last_run.timestamp",
		metric.WithDescription("Unix time of the last completed run"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating last_run_timestamp: %w", err)
	}

	// Calendar metrics
	m.EventsSeen, err = meter.Int64Gauge(
		"calendar_status.events.seen",
		metric.WithDescription("Events returned by the calendar query"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_seen: %w", err)
	}

	m.EventsKept, err = meter.Int64Gauge(
		"calendar_status.events.kept",
		metric.WithDescription("Events left after response filtering"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating events_kept: %w", err)
	}

	// Status metrics
	m.StatusWritesTotal, err = meter.Int64Counter(
		"calendar_status.status.writes",
		metric.WithDescription("Total number of status updates sent"),
		metric.WithUnit("{writes}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating status_writes_total: %w", err)
	}

	return m, nil
}

// RecordEvents records how many events a calendar query returned and kept.
func (m *Metrics) RecordEvents(ctx context.Context, source string, seen, kept int) {
	attrs := metric.WithAttributes(attribute.String("source", source))

	m.EventsSeen.Record(ctx, int64(seen), attrs)
	m.EventsKept.Record(ctx, int64(kept), attrs)
}

// RecordRun records the outcome of one sync run.
func (m *Metrics) RecordRun(ctx context.Context, source string, action entity.ChangeAction, reason string, duration time.Duration, success bool) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
		attribute.String("action", string(action)),
		attribute.String("reason", reason),
		attribute.Bool("success", success),
	}

	m.RunsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.RunDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
	m.LastRunTimestamp.Record(ctx, float64(time.Now().Unix()),
		metric.WithAttributes(attribute.String("source", source), attribute.Bool("success", success)))

	if action == entity.ActionSet {
		m.StatusWritesTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
	}
}
