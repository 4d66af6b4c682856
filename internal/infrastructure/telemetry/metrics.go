// Package telemetry exposes OpenTelemetry instruments for the
// notification pipeline. The global meter provider is a no-op unless
// the process wires a real one, so recording is always safe.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/inventaris/backend/notification"

// NotificationMetrics bundles the delivery pipeline instruments
type NotificationMetrics struct {
	delivered metric.Int64Counter
	failed    metric.Int64Counter
	enqueued  metric.Int64Counter
	attempts  metric.Int64Histogram
}

// NewNotificationMetrics creates the instruments on the global meter
func NewNotificationMetrics() (*NotificationMetrics, error) {
	meter := otel.Meter(meterName)

	delivered, err := meter.Int64Counter(
		"notification.delivered",
		metric.WithDescription("Messages confirmed by the WhatsApp gateway"),
	)
	if err != nil {
		return nil, fmt.Errorf("create delivered counter: %w", err)
	}
	failed, err := meter.Int64Counter(
		"notification.failed",
		metric.WithDescription("Messages that exhausted retries or hit a non-retryable error"),
	)
	if err != nil {
		return nil, fmt.Errorf("create failed counter: %w", err)
	}
	enqueued, err := meter.Int64Counter(
		"notification.enqueued",
		metric.WithDescription("Delivery jobs accepted by the queue"),
	)
	if err != nil {
		return nil, fmt.Errorf("create enqueued counter: %w", err)
	}
	attempts, err := meter.Int64Histogram(
		"notification.attempts",
		metric.WithDescription("Gateway attempts per delivery job"),
	)
	if err != nil {
		return nil, fmt.Errorf("create attempts histogram: %w", err)
	}

	return &NotificationMetrics{
		delivered: delivered,
		failed:    failed,
		enqueued:  enqueued,
		attempts:  attempts,
	}, nil
}

// RecordDelivered counts one successful delivery and its attempt total
func (m *NotificationMetrics) RecordDelivered(ctx context.Context, eventType string, attempts int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))
	m.delivered.Add(ctx, 1, attrs)
	m.attempts.Record(ctx, int64(attempts), attrs)
}

// RecordFailed counts one terminally failed delivery and its attempt total
func (m *NotificationMetrics) RecordFailed(ctx context.Context, eventType string, attempts int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("event_type", eventType))
	m.failed.Add(ctx, 1, attrs)
	m.attempts.Record(ctx, int64(attempts), attrs)
}

// RecordEnqueued counts one job handed to the delivery queue
func (m *NotificationMetrics) RecordEnqueued(ctx context.Context, eventType string) {
	if m == nil {
		return
	}
	m.enqueued.Add(ctx, 1, metric.WithAttributes(attribute.String("event_type", eventType)))
}

// RegisterQueueDepth exposes the queue's buffered job count as an
// observable gauge
func RegisterQueueDepth(pending func() int) error {
	meter := otel.Meter(meterName)
	_, err := meter.Int64ObservableGauge(
		"notification.queue_depth",
		metric.WithDescription("Delivery jobs waiting in the queue buffer"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(pending()))
			return nil
		}),
	)
	return err
}
