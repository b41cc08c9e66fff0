package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Announcement outcomes recorded by RecordAnnouncement.
const (
	AnnouncementAccepted         = "accepted"
	AnnouncementMalformed        = "malformed"
	AnnouncementChecksumMismatch = "checksum_mismatch"
	AnnouncementUnknownDevice    = "unknown_device"
	AnnouncementRevoked          = "revoked"
	AnnouncementFailed           = "failed"
)

// BusinessMetrics records registry operations and device announcements.
type BusinessMetrics interface {
	// RecordOperation counts an operation, e.g. ("devices", "provision", "success").
	RecordOperation(ctx context.Context, domain, operation, status string)

	// RecordDuration records how long an operation took, in seconds.
	RecordDuration(ctx context.Context, domain, operation string, duration time.Duration, status string)

	// RecordAnnouncement counts a device announcement by source ("http", "mqtt") and outcome.
	RecordAnnouncement(ctx context.Context, source, outcome string)
}

type businessMetrics struct {
	operationCounter    metric.Int64Counter
	durationHisto       metric.Float64Histogram
	announcementCounter metric.Int64Counter
}

// NewBusinessMetrics creates the business instruments under namespace (e.g., "sporeid").
func NewBusinessMetrics(meterProvider metric.MeterProvider, namespace string) (BusinessMetrics, error) {
	meter := meterProvider.Meter(namespace)

	operationCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_operations_total", namespace),
		metric.WithDescription("Total number of business operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create operation counter: %w", err)
	}

	durationHisto, err := meter.Float64Histogram(
		fmt.Sprintf("%s_operation_duration_seconds", namespace),
		metric.WithDescription("Duration of business operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create duration histogram: %w", err)
	}

	announcementCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_device_announcements_total", namespace),
		metric.WithDescription("Total number of device announcements by source and outcome"),
		metric.WithUnit("{announcement}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create announcement counter: %w", err)
	}

	return &businessMetrics{
		operationCounter:    operationCounter,
		durationHisto:       durationHisto,
		announcementCounter: announcementCounter,
	}, nil
}

func (b *businessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	b.operationCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	b.durationHisto.Record(ctx, duration.Seconds(),
		metric.WithAttributes(
			attribute.String("domain", domain),
			attribute.String("operation", operation),
			attribute.String("status", status),
		),
	)
}

func (b *businessMetrics) RecordAnnouncement(ctx context.Context, source, outcome string) {
	b.announcementCounter.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("source", source),
			attribute.String("outcome", outcome),
		),
	)
}

// NoOpBusinessMetrics is used when metrics are disabled.
type NoOpBusinessMetrics struct{}

// NewNoOpBusinessMetrics creates a no-op BusinessMetrics implementation.
func NewNoOpBusinessMetrics() BusinessMetrics {
	return &NoOpBusinessMetrics{}
}

func (n *NoOpBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {}

func (n *NoOpBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
}

func (n *NoOpBusinessMetrics) RecordAnnouncement(ctx context.Context, source, outcome string) {}
