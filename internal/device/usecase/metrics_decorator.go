package usecase

import (
	"context"
	"time"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
	"github.com/allisson/sporeid/internal/metrics"
)

const metricsDomain = "devices"

// deviceUseCaseWithMetrics decorates DeviceUseCase with metrics instrumentation.
type deviceUseCaseWithMetrics struct {
	next    DeviceUseCase
	metrics metrics.BusinessMetrics
}

// NewDeviceUseCaseWithMetrics wraps a DeviceUseCase with metrics recording.
func NewDeviceUseCaseWithMetrics(useCase DeviceUseCase, m metrics.BusinessMetrics) DeviceUseCase {
	return &deviceUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *deviceUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, metricsDomain, operation, status)
	d.metrics.RecordDuration(ctx, metricsDomain, operation, time.Since(start), status)
}

// Provision records metrics for device provisioning.
func (d *deviceUseCaseWithMetrics) Provision(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
) (*deviceDomain.Device, error) {
	start := time.Now()
	device, err := d.next.Provision(ctx, input)
	d.record(ctx, "device_provision", start, err)
	return device, err
}

// ProvisionBatch records metrics for batch provisioning.
func (d *deviceUseCaseWithMetrics) ProvisionBatch(
	ctx context.Context,
	input *deviceDomain.ProvisionInput,
	count int,
) ([]*deviceDomain.Device, error) {
	start := time.Now()
	devices, err := d.next.ProvisionBatch(ctx, input, count)
	d.record(ctx, "device_provision_batch", start, err)
	return devices, err
}

// Get records metrics for device lookups.
func (d *deviceUseCaseWithMetrics) Get(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	start := time.Now()
	device, err := d.next.Get(ctx, deviceID)
	d.record(ctx, "device_get", start, err)
	return device, err
}

// List records metrics for device listing.
func (d *deviceUseCaseWithMetrics) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	start := time.Now()
	devices, err := d.next.List(ctx, offset, limit)
	d.record(ctx, "device_list", start, err)
	return devices, err
}

// Revoke records metrics for device revocation.
func (d *deviceUseCaseWithMetrics) Revoke(ctx context.Context, deviceID string) (*deviceDomain.Device, error) {
	start := time.Now()
	device, err := d.next.Revoke(ctx, deviceID)
	d.record(ctx, "device_revoke", start, err)
	return device, err
}

// Announce records the operation metrics plus an announcement counter labelled with
// the source and the rejection reason.
func (d *deviceUseCaseWithMetrics) Announce(
	ctx context.Context,
	input *deviceDomain.AnnounceInput,
) (*deviceDomain.Device, error) {
	start := time.Now()
	device, err := d.next.Announce(ctx, input)
	d.record(ctx, "device_announce", start, err)
	d.metrics.RecordAnnouncement(ctx, input.Source, AnnouncementOutcome(err))
	return device, err
}

// AnnouncementOutcome classifies the result of Announce for metrics and logs.
func AnnouncementOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.AnnouncementAccepted
	case apperrors.Is(err, deviceDomain.ErrMalformedDeviceID):
		return metrics.AnnouncementMalformed
	case apperrors.Is(err, deviceDomain.ErrChecksumMismatch):
		return metrics.AnnouncementChecksumMismatch
	case apperrors.Is(err, deviceDomain.ErrDeviceNotFound):
		return metrics.AnnouncementUnknownDevice
	case apperrors.Is(err, deviceDomain.ErrDeviceRevoked):
		return metrics.AnnouncementRevoked
	default:
		return metrics.AnnouncementFailed
	}
}
