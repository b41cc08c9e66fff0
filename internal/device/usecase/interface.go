// Package usecase implements provisioning, lookup, revocation and announcement of
// devices identified by checksum-protected device ids.
package usecase

import (
	"context"
	"time"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
)

// DeviceRepository defines the interface for device persistence.
type DeviceRepository interface {
	// Create inserts a device, returning ErrDeviceAlreadyExists on a duplicate device id.
	Create(ctx context.Context, device *deviceDomain.Device) error
	GetByDeviceID(ctx context.Context, deviceID string) (*deviceDomain.Device, error)
	// List returns devices newest first.
	List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error)
	// Revoke marks an active device revoked, returning ErrDeviceNotFound when none matches.
	Revoke(ctx context.Context, deviceID string, revokedAt time.Time) error
	Touch(ctx context.Context, deviceID string, seenAt time.Time) error
}

// IdentifierCodec builds and parses device ids. *service.Codec satisfies it.
type IdentifierCodec interface {
	Build(input service.BuildInput) (string, *idDomain.Components, error)
	Parse(deviceID string) *idDomain.Components
	CheckRoundTrip(input service.BuildInput) error
}

// DeviceUseCase defines the device registry operations.
type DeviceUseCase interface {
	// Provision generates an identifier for one physical device and persists it,
	// retrying with a fresh code when the identifier is already taken.
	Provision(ctx context.Context, input *deviceDomain.ProvisionInput) (*deviceDomain.Device, error)

	// ProvisionBatch provisions count devices sharing the same fields. Either all are
	// stored or none.
	ProvisionBatch(
		ctx context.Context,
		input *deviceDomain.ProvisionInput,
		count int,
	) ([]*deviceDomain.Device, error)

	// Get validates deviceID and loads the device.
	Get(ctx context.Context, deviceID string) (*deviceDomain.Device, error)

	List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error)

	// Revoke permanently retires a device. Revoking a revoked device returns it unchanged.
	Revoke(ctx context.Context, deviceID string) (*deviceDomain.Device, error)

	// Announce records a device coming online. Malformed ids, checksum mismatches,
	// unknown devices and revoked devices are rejected with distinct errors.
	Announce(ctx context.Context, input *deviceDomain.AnnounceInput) (*deviceDomain.Device, error)
}
