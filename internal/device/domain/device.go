// Package domain defines the provisioned device record and its lifecycle rules.
package domain

import (
	"time"

	"github.com/google/uuid"

	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
)

// Status is the lifecycle state of a provisioned device.
type Status string

const (
	// StatusActive marks a device allowed to announce itself.
	StatusActive Status = "active"
	// StatusRevoked marks a retired device. Revocation is permanent.
	StatusRevoked Status = "revoked"
)

// Device is a provisioned device identifier together with its decoded components.
type Device struct {
	ID         uuid.UUID
	DeviceID   string
	Brand      string
	Model      string
	ModelName  string
	Version    string
	Location   string
	Year       string
	Code       string
	Status     Status
	CreatedAt  time.Time
	LastSeenAt *time.Time
	RevokedAt  *time.Time
}

// NewDevice creates an active device record from freshly built components.
func NewDevice(components *idDomain.Components, now time.Time) *Device {
	return &Device{
		ID:        uuid.Must(uuid.NewV7()),
		DeviceID:  components.DeviceID,
		Brand:     components.Brand,
		Model:     components.Model,
		ModelName: components.ModelName,
		Version:   components.Version,
		Location:  components.Location,
		Year:      components.Year,
		Code:      components.Code,
		Status:    StatusActive,
		CreatedAt: now.UTC(),
	}
}

// IsRevoked reports whether the device has been revoked.
func (d *Device) IsRevoked() bool {
	return d.Status == StatusRevoked
}

// ProvisionInput carries the raw fields of a device to provision. Brand falls back to
// the configured default when empty.
type ProvisionInput struct {
	Brand    string
	Model    string
	Version  uint
	Location string
	Year     uint
}

// Announcement sources.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// AnnounceInput is a device reporting itself online. A zero SeenAt means now.
type AnnounceInput struct {
	DeviceID string
	SeenAt   time.Time
	Source   string
}
