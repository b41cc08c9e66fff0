package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/sporeid/internal/errors"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
)

func TestNewDevice(t *testing.T) {
	components := &idDomain.Components{
		DeviceID:      "MASH-A1-CAL25-D5A91B",
		Brand:         "MASH",
		Model:         "A",
		ModelName:     "Alpha Prototype Build",
		Version:       "1",
		Location:      "CAL",
		Year:          "25",
		Code:          "D5A91B",
		ValidChecksum: true,
	}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.FixedZone("PDT", -7*3600))

	device := NewDevice(components, now)

	assert.NotEqual(t, uuid.Nil, device.ID)
	assert.Equal(t, "MASH-A1-CAL25-D5A91B", device.DeviceID)
	assert.Equal(t, "Alpha Prototype Build", device.ModelName)
	assert.Equal(t, "CAL", device.Location)
	assert.Equal(t, "D5A91B", device.Code)
	assert.Equal(t, StatusActive, device.Status)
	assert.Equal(t, time.UTC, device.CreatedAt.Location())
	assert.True(t, now.Equal(device.CreatedAt))
	assert.Nil(t, device.LastSeenAt)
	assert.Nil(t, device.RevokedAt)
	assert.False(t, device.IsRevoked())

	device.Status = StatusRevoked
	assert.True(t, device.IsRevoked())
}

func TestErrors(t *testing.T) {
	assert.ErrorIs(t, ErrDeviceNotFound, apperrors.ErrNotFound)
	assert.ErrorIs(t, ErrDeviceAlreadyExists, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrDeviceRevoked, apperrors.ErrGone)
	assert.ErrorIs(t, ErrProvisionExhausted, apperrors.ErrConflict)
	assert.ErrorIs(t, ErrInvalidBatchSize, apperrors.ErrInvalidInput)

	// malformed and checksum failures stay distinguishable but are both invalid ids
	assert.ErrorIs(t, ErrMalformedDeviceID, ErrInvalidDeviceID)
	assert.ErrorIs(t, ErrChecksumMismatch, ErrInvalidDeviceID)
	assert.ErrorIs(t, ErrChecksumMismatch, apperrors.ErrInvalidInput)
	assert.NotErrorIs(t, ErrChecksumMismatch, ErrMalformedDeviceID)
	assert.NotErrorIs(t, ErrMalformedDeviceID, ErrChecksumMismatch)
}
