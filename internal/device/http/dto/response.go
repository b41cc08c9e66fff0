package dto

import (
	"time"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
)

// DeviceIDResponse is a generated identifier with its breakdown.
type DeviceIDResponse struct {
	DeviceID   string               `json:"device_id"`
	Components *idDomain.Components `json:"components"`
}

// ValidateDeviceIDResponse represents the result of validating an identifier.
type ValidateDeviceIDResponse struct {
	Valid bool `json:"valid"`
}

// DeviceResponse represents a provisioned device in API responses.
type DeviceResponse struct {
	ID         string     `json:"id"`
	DeviceID   string     `json:"device_id"`
	Brand      string     `json:"brand"`
	Model      string     `json:"model"`
	ModelName  string     `json:"model_name"`
	Version    string     `json:"version"`
	Location   string     `json:"location"`
	Year       string     `json:"year"`
	Code       string     `json:"code"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	LastSeenAt *time.Time `json:"last_seen_at,omitempty"`
	RevokedAt  *time.Time `json:"revoked_at,omitempty"`
}

// MapDeviceToResponse converts a domain device to an API response.
func MapDeviceToResponse(device *deviceDomain.Device) DeviceResponse {
	return DeviceResponse{
		ID:         device.ID.String(),
		DeviceID:   device.DeviceID,
		Brand:      device.Brand,
		Model:      device.Model,
		ModelName:  device.ModelName,
		Version:    device.Version,
		Location:   device.Location,
		Year:       device.Year,
		Code:       device.Code,
		Status:     string(device.Status),
		CreatedAt:  device.CreatedAt,
		LastSeenAt: device.LastSeenAt,
		RevokedAt:  device.RevokedAt,
	}
}

// ListDevicesResponse represents a page of devices.
type ListDevicesResponse struct {
	Data []DeviceResponse `json:"data"`
}

// MapDevicesToListResponse maps devices to a list response. An empty page is
// rendered as [] rather than null.
func MapDevicesToListResponse(devices []*deviceDomain.Device) ListDevicesResponse {
	items := make([]DeviceResponse, 0, len(devices))
	for _, device := range devices {
		items = append(items, MapDeviceToResponse(device))
	}

	return ListDevicesResponse{
		Data: items,
	}
}
