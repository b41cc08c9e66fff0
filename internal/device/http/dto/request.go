// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	customValidation "github.com/allisson/sporeid/internal/validation"
)

// GenerateDeviceIDRequest contains the fields for a one-off identifier. Every input is
// accepted and normalized the way the codec does: unknown or multi-character models
// fall back to "A", long locations are cut to three characters and short ones are kept.
type GenerateDeviceIDRequest struct {
	Brand    string `json:"brand"` // Defaults to the configured brand
	Model    string `json:"model"`
	Version  uint   `json:"version"`
	Location string `json:"location"`
	Year     uint   `json:"year"`
}

// ValidateDeviceIDRequest carries an identifier to check.
type ValidateDeviceIDRequest struct {
	DeviceID string `json:"device_id"`
}

// Validate checks if the validate request is valid.
func (r *ValidateDeviceIDRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.DeviceID, validation.Required),
	)
}

// ProvisionDeviceRequest contains the fields of a device to register.
type ProvisionDeviceRequest struct {
	Brand    string `json:"brand"` // Defaults to the configured brand
	Model    string `json:"model"` // "A", "B" or "R"
	Version  uint   `json:"version"`
	Location string `json:"location"` // Three character site code, e.g. "CAL"
	Year     *uint  `json:"year"`     // Any value; encoded as its last two digits, 0 as "00"
}

// Validate checks if the provision request is valid.
func (r *ProvisionDeviceRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Brand,
			customValidation.NoWhitespace,
			customValidation.NoSeparator,
			validation.Length(1, 32),
		),
		validation.Field(&r.Model,
			validation.Required,
			customValidation.OneOf(
				idDomain.ModelAlpha.String(),
				idDomain.ModelBeta.String(),
				idDomain.ModelRelease.String(),
			),
		),
		validation.Field(&r.Location,
			validation.Required,
			customValidation.LocationCode,
			customValidation.NoSeparator,
		),
		validation.Field(&r.Year, validation.NotNil),
	)
}

// ToInput converts the request to a domain provision input.
func (r *ProvisionDeviceRequest) ToInput() *deviceDomain.ProvisionInput {
	input := &deviceDomain.ProvisionInput{
		Brand:    r.Brand,
		Model:    r.Model,
		Version:  r.Version,
		Location: r.Location,
	}
	if r.Year != nil {
		input.Year = *r.Year
	}
	return input
}

// ProvisionBatchRequest registers Count devices sharing the same fields.
type ProvisionBatchRequest struct {
	ProvisionDeviceRequest
	Count int `json:"count"`
}

// Validate checks if the batch request is valid. The upper bound on Count is enforced
// by the use case.
func (r *ProvisionBatchRequest) Validate() error {
	if err := r.ProvisionDeviceRequest.Validate(); err != nil {
		return err
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Count, validation.Required, validation.Min(1)),
	)
}

// AnnounceDeviceRequest reports a device as online. An omitted timestamp means now.
type AnnounceDeviceRequest struct {
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// ToInput converts the request to a domain announce input.
func (r *AnnounceDeviceRequest) ToInput(deviceID string) *deviceDomain.AnnounceInput {
	input := &deviceDomain.AnnounceInput{
		DeviceID: deviceID,
		Source:   deviceDomain.SourceHTTP,
	}
	if r.Timestamp != nil {
		input.SeenAt = *r.Timestamp
	}
	return input
}
