package service

import (
	"github.com/allisson/sporeid/internal/deviceid/domain"
)

var defaultCodec = NewDefaultCodec()

// GenerateDeviceID builds an identifier with the default hexadecimal codec.
func GenerateDeviceID(brand, model string, version uint, location string, year uint) (string, *domain.Components, error) {
	return defaultCodec.Build(BuildInput{
		Brand:    brand,
		Model:    model,
		Version:  version,
		Location: location,
		Year:     year,
	})
}

// ParseDeviceID parses an identifier with the default hexadecimal codec.
func ParseDeviceID(deviceID string) *domain.Components {
	return defaultCodec.Parse(deviceID)
}

// ValidateDeviceID reports whether deviceID is well formed with a valid checksum.
func ValidateDeviceID(deviceID string) bool {
	return defaultCodec.IsValid(deviceID)
}
