package commands

import (
	"errors"
	"fmt"
	"io"

	idDomain "github.com/allisson/sporeid/internal/deviceid/domain"
	"github.com/allisson/sporeid/internal/deviceid/service"
)

// ErrInvalidDeviceID is returned by RunValidateDeviceID so the process exits non-zero.
var ErrInvalidDeviceID = errors.New("invalid device id")

// RunGenerateDeviceID builds count identifiers offline, without touching the registry.
func RunGenerateDeviceID(
	codec *service.Codec,
	out io.Writer,
	input service.BuildInput,
	count int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got: %d", count)
	}

	generated := make([]*idDomain.Components, 0, count)
	for range count {
		_, components, err := codec.Build(input)
		if err != nil {
			return fmt.Errorf("failed to generate device id: %w", err)
		}
		generated = append(generated, components)
	}

	if format == formatJSON {
		return writeJSON(out, map[string]any{"data": generated})
	}

	for _, components := range generated {
		if _, err := fmt.Fprintln(out, components.DeviceID); err != nil {
			return err
		}
	}
	return nil
}

// RunParseDeviceID prints the components of deviceID. Structural errors and checksum
// mismatches are reported in the output, not as a command failure.
func RunParseDeviceID(codec *service.Codec, out io.Writer, deviceID string, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	components := codec.Parse(deviceID)
	if format == formatJSON {
		return writeJSON(out, components)
	}

	return writeComponentsText(out, components)
}

// RunValidateDeviceID prints whether deviceID is valid and returns ErrInvalidDeviceID
// when it is not.
func RunValidateDeviceID(codec *service.Codec, out io.Writer, deviceID string, format string) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	valid := codec.IsValid(deviceID)
	if format == formatJSON {
		if err := writeJSON(out, map[string]any{"device_id": deviceID, "valid": valid}); err != nil {
			return err
		}
	} else {
		status := "valid"
		if !valid {
			status = "invalid"
		}
		if _, err := fmt.Fprintf(out, "%s: %s\n", deviceID, status); err != nil {
			return err
		}
	}

	if !valid {
		return ErrInvalidDeviceID
	}
	return nil
}

func writeComponentsText(out io.Writer, c *idDomain.Components) error {
	if c.HasError() {
		_, err := fmt.Fprintf(out, "Device ID: %s\nError: %s\n", c.DeviceID, c.Error)
		return err
	}

	_, err := fmt.Fprintf(out,
		"Device ID: %s\nBrand: %s\nModel: %s (%s)\nVersion: %s\nLocation: %s\nYear: %s\nCode: %s\nValid checksum: %t\n",
		c.DeviceID, c.Brand, c.Model, c.ModelName, c.Version, c.Location, c.Year, c.Code, c.ValidChecksum,
	)
	return err
}
