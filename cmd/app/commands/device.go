package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	"github.com/allisson/sporeid/internal/device/http/dto"
	deviceUseCase "github.com/allisson/sporeid/internal/device/usecase"
)

// RunProvisionDevice provisions a single device in the registry.
func RunProvisionDevice(
	ctx context.Context,
	useCase deviceUseCase.DeviceUseCase,
	logger *slog.Logger,
	out io.Writer,
	input *deviceDomain.ProvisionInput,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	device, err := useCase.Provision(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to provision device: %w", err)
	}

	logger.Info("device provisioned", slog.String("device_id", device.DeviceID))

	if format == formatJSON {
		return writeJSON(out, dto.MapDeviceToResponse(device))
	}
	return writeDeviceText(out, device)
}

// RunProvisionBatch provisions count devices sharing the same fields in one transaction.
func RunProvisionBatch(
	ctx context.Context,
	useCase deviceUseCase.DeviceUseCase,
	logger *slog.Logger,
	out io.Writer,
	input *deviceDomain.ProvisionInput,
	count int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	devices, err := useCase.ProvisionBatch(ctx, input, count)
	if err != nil {
		return fmt.Errorf("failed to provision devices: %w", err)
	}

	logger.Info("devices provisioned", slog.Int("count", len(devices)))

	if format == formatJSON {
		return writeJSON(out, dto.MapDevicesToListResponse(devices))
	}
	for _, device := range devices {
		if _, err := fmt.Fprintln(out, device.DeviceID); err != nil {
			return err
		}
	}
	return nil
}

// RunListDevices prints one page of registered devices, newest first.
func RunListDevices(
	ctx context.Context,
	useCase deviceUseCase.DeviceUseCase,
	out io.Writer,
	offset, limit int,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}
	if offset < 0 || limit < 1 {
		return fmt.Errorf("offset must be >= 0 and limit >= 1, got offset=%d limit=%d", offset, limit)
	}

	devices, err := useCase.List(ctx, offset, limit)
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}

	if format == formatJSON {
		return writeJSON(out, dto.MapDevicesToListResponse(devices))
	}
	if len(devices) == 0 {
		_, err := fmt.Fprintln(out, "No devices found")
		return err
	}
	for _, device := range devices {
		if _, err := fmt.Fprintf(out, "%s\t%s\t%s\n",
			device.DeviceID, device.Status, device.CreatedAt.Format(time.RFC3339),
		); err != nil {
			return err
		}
	}
	return nil
}

// RunRevokeDevice permanently revokes a device.
func RunRevokeDevice(
	ctx context.Context,
	useCase deviceUseCase.DeviceUseCase,
	logger *slog.Logger,
	out io.Writer,
	deviceID string,
	format string,
) error {
	if err := validateFormat(format); err != nil {
		return err
	}

	device, err := useCase.Revoke(ctx, deviceID)
	if err != nil {
		return fmt.Errorf("failed to revoke device: %w", err)
	}

	logger.Info("device revoked", slog.String("device_id", device.DeviceID))

	if format == formatJSON {
		return writeJSON(out, dto.MapDeviceToResponse(device))
	}
	return writeDeviceText(out, device)
}

func writeDeviceText(out io.Writer, d *deviceDomain.Device) error {
	if _, err := fmt.Fprintf(out,
		"Device ID: %s\nBrand: %s\nModel: %s (%s)\nVersion: %s\nLocation: %s\nYear: %s\nStatus: %s\nCreated at: %s\n",
		d.DeviceID, d.Brand, d.Model, d.ModelName, d.Version, d.Location, d.Year, d.Status,
		d.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return err
	}
	if d.RevokedAt != nil {
		if _, err := fmt.Fprintf(out, "Revoked at: %s\n", d.RevokedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	return nil
}
