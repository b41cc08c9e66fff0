package repository

import (
	"database/sql"

	"github.com/google/uuid"

	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

const deviceColumns = `id, device_id, brand, model, model_name, version, location, year, code, status, created_at, last_seen_at, revoked_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// idScanner reads the id column into a driver specific holder and converts it.
// A nil idScanner scans the column straight into uuid.UUID.
type idScanner interface {
	target() any
	uuid() (uuid.UUID, error)
}

type binaryID struct {
	raw []byte
}

func (b *binaryID) target() any {
	return &b.raw
}

func (b *binaryID) uuid() (uuid.UUID, error) {
	var id uuid.UUID
	err := id.UnmarshalBinary(b.raw)
	return id, err
}

func scanDevice(row rowScanner, ids idScanner) (*deviceDomain.Device, error) {
	var device deviceDomain.Device
	var status string

	var idTarget any = &device.ID
	if ids != nil {
		idTarget = ids.target()
	}

	err := row.Scan(
		idTarget,
		&device.DeviceID,
		&device.Brand,
		&device.Model,
		&device.ModelName,
		&device.Version,
		&device.Location,
		&device.Year,
		&device.Code,
		&status,
		&device.CreatedAt,
		&device.LastSeenAt,
		&device.RevokedAt,
	)
	if err != nil {
		return nil, err
	}

	if ids != nil {
		id, err := ids.uuid()
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to unmarshal device id")
		}
		device.ID = id
	}
	device.Status = deviceDomain.Status(status)

	return &device, nil
}

// scanDevices drains and closes rows. newIDs returns a fresh idScanner per row.
func scanDevices(rows *sql.Rows, newIDs func() idScanner) ([]*deviceDomain.Device, error) {
	defer func() {
		_ = rows.Close()
	}()

	devices := make([]*deviceDomain.Device, 0)
	for rows.Next() {
		var ids idScanner
		if newIDs != nil {
			ids = newIDs()
		}
		device, err := scanDevice(rows, ids)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan device")
		}
		devices = append(devices, device)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate devices")
	}

	return devices, nil
}

func requireAffected(result sql.Result, message string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, message)
	}
	if affected == 0 {
		return deviceDomain.ErrDeviceNotFound
	}
	return nil
}
