package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/allisson/sporeid/internal/database"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

// SQLiteDeviceRepository implements device persistence for SQLite, used for single
// chamber controllers without a database server.
type SQLiteDeviceRepository struct {
	db *sql.DB
}

// NewSQLiteDeviceRepository creates a new SQLite device repository.
func NewSQLiteDeviceRepository(db *sql.DB) *SQLiteDeviceRepository {
	return &SQLiteDeviceRepository{db: db}
}

// Create inserts a device. A duplicate device_id returns ErrDeviceAlreadyExists.
func (s *SQLiteDeviceRepository) Create(ctx context.Context, device *deviceDomain.Device) error {
	querier := database.GetTx(ctx, s.db)

	query := `INSERT INTO devices (id, device_id, brand, model, model_name, version, location, year, code, status, created_at, last_seen_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		device.ID.String(),
		device.DeviceID,
		device.Brand,
		device.Model,
		device.ModelName,
		device.Version,
		device.Location,
		device.Year,
		device.Code,
		string(device.Status),
		device.CreatedAt,
		device.LastSeenAt,
		device.RevokedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return deviceDomain.ErrDeviceAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create device")
	}
	return nil
}

// GetByDeviceID retrieves a device by its identifier string.
func (s *SQLiteDeviceRepository) GetByDeviceID(
	ctx context.Context,
	deviceID string,
) (*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = ?`

	device, err := scanDevice(querier.QueryRowContext(ctx, query, deviceID), nil)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deviceDomain.ErrDeviceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get device")
	}
	return device, nil
}

// List retrieves devices newest first with pagination.
func (s *SQLiteDeviceRepository) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, s.db)

	query := `SELECT ` + deviceColumns + ` FROM devices
			  ORDER BY created_at DESC, device_id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list devices")
	}
	return scanDevices(rows, nil)
}

// Revoke marks an active device as revoked. It returns ErrDeviceNotFound when no
// active device matches.
func (s *SQLiteDeviceRepository) Revoke(ctx context.Context, deviceID string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE devices SET status = ?, revoked_at = ? WHERE device_id = ? AND status = ?`

	result, err := querier.ExecContext(
		ctx,
		query,
		string(deviceDomain.StatusRevoked),
		revokedAt,
		deviceID,
		string(deviceDomain.StatusActive),
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to revoke device")
	}
	return requireAffected(result, "failed to revoke device")
}

// Touch records the time a device was last seen.
func (s *SQLiteDeviceRepository) Touch(ctx context.Context, deviceID string, seenAt time.Time) error {
	querier := database.GetTx(ctx, s.db)

	query := `UPDATE devices SET last_seen_at = ? WHERE device_id = ?`

	if _, err := querier.ExecContext(ctx, query, seenAt, deviceID); err != nil {
		return apperrors.Wrap(err, "failed to update device last seen")
	}
	return nil
}
