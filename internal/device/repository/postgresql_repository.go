// Package repository implements device persistence for PostgreSQL, MySQL and SQLite.
//
// Every method runs on the transaction stored in the context when there is one
// (see database.GetTx). PostgreSQL stores ids as UUID, MySQL as BINARY(16) and
// SQLite as TEXT.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/allisson/sporeid/internal/database"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

// pgUniqueViolation is the PostgreSQL SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// PostgreSQLDeviceRepository implements device persistence for PostgreSQL.
type PostgreSQLDeviceRepository struct {
	db *sql.DB
}

// NewPostgreSQLDeviceRepository creates a new PostgreSQL device repository.
func NewPostgreSQLDeviceRepository(db *sql.DB) *PostgreSQLDeviceRepository {
	return &PostgreSQLDeviceRepository{db: db}
}

// Create inserts a device. A duplicate device_id returns ErrDeviceAlreadyExists.
func (p *PostgreSQLDeviceRepository) Create(ctx context.Context, device *deviceDomain.Device) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO devices (id, device_id, brand, model, model_name, version, location, year, code, status, created_at, last_seen_at, revoked_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := querier.ExecContext(
		ctx,
		query,
		device.ID,
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
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return deviceDomain.ErrDeviceAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create device")
	}
	return nil
}

// GetByDeviceID retrieves a device by its identifier string.
func (p *PostgreSQLDeviceRepository) GetByDeviceID(
	ctx context.Context,
	deviceID string,
) (*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = $1`

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
func (p *PostgreSQLDeviceRepository) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + deviceColumns + ` FROM devices
			  ORDER BY created_at DESC, device_id ASC
			  LIMIT $1 OFFSET $2`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list devices")
	}
	return scanDevices(rows, nil)
}

// Revoke marks an active device as revoked. It returns ErrDeviceNotFound when no
// active device matches.
func (p *PostgreSQLDeviceRepository) Revoke(ctx context.Context, deviceID string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE devices SET status = $1, revoked_at = $2 WHERE device_id = $3 AND status = $4`

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
func (p *PostgreSQLDeviceRepository) Touch(ctx context.Context, deviceID string, seenAt time.Time) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE devices SET last_seen_at = $1 WHERE device_id = $2`

	if _, err := querier.ExecContext(ctx, query, seenAt, deviceID); err != nil {
		return apperrors.Wrap(err, "failed to update device last seen")
	}
	return nil
}
