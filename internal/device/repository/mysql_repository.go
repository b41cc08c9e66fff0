package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/allisson/sporeid/internal/database"
	deviceDomain "github.com/allisson/sporeid/internal/device/domain"
	apperrors "github.com/allisson/sporeid/internal/errors"
)

// mysqlDuplicateEntry is the MySQL error number for ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

// MySQLDeviceRepository implements device persistence for MySQL. The DSN must set
// parseTime=true.
type MySQLDeviceRepository struct {
	db *sql.DB
}

// NewMySQLDeviceRepository creates a new MySQL device repository.
func NewMySQLDeviceRepository(db *sql.DB) *MySQLDeviceRepository {
	return &MySQLDeviceRepository{db: db}
}

func newBinaryID() idScanner {
	return &binaryID{}
}

// Create inserts a device. A duplicate device_id returns ErrDeviceAlreadyExists.
func (m *MySQLDeviceRepository) Create(ctx context.Context, device *deviceDomain.Device) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO devices (id, device_id, brand, model, model_name, version, location, year, code, status, created_at, last_seen_at, revoked_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	id, err := device.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal device id")
	}

	_, err = querier.ExecContext(
		ctx,
		query,
		id,
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
		var mysqlErr *mysql.MySQLError
		if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
			return deviceDomain.ErrDeviceAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create device")
	}
	return nil
}

// GetByDeviceID retrieves a device by its identifier string.
func (m *MySQLDeviceRepository) GetByDeviceID(
	ctx context.Context,
	deviceID string,
) (*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + deviceColumns + ` FROM devices WHERE device_id = ?`

	device, err := scanDevice(querier.QueryRowContext(ctx, query, deviceID), newBinaryID())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, deviceDomain.ErrDeviceNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get device")
	}
	return device, nil
}

// List retrieves devices newest first with pagination.
func (m *MySQLDeviceRepository) List(ctx context.Context, offset, limit int) ([]*deviceDomain.Device, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + deviceColumns + ` FROM devices
			  ORDER BY created_at DESC, device_id ASC
			  LIMIT ? OFFSET ?`

	rows, err := querier.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list devices")
	}
	return scanDevices(rows, newBinaryID)
}

// Revoke marks an active device as revoked. It returns ErrDeviceNotFound when no
// active device matches.
func (m *MySQLDeviceRepository) Revoke(ctx context.Context, deviceID string, revokedAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

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
func (m *MySQLDeviceRepository) Touch(ctx context.Context, deviceID string, seenAt time.Time) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE devices SET last_seen_at = ? WHERE device_id = ?`

	if _, err := querier.ExecContext(ctx, query, seenAt, deviceID); err != nil {
		return apperrors.Wrap(err, "failed to update device last seen")
	}
	return nil
}
