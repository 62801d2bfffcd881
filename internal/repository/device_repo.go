package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"focus_engine/internal/models"
)

type DeviceSQLite struct {
	db *sql.DB
}

func NewDeviceSQLite(db *sql.DB) *DeviceSQLite {
	return &DeviceSQLite{db: db}
}

// Ensure implementation of DeviceRepo interface at compile time.
var _ DeviceRepo = (*DeviceSQLite)(nil)

const (
	insertDeviceSQL       = `INSERT INTO companion_devices (name, secret_hash) VALUES (?, ?)`
	selectDeviceByNameSQL = `SELECT id, name, secret_hash FROM companion_devices WHERE name = ?`
)

// Create inserts a new device and returns its ID.
func (r *DeviceSQLite) Create(ctx context.Context, name, secretHash string) (int, error) {
	res, err := r.db.ExecContext(ctx, insertDeviceSQL, name, secretHash)
	if err != nil {
		return 0, fmt.Errorf("insert device %q: %w", name, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for device %q: %w", name, err)
	}
	return int(lastID), nil
}

// GetByName fetches a device by name. Returns (nil, nil) if not found.
func (r *DeviceSQLite) GetByName(ctx context.Context, name string) (*models.CompanionDevice, error) {
	var d models.CompanionDevice
	err := r.db.QueryRowContext(ctx, selectDeviceByNameSQL, name).Scan(&d.ID, &d.Name, &d.SecretHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select device %q: %w", name, err)
	}
	return &d, nil
}
