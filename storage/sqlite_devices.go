package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"finwatch/core"

	"go.uber.org/zap"
)

// ErrDeviceNotFound is returned when no device matches the hostname.
var ErrDeviceNotFound = errors.New("device not found")

// SQLiteDeviceStorage implements core.DeviceStorage.
type SQLiteDeviceStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteDeviceStorage creates the device storage and its schema.
func NewSQLiteDeviceStorage(sqlite *SQLite, logger *zap.SugaredLogger) (*SQLiteDeviceStorage, error) {
	s := &SQLiteDeviceStorage{sqlite: sqlite, logger: logger}
	if err := s.ensureTables(); err != nil {
		return nil, fmt.Errorf("failed to ensure device tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteDeviceStorage) ensureTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS devices (
		hostname TEXT PRIMARY KEY,
		ip_address TEXT NOT NULL,
		device_type TEXT NOT NULL CHECK(device_type IN ('router','server','printer','workstation')),
		status TEXT NOT NULL CHECK(status IN ('active','warning','critical')),
		os TEXT DEFAULT '',
		notes TEXT DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_devices_status ON devices(status);
	CREATE INDEX IF NOT EXISTS idx_devices_type ON devices(device_type);
	`
	if _, err := s.sqlite.WriteDB.Exec(schema); err != nil {
		return err
	}
	return nil
}

// UpsertDevice inserts the device, resolving a hostname conflict per the
// policy: update overwrites in place, skip leaves the stored row untouched.
// Returns true when a new row was created.
func (s *SQLiteDeviceStorage) UpsertDevice(ctx context.Context, device *core.Device, policy core.UpsertPolicy) (bool, error) {
	if device.Hostname == "" {
		return false, fmt.Errorf("device hostname is required")
	}
	if !policy.IsValid() {
		return false, fmt.Errorf("unknown upsert policy %q", policy)
	}

	now := time.Now().UTC()
	var query string
	switch policy {
	case core.UpsertUpdate:
		query = `INSERT INTO devices (hostname, ip_address, device_type, status, os, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(hostname) DO UPDATE SET
				ip_address = excluded.ip_address,
				device_type = excluded.device_type,
				status = excluded.status,
				os = excluded.os,
				notes = excluded.notes,
				updated_at = excluded.updated_at`
	case core.UpsertSkip:
		query = `INSERT INTO devices (hostname, ip_address, device_type, status, os, notes, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(hostname) DO NOTHING`
	}

	existing, err := s.exists(ctx, device.Hostname)
	if err != nil {
		return false, err
	}

	_, err = s.sqlite.WriteDB.ExecContext(ctx, query,
		device.Hostname, device.IPAddress, string(device.DeviceType), string(device.Status),
		device.OS, device.Notes, now, now)
	if err != nil {
		return false, fmt.Errorf("failed to upsert device %s: %w", device.Hostname, err)
	}
	return !existing, nil
}

func (s *SQLiteDeviceStorage) exists(ctx context.Context, hostname string) (bool, error) {
	var n int
	err := s.sqlite.ReadDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE hostname = ?", hostname).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check device existence: %w", err)
	}
	return n > 0, nil
}

// GetDeviceByHostname returns the device or ErrDeviceNotFound.
func (s *SQLiteDeviceStorage) GetDeviceByHostname(ctx context.Context, hostname string) (*core.Device, error) {
	row := s.sqlite.ReadDB.QueryRowContext(ctx,
		`SELECT hostname, ip_address, device_type, status, os, notes, created_at, updated_at
		 FROM devices WHERE hostname = ?`, hostname)

	device, err := scanDevice(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDeviceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get device %s: %w", hostname, err)
	}
	return device, nil
}

// ListDevices returns all devices ordered by hostname.
func (s *SQLiteDeviceStorage) ListDevices(ctx context.Context) ([]*core.Device, error) {
	rows, err := s.sqlite.ReadDB.QueryContext(ctx,
		`SELECT hostname, ip_address, device_type, status, os, notes, created_at, updated_at
		 FROM devices ORDER BY hostname`)
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var devices []*core.Device
	for rows.Next() {
		device, err := scanDevice(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan device: %w", err)
		}
		devices = append(devices, device)
	}
	return devices, rows.Err()
}

// CountDevices returns the total device count.
func (s *SQLiteDeviceStorage) CountDevices(ctx context.Context) (int, error) {
	var n int
	err := s.sqlite.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM devices").Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count devices: %w", err)
	}
	return n, nil
}

// CountDevicesByStatus returns the device count for one status.
func (s *SQLiteDeviceStorage) CountDevicesByStatus(ctx context.Context, status core.DeviceStatus) (int, error) {
	var n int
	err := s.sqlite.ReadDB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE status = ?", string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count devices by status: %w", err)
	}
	return n, nil
}

func scanDevice(scan func(dest ...any) error) (*core.Device, error) {
	var d core.Device
	var deviceType, status string
	if err := scan(&d.Hostname, &d.IPAddress, &deviceType, &status, &d.OS, &d.Notes, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.DeviceType = core.DeviceType(deviceType)
	d.Status = core.DeviceStatus(status)
	return &d, nil
}
