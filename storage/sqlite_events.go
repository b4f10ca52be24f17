package storage

import (
	"context"
	"fmt"
	"time"

	"finwatch/core"

	"go.uber.org/zap"
)

// SQLiteEventStorage implements core.EventStorage. Events are append-only;
// the only delete is the whole-table clear at the start of a fresh run.
type SQLiteEventStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteEventStorage creates the event storage and its schema.
func NewSQLiteEventStorage(sqlite *SQLite, logger *zap.SugaredLogger) (*SQLiteEventStorage, error) {
	s := &SQLiteEventStorage{sqlite: sqlite, logger: logger}
	if err := s.ensureTables(); err != nil {
		return nil, fmt.Errorf("failed to ensure event tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteEventStorage) ensureTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS security_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL CHECK(event_type IN ('login_failure','unauthorized_access','suspicious_traffic','transaction','malware_detected','ddos_attack')),
		severity TEXT NOT NULL CHECK(severity IN ('info','warning','critical')),
		source_ip TEXT NOT NULL,
		details TEXT DEFAULT '',
		is_threat INTEGER NOT NULL DEFAULT 0,
		timestamp DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_events_severity ON security_events(severity);
	CREATE INDEX IF NOT EXISTS idx_events_timestamp ON security_events(timestamp);
	CREATE INDEX IF NOT EXISTS idx_events_is_threat ON security_events(is_threat);
	`
	_, err := s.sqlite.WriteDB.Exec(schema)
	return err
}

// InsertEvent appends one classified event.
func (s *SQLiteEventStorage) InsertEvent(ctx context.Context, event *core.SecurityEvent) error {
	_, err := s.sqlite.WriteDB.ExecContext(ctx,
		`INSERT INTO security_events (id, event_type, severity, source_ip, details, is_threat, timestamp)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		event.ID, string(event.EventType), string(event.Severity),
		event.SourceIP, event.Details, boolToInt(event.IsThreat), event.Timestamp.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert security event: %w", err)
	}
	return nil
}

// DeleteAllEvents clears the table for a fresh run.
func (s *SQLiteEventStorage) DeleteAllEvents(ctx context.Context) error {
	if _, err := s.sqlite.WriteDB.ExecContext(ctx, "DELETE FROM security_events"); err != nil {
		return fmt.Errorf("failed to clear security events: %w", err)
	}
	return nil
}

// CountEvents returns the total event count.
func (s *SQLiteEventStorage) CountEvents(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM security_events")
}

// CountEventsBySeverity returns the event count for one severity.
func (s *SQLiteEventStorage) CountEventsBySeverity(ctx context.Context, severity core.Severity) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM security_events WHERE severity = ?", string(severity))
}

// CountThreats returns the count of events flagged as threats.
func (s *SQLiteEventStorage) CountThreats(ctx context.Context) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM security_events WHERE is_threat = 1")
}

// CountEventsSince returns events at or after the given time.
func (s *SQLiteEventStorage) CountEventsSince(ctx context.Context, since time.Time) (int, error) {
	return s.count(ctx, "SELECT COUNT(*) FROM security_events WHERE timestamp >= ?", since.UTC())
}

func (s *SQLiteEventStorage) count(ctx context.Context, query string, args ...any) (int, error) {
	var n int
	if err := s.sqlite.ReadDB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count security events: %w", err)
	}
	return n, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
