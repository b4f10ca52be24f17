package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"finwatch/core"

	"go.uber.org/zap"
)

// SQLiteActivityStorage implements core.ActivityStorage. The free-form
// details payload is stored as a JSON column.
type SQLiteActivityStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteActivityStorage creates the activity storage and its schema.
func NewSQLiteActivityStorage(sqlite *SQLite, logger *zap.SugaredLogger) (*SQLiteActivityStorage, error) {
	s := &SQLiteActivityStorage{sqlite: sqlite, logger: logger}
	if err := s.ensureTables(); err != nil {
		return nil, fmt.Errorf("failed to ensure activity tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteActivityStorage) ensureTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS user_activities (
		id TEXT PRIMARY KEY,
		user TEXT NOT NULL,
		event_type TEXT NOT NULL,
		timestamp DATETIME NOT NULL,
		ip_address TEXT DEFAULT '',
		details TEXT DEFAULT '{}'
	);
	CREATE INDEX IF NOT EXISTS idx_activities_timestamp ON user_activities(timestamp);
	CREATE INDEX IF NOT EXISTS idx_activities_user ON user_activities(user);
	`
	_, err := s.sqlite.WriteDB.Exec(schema)
	return err
}

// InsertActivity appends one activity record.
func (s *SQLiteActivityStorage) InsertActivity(ctx context.Context, activity *core.UserActivity) error {
	details, err := json.Marshal(activity.Details)
	if err != nil {
		return fmt.Errorf("failed to marshal activity details: %w", err)
	}

	_, err = s.sqlite.WriteDB.ExecContext(ctx,
		`INSERT INTO user_activities (id, user, event_type, timestamp, ip_address, details)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		activity.ID, activity.User, activity.EventType,
		activity.Timestamp.UTC(), activity.IPAddress, string(details))
	if err != nil {
		return fmt.Errorf("failed to insert user activity: %w", err)
	}
	return nil
}

// DeleteAllActivities clears the table for a fresh run.
func (s *SQLiteActivityStorage) DeleteAllActivities(ctx context.Context) error {
	if _, err := s.sqlite.WriteDB.ExecContext(ctx, "DELETE FROM user_activities"); err != nil {
		return fmt.Errorf("failed to clear user activities: %w", err)
	}
	return nil
}

// CountActivities returns the total activity count.
func (s *SQLiteActivityStorage) CountActivities(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlite.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM user_activities").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count user activities: %w", err)
	}
	return n, nil
}
