package storage

import (
	"context"
	"fmt"

	"finwatch/core"

	"go.uber.org/zap"
)

// SQLiteMetricStorage implements core.MetricStorage.
type SQLiteMetricStorage struct {
	sqlite *SQLite
	logger *zap.SugaredLogger
}

// NewSQLiteMetricStorage creates the metric storage and its schema.
func NewSQLiteMetricStorage(sqlite *SQLite, logger *zap.SugaredLogger) (*SQLiteMetricStorage, error) {
	s := &SQLiteMetricStorage{sqlite: sqlite, logger: logger}
	if err := s.ensureTables(); err != nil {
		return nil, fmt.Errorf("failed to ensure metric tables: %w", err)
	}
	return s, nil
}

func (s *SQLiteMetricStorage) ensureTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS system_metrics (
		id TEXT PRIMARY KEY,
		hostname TEXT DEFAULT '',
		timestamp DATETIME NOT NULL,
		cpu_usage REAL NOT NULL CHECK(cpu_usage >= 0 AND cpu_usage <= 100),
		memory_usage REAL NOT NULL CHECK(memory_usage >= 0 AND memory_usage <= 100),
		response_time INTEGER NOT NULL CHECK(response_time > 0)
	);
	CREATE INDEX IF NOT EXISTS idx_metrics_timestamp ON system_metrics(timestamp);
	CREATE INDEX IF NOT EXISTS idx_metrics_hostname ON system_metrics(hostname);
	`
	_, err := s.sqlite.WriteDB.Exec(schema)
	return err
}

// InsertMetric appends one metric sample. The schema re-checks the range
// invariants the generator already guarantees.
func (s *SQLiteMetricStorage) InsertMetric(ctx context.Context, metric *core.SystemMetric) error {
	_, err := s.sqlite.WriteDB.ExecContext(ctx,
		`INSERT INTO system_metrics (id, hostname, timestamp, cpu_usage, memory_usage, response_time)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		metric.ID, metric.Hostname, metric.Timestamp.UTC(),
		metric.CPUUsage, metric.MemoryUsage, metric.ResponseTime)
	if err != nil {
		return fmt.Errorf("failed to insert system metric: %w", err)
	}
	return nil
}

// DeleteAllMetrics clears the table for a fresh run.
func (s *SQLiteMetricStorage) DeleteAllMetrics(ctx context.Context) error {
	if _, err := s.sqlite.WriteDB.ExecContext(ctx, "DELETE FROM system_metrics"); err != nil {
		return fmt.Errorf("failed to clear system metrics: %w", err)
	}
	return nil
}

// CountMetrics returns the total metric count.
func (s *SQLiteMetricStorage) CountMetrics(ctx context.Context) (int, error) {
	var n int
	if err := s.sqlite.ReadDB.QueryRowContext(ctx, "SELECT COUNT(*) FROM system_metrics").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count system metrics: %w", err)
	}
	return n, nil
}
