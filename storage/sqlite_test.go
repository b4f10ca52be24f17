package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"finwatch/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type testStorages struct {
	sqlite     *SQLite
	devices    *SQLiteDeviceStorage
	events     *SQLiteEventStorage
	metrics    *SQLiteMetricStorage
	activities *SQLiteActivityStorage
}

func newTestStorages(t *testing.T) *testStorages {
	t.Helper()
	logger := zaptest.NewLogger(t).Sugar()

	sqlite, err := NewSQLite(filepath.Join(t.TempDir(), "finwatch_test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlite.Close() })

	devices, err := NewSQLiteDeviceStorage(sqlite, logger)
	require.NoError(t, err)
	events, err := NewSQLiteEventStorage(sqlite, logger)
	require.NoError(t, err)
	metrics, err := NewSQLiteMetricStorage(sqlite, logger)
	require.NoError(t, err)
	activities, err := NewSQLiteActivityStorage(sqlite, logger)
	require.NoError(t, err)

	return &testStorages{sqlite: sqlite, devices: devices, events: events, metrics: metrics, activities: activities}
}

func testDevice(hostname string) *core.Device {
	return &core.Device{
		Hostname:   hostname,
		IPAddress:  "10.0.0.102",
		DeviceType: core.DeviceTypeWorkstation,
		Status:     core.DeviceStatusCritical,
		OS:         "Win10",
		Notes:      "Outdated OS; no antivirus",
	}
}

func TestDeviceStorage_UpsertCreate(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	created, err := s.devices.UpsertDevice(ctx, testDevice("PC-02"), core.UpsertUpdate)
	require.NoError(t, err)
	assert.True(t, created)

	got, err := s.devices.GetDeviceByHostname(ctx, "PC-02")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.102", got.IPAddress)
	assert.Equal(t, core.DeviceTypeWorkstation, got.DeviceType)
	assert.Equal(t, core.DeviceStatusCritical, got.Status)
}

// Re-running the same inventory must not duplicate hosts: the second upsert
// reports not-created and the count stays at one.
func TestDeviceStorage_UpsertIdempotent(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	created, err := s.devices.UpsertDevice(ctx, testDevice("PC-02"), core.UpsertUpdate)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = s.devices.UpsertDevice(ctx, testDevice("PC-02"), core.UpsertUpdate)
	require.NoError(t, err)
	assert.False(t, created)

	n, err := s.devices.CountDevices(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDeviceStorage_UpdatePolicyOverwrites(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	_, err := s.devices.UpsertDevice(ctx, testDevice("PC-02"), core.UpsertUpdate)
	require.NoError(t, err)

	fresh := testDevice("PC-02")
	fresh.Status = core.DeviceStatusActive
	fresh.Notes = "reimaged, antivirus installed"
	_, err = s.devices.UpsertDevice(ctx, fresh, core.UpsertUpdate)
	require.NoError(t, err)

	got, err := s.devices.GetDeviceByHostname(ctx, "PC-02")
	require.NoError(t, err)
	assert.Equal(t, core.DeviceStatusActive, got.Status)
	assert.Equal(t, "reimaged, antivirus installed", got.Notes)
}

func TestDeviceStorage_SkipPolicyPreservesExisting(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	_, err := s.devices.UpsertDevice(ctx, testDevice("PC-02"), core.UpsertSkip)
	require.NoError(t, err)

	fresh := testDevice("PC-02")
	fresh.Status = core.DeviceStatusActive
	_, err = s.devices.UpsertDevice(ctx, fresh, core.UpsertSkip)
	require.NoError(t, err)

	got, err := s.devices.GetDeviceByHostname(ctx, "PC-02")
	require.NoError(t, err)
	assert.Equal(t, core.DeviceStatusCritical, got.Status, "skip policy must not overwrite")
}

func TestDeviceStorage_Validation(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	_, err := s.devices.UpsertDevice(ctx, &core.Device{}, core.UpsertUpdate)
	assert.ErrorContains(t, err, "hostname")

	_, err = s.devices.UpsertDevice(ctx, testDevice("PC-03"), core.UpsertPolicy("merge"))
	assert.ErrorContains(t, err, "unknown upsert policy")

	_, err = s.devices.GetDeviceByHostname(ctx, "missing")
	assert.ErrorIs(t, err, ErrDeviceNotFound)
}

func TestDeviceStorage_CountByStatus(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	for _, d := range core.SampleDevices() {
		_, err := s.devices.UpsertDevice(ctx, d, core.UpsertUpdate)
		require.NoError(t, err)
	}

	critical, err := s.devices.CountDevicesByStatus(ctx, core.DeviceStatusCritical)
	require.NoError(t, err)
	assert.Equal(t, 3, critical)

	devices, err := s.devices.ListDevices(ctx)
	require.NoError(t, err)
	assert.Len(t, devices, 6)
}

func TestEventStorage_InsertAndCounts(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	now := time.Now()
	events := []*core.SecurityEvent{
		core.NewSecurityEvent(core.CategoryLoginFailure, core.SeverityCritical, "203.0.113.5", "failed logins", true),
		core.NewSecurityEvent(core.CategoryTransaction, core.SeverityInfo, "192.168.1.20", "purchase", false),
		core.NewSecurityEvent(core.CategoryDDoSAttack, core.SeverityCritical, "198.51.100.9", "flood", true),
	}
	events[2].Timestamp = now.Add(-48 * time.Hour)
	for _, e := range events {
		require.NoError(t, s.events.InsertEvent(ctx, e))
	}

	total, err := s.events.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)

	critical, err := s.events.CountEventsBySeverity(ctx, core.SeverityCritical)
	require.NoError(t, err)
	assert.Equal(t, 2, critical)

	threats, err := s.events.CountThreats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, threats)

	recent, err := s.events.CountEventsSince(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, recent)
}

func TestEventStorage_Clear(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	require.NoError(t, s.events.InsertEvent(ctx,
		core.NewSecurityEvent(core.CategoryLoginFailure, core.SeverityCritical, "203.0.113.5", "x", true)))
	require.NoError(t, s.events.DeleteAllEvents(ctx))

	n, err := s.events.CountEvents(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestMetricStorage_InsertAndClear(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	require.NoError(t, s.metrics.InsertMetric(ctx,
		core.NewSystemMetric("PC-02", time.Now(), 72.5, 81.2, 240)))

	n, err := s.metrics.CountMetrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.metrics.DeleteAllMetrics(ctx))
	n, err = s.metrics.CountMetrics(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

// The schema enforces the metric range invariant as a last line of defense.
func TestMetricStorage_RejectsOutOfRange(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	err := s.metrics.InsertMetric(ctx, core.NewSystemMetric("", time.Now(), 150, 50, 100))
	assert.Error(t, err)

	err = s.metrics.InsertMetric(ctx, core.NewSystemMetric("", time.Now(), 50, 50, 0))
	assert.Error(t, err)
}

func TestActivityStorage_InsertAndClear(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	activity := core.NewUserActivity("admin", "checkout", "192.168.1.10", time.Now(),
		map[string]any{"sales": 120.5, "session_id": "session_1"})
	require.NoError(t, s.activities.InsertActivity(ctx, activity))

	n, err := s.activities.CountActivities(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, s.activities.DeleteAllActivities(ctx))
	n, err = s.activities.CountActivities(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestStatsReader(t *testing.T) {
	s := newTestStorages(t)
	ctx := context.Background()

	for _, d := range core.SampleDevices() {
		_, err := s.devices.UpsertDevice(ctx, d, core.UpsertUpdate)
		require.NoError(t, err)
	}
	for _, e := range core.DemoCriticalEvents(time.Now()) {
		require.NoError(t, s.events.InsertEvent(ctx, e))
	}
	require.NoError(t, s.metrics.InsertMetric(ctx,
		core.NewSystemMetric("", time.Now(), 50, 50, 100)))

	reader := &StatsReader{Devices: s.devices, Events: s.events, Metrics: s.metrics, Activities: s.activities}
	stats, err := reader.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Devices)
	assert.Equal(t, 3, stats.CriticalDevices)
	assert.Equal(t, 4, stats.SecurityEvents)
	assert.Equal(t, 3, stats.CriticalEvents)
	assert.Equal(t, 4, stats.ActiveThreats)
	assert.Equal(t, 4, stats.EventsLast24h)
	assert.Equal(t, 1, stats.SystemMetrics)
	assert.Zero(t, stats.UserActivities)
}
