package core

import (
	"context"
	"time"
)

// DeviceStorage persists network devices keyed by hostname.
type DeviceStorage interface {
	// UpsertDevice inserts the device or resolves a hostname conflict per
	// the policy. Returns true when a new row was created.
	UpsertDevice(ctx context.Context, device *Device, policy UpsertPolicy) (bool, error)
	GetDeviceByHostname(ctx context.Context, hostname string) (*Device, error)
	ListDevices(ctx context.Context) ([]*Device, error)
	CountDevices(ctx context.Context) (int, error)
	CountDevicesByStatus(ctx context.Context, status DeviceStatus) (int, error)
}

// EventStorage persists classified security events, append-only.
type EventStorage interface {
	InsertEvent(ctx context.Context, event *SecurityEvent) error
	DeleteAllEvents(ctx context.Context) error
	CountEvents(ctx context.Context) (int, error)
	CountEventsBySeverity(ctx context.Context, severity Severity) (int, error)
	CountThreats(ctx context.Context) (int, error)
	CountEventsSince(ctx context.Context, since time.Time) (int, error)
}

// MetricStorage persists system metric samples, append-only.
type MetricStorage interface {
	InsertMetric(ctx context.Context, metric *SystemMetric) error
	DeleteAllMetrics(ctx context.Context) error
	CountMetrics(ctx context.Context) (int, error)
}

// ActivityStorage persists user activity records, append-only.
type ActivityStorage interface {
	InsertActivity(ctx context.Context, activity *UserActivity) error
	DeleteAllActivities(ctx context.Context) error
	CountActivities(ctx context.Context) (int, error)
}
