package storage

import (
	"context"
	"fmt"
	"time"

	"finwatch/core"
)

// DashboardStats is the aggregate read-side the dashboard panels poll.
type DashboardStats struct {
	Devices         int `json:"devices"`
	CriticalDevices int `json:"critical_devices"`
	SecurityEvents  int `json:"security_events"`
	CriticalEvents  int `json:"critical_events"`
	ActiveThreats   int `json:"active_threats"`
	EventsLast24h   int `json:"events_last_24h"`
	SystemMetrics   int `json:"system_metrics"`
	UserActivities  int `json:"user_activities"`
}

// StatsReader aggregates counts across the entity storages.
type StatsReader struct {
	Devices    core.DeviceStorage
	Events     core.EventStorage
	Metrics    core.MetricStorage
	Activities core.ActivityStorage
}

// Stats collects the dashboard aggregates in one pass.
func (r *StatsReader) Stats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}
	var err error

	if stats.Devices, err = r.Devices.CountDevices(ctx); err != nil {
		return nil, fmt.Errorf("failed to read device stats: %w", err)
	}
	if stats.CriticalDevices, err = r.Devices.CountDevicesByStatus(ctx, core.DeviceStatusCritical); err != nil {
		return nil, fmt.Errorf("failed to read device stats: %w", err)
	}
	if stats.SecurityEvents, err = r.Events.CountEvents(ctx); err != nil {
		return nil, fmt.Errorf("failed to read event stats: %w", err)
	}
	if stats.CriticalEvents, err = r.Events.CountEventsBySeverity(ctx, core.SeverityCritical); err != nil {
		return nil, fmt.Errorf("failed to read event stats: %w", err)
	}
	if stats.ActiveThreats, err = r.Events.CountThreats(ctx); err != nil {
		return nil, fmt.Errorf("failed to read event stats: %w", err)
	}
	if stats.EventsLast24h, err = r.Events.CountEventsSince(ctx, time.Now().Add(-24*time.Hour)); err != nil {
		return nil, fmt.Errorf("failed to read event stats: %w", err)
	}
	if stats.SystemMetrics, err = r.Metrics.CountMetrics(ctx); err != nil {
		return nil, fmt.Errorf("failed to read metric stats: %w", err)
	}
	if stats.UserActivities, err = r.Activities.CountActivities(ctx); err != nil {
		return nil, fmt.Errorf("failed to read activity stats: %w", err)
	}
	return stats, nil
}
