package pipeline

import (
	"context"
	"fmt"

	"finwatch/core"
	"finwatch/metrics"

	"go.uber.org/zap"
)

// Stores bundles the repositories the pipeline writes to. Injected rather
// than ambient so tests and alternate deployments can swap the store.
type Stores struct {
	Devices    core.DeviceStorage
	Events     core.EventStorage
	Metrics    core.MetricStorage
	Activities core.ActivityStorage
}

// Loader performs the load phase. Every record is attempted independently:
// a store rejection is recorded and the batch moves on, so one bad record
// never aborts a run.
type Loader struct {
	stores  Stores
	policy  core.UpsertPolicy
	logger  *zap.SugaredLogger
	onError func(entity, msg string)
}

// NewLoader creates a loader. onError receives per-record failures for the
// run's error list.
func NewLoader(stores Stores, policy core.UpsertPolicy, logger *zap.SugaredLogger, onError func(entity, msg string)) *Loader {
	return &Loader{stores: stores, policy: policy, logger: logger, onError: onError}
}

// Clear bulk-deletes events, metrics and activities so the run starts
// fresh. Devices are deliberately not cleared: they upsert by hostname.
// A failure here means the store is unusable and is fatal to the run.
func (l *Loader) Clear(ctx context.Context) error {
	if err := l.stores.Events.DeleteAllEvents(ctx); err != nil {
		return fmt.Errorf("failed to clear security events: %w", err)
	}
	if err := l.stores.Metrics.DeleteAllMetrics(ctx); err != nil {
		return fmt.Errorf("failed to clear system metrics: %w", err)
	}
	if err := l.stores.Activities.DeleteAllActivities(ctx); err != nil {
		return fmt.Errorf("failed to clear user activities: %w", err)
	}
	l.logger.Info("cleared events, metrics and activities for fresh run")
	return nil
}

// LoadDevices upserts devices keyed by hostname and returns how many were
// written.
func (l *Loader) LoadDevices(ctx context.Context, devices []*core.Device) int {
	loaded := 0
	for _, device := range devices {
		if _, err := l.stores.Devices.UpsertDevice(ctx, device, l.policy); err != nil {
			l.recordError("device", fmt.Sprintf("device %s: %v", device.Hostname, err))
			continue
		}
		loaded++
	}
	metrics.RecordsLoaded.WithLabelValues("device").Add(float64(loaded))
	l.logger.Infow("devices loaded", "count", loaded)
	return loaded
}

// LoadEvents appends security events and returns how many were written.
func (l *Loader) LoadEvents(ctx context.Context, events []*core.SecurityEvent) int {
	loaded := 0
	for _, event := range events {
		if err := l.stores.Events.InsertEvent(ctx, event); err != nil {
			l.recordError("security_event", fmt.Sprintf("event %s: %v", event.ID, err))
			continue
		}
		loaded++
	}
	metrics.RecordsLoaded.WithLabelValues("security_event").Add(float64(loaded))
	l.logger.Infow("security events loaded", "count", loaded)
	return loaded
}

// LoadMetrics appends metric samples and returns how many were written.
func (l *Loader) LoadMetrics(ctx context.Context, samples []*core.SystemMetric) int {
	loaded := 0
	for _, sample := range samples {
		if err := l.stores.Metrics.InsertMetric(ctx, sample); err != nil {
			l.recordError("system_metric", fmt.Sprintf("metric %s: %v", sample.ID, err))
			continue
		}
		loaded++
	}
	metrics.RecordsLoaded.WithLabelValues("system_metric").Add(float64(loaded))
	l.logger.Infow("system metrics loaded", "count", loaded)
	return loaded
}

// LoadActivities appends user activities and returns how many were written.
func (l *Loader) LoadActivities(ctx context.Context, activities []*core.UserActivity) int {
	loaded := 0
	for _, activity := range activities {
		if err := l.stores.Activities.InsertActivity(ctx, activity); err != nil {
			l.recordError("user_activity", fmt.Sprintf("activity %s: %v", activity.ID, err))
			continue
		}
		loaded++
	}
	metrics.RecordsLoaded.WithLabelValues("user_activity").Add(float64(loaded))
	l.logger.Infow("user activities loaded", "count", loaded)
	return loaded
}

func (l *Loader) recordError(entity, msg string) {
	metrics.RecordErrors.WithLabelValues(entity).Inc()
	l.logger.Warnw("record rejected by store", "entity", entity, "error", msg)
	if l.onError != nil {
		l.onError(entity, msg)
	}
}
