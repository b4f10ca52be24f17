package pipeline

import (
	"fmt"
	"strings"
	"time"

	"finwatch/core"
	"finwatch/extract"
)

// activityEventTypes are the user actions drawn when deriving activities
// from marketing rows, which carry no per-action labels of their own.
var activityEventTypes = []string{"page_view", "login", "logout", "search", "checkout"}

// transformDevices normalizes and classifies inventory rows. An empty table
// degrades to the fixed sample fleet so the dashboard is never blank.
func (p *Pipeline) transformDevices(table *extract.Table) []*core.Device {
	if table.Empty() {
		p.logger.Warnw("network inventory unavailable, using sample devices", "source", table.Source)
		return core.SampleDevices()
	}

	devices := make([]*core.Device, 0, len(table.Rows))
	for i, row := range table.Rows {
		hostname := core.CleanString(row.Get("Device"))
		ip := core.CleanString(row.Get("IP_Address"))
		role := core.CleanString(row.Get("Role"))
		osInfo := core.CleanString(row.Get("OS"))
		notes := core.CleanString(row.Get("Notes"))

		if hostname == "" {
			p.recordError("device", fmt.Sprintf("row %d: missing device name", i))
			continue
		}
		if !core.ValidIPv4(ip) {
			p.recordError("device", fmt.Sprintf("row %d: invalid IP address %q for device %s", i, ip, hostname))
			continue
		}

		deviceType, status := p.rules.ClassifyDevice(role, notes)
		devices = append(devices, &core.Device{
			Hostname:   hostname,
			IPAddress:  ip,
			DeviceType: deviceType,
			Status:     status,
			OS:         osInfo,
			Notes:      notes,
		})
	}
	p.logger.Infow("network inventory transformed", "valid", len(devices), "raw", len(table.Rows))
	return devices
}

// transformEvents classifies raw event rows into security events. Event
// timestamps are spread over the last three days so the dashboard's recent
// windows are populated regardless of how stale the export is.
func (p *Pipeline) transformEvents(table *extract.Table) []*core.SecurityEvent {
	var events []*core.SecurityEvent

	if table.Empty() {
		p.logger.Warnw("event logs unavailable", "source", table.Source)
	} else {
		for _, row := range table.Rows {
			rawType := strings.ToLower(core.StringOr(row.Get("event_type"), "unknown"))
			ctx := core.EventContext{
				RawType:   rawType,
				UserID:    core.StringOr(row.Get("user_id"), "unknown"),
				ProductID: core.CleanString(row.Get("product_id")),
				Amount:    core.CoerceFloat(row.Get("amount")),
			}

			cls := p.rules.ClassifyEvent(rawType)
			event := core.NewSecurityEvent(
				cls.Category, cls.Severity,
				core.SynthesizeSourceIP(cls, p.rng),
				core.SynthesizeDetails(ctx, cls),
				cls.IsThreat,
			)
			event.Timestamp = p.now().Add(-time.Duration(p.rng.Intn(72)) * time.Hour)
			events = append(events, event)
		}
		p.logger.Infow("event logs transformed", "events", len(events))
	}

	if p.cfg.Pipeline.IncludeDemoEvents {
		events = append(events, core.DemoCriticalEvents(p.now())...)
	}
	return events
}

// transformMetrics generates the synthetic telemetry series. A configured
// multi-day window takes precedence; otherwise per-device series when the
// fleet is known, fleet-wide hourly buckets when it is not.
func (p *Pipeline) transformMetrics(devices []*core.Device) []*core.SystemMetric {
	if days := p.cfg.Pipeline.MetricDays; days > 0 {
		return p.gen.DailySeries(days)
	}
	if len(devices) > 0 {
		return p.gen.DeviceSeries(devices, p.cfg.Pipeline.MetricHours)
	}
	return p.gen.HourlySeries(p.cfg.Pipeline.MetricHours)
}

// transformActivities derives user activities from marketing summary rows.
// An empty table degrades to sample activities.
func (p *Pipeline) transformActivities(table *extract.Table) []*core.UserActivity {
	user := p.cfg.Pipeline.ActivityUser

	if table.Empty() {
		p.logger.Warnw("marketing summary unavailable, using sample activities", "source", table.Source)
		return core.SampleActivities(user, 20, p.now(), p.rng)
	}

	activities := make([]*core.UserActivity, 0, len(table.Rows))
	for i, row := range table.Rows {
		ts := p.now().
			Add(-time.Duration(p.rng.Intn(30)*24) * time.Hour).
			Add(-time.Duration(p.rng.Intn(24)) * time.Hour)

		activities = append(activities, core.NewUserActivity(
			user,
			activityEventTypes[p.rng.Intn(len(activityEventTypes))],
			fmt.Sprintf("192.168.1.%d", 1+p.rng.Intn(254)),
			ts,
			map[string]any{
				"daily_users":   core.CoerceFloat(row.Get("users_active")),
				"sales":         core.CoerceFloat(row.Get("total_sales")),
				"new_customers": core.CoerceFloat(row.Get("new_customers")),
				"session_id":    fmt.Sprintf("session_%d", i),
			},
		))
	}
	p.logger.Infow("marketing summary transformed", "activities", len(activities))
	return activities
}
