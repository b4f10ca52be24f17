package core

import (
	"math/rand"
	"time"
)

// Business hours window used by the diurnal model.
const (
	businessHourStart = 8
	businessHourEnd   = 18
)

// Baseline load profile. The absolute numbers are policy, chosen to make
// dashboards look like a working fleet; tests assert ranges, not values.
const (
	busyBaseCPU      = 60.0
	idleBaseCPU      = 30.0
	busyBaseMemory   = 70.0
	idleBaseMemory   = 40.0
	busyBaseResponse = 200.0
	idleBaseResponse = 100.0
)

// MetricGenerator produces synthetic telemetry when no measured data
// exists. All randomness flows through Rng so tests can seed it; Now is
// injectable for the same reason.
type MetricGenerator struct {
	Rng *rand.Rand
	Now func() time.Time
}

// NewMetricGenerator creates a generator. A zero seed means clock-seeded,
// which is what production runs want; tests pass a fixed seed.
func NewMetricGenerator(seed int64) *MetricGenerator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &MetricGenerator{
		Rng: rand.New(rand.NewSource(seed)),
		Now: time.Now,
	}
}

// HourlySeries generates one fleet-wide sample per hourly bucket, walking
// back from now. hours <= 0 defaults to 24.
func (g *MetricGenerator) HourlySeries(hours int) []*SystemMetric {
	if hours <= 0 {
		hours = 24
	}
	now := g.Now()
	metrics := make([]*SystemMetric, 0, hours)
	for hoursAgo := 0; hoursAgo < hours; hoursAgo++ {
		ts := now.Add(-time.Duration(hoursAgo) * time.Hour)
		metrics = append(metrics, g.diurnalSample("", ts, isBusinessHour(ts.Hour())))
	}
	return metrics
}

// DeviceSeries generates one sample per device per hourly bucket. Devices
// flagged critical draw from a near-saturation profile to read as degraded
// hosts; everything else follows the diurnal model.
func (g *MetricGenerator) DeviceSeries(devices []*Device, hours int) []*SystemMetric {
	if hours <= 0 {
		hours = 24
	}
	now := g.Now()
	metrics := make([]*SystemMetric, 0, hours*len(devices))
	for _, device := range devices {
		for hoursAgo := 0; hoursAgo < hours; hoursAgo++ {
			ts := now.Add(-time.Duration(hoursAgo) * time.Hour)
			if device.Status == DeviceStatusCritical {
				metrics = append(metrics, g.saturatedSample(device.Hostname, ts))
			} else {
				metrics = append(metrics, g.diurnalSample(device.Hostname, ts, isBusinessHour(ts.Hour())))
			}
		}
	}
	return metrics
}

// DailySeries generates fleet-wide samples every two hours over the given
// number of days. Load is elevated only during weekday business hours, so
// a week of data shows the expected weekend dip.
func (g *MetricGenerator) DailySeries(days int) []*SystemMetric {
	if days <= 0 {
		days = 7
	}
	now := g.Now()
	metrics := make([]*SystemMetric, 0, days*12)
	for daysAgo := 0; daysAgo < days; daysAgo++ {
		for hour := 0; hour < 24; hour += 2 {
			ts := now.Add(-time.Duration(daysAgo*24+hour) * time.Hour)
			busy := isBusinessHour(hour) && ts.Weekday() != time.Saturday && ts.Weekday() != time.Sunday
			metrics = append(metrics, g.diurnalSample("", ts, busy))
		}
	}
	return metrics
}

func (g *MetricGenerator) diurnalSample(hostname string, ts time.Time, busy bool) *SystemMetric {
	baseCPU, baseMemory, baseResponse := idleBaseCPU, idleBaseMemory, idleBaseResponse
	if busy {
		baseCPU, baseMemory, baseResponse = busyBaseCPU, busyBaseMemory, busyBaseResponse
	}

	cpu := clampRange(baseCPU+g.Rng.NormFloat64()*15, 10, 95)
	memory := clampRange(baseMemory+g.Rng.NormFloat64()*10, 20, 90)
	response := int(ClampMin(baseResponse+g.Rng.NormFloat64()*50, 50))

	return NewSystemMetric(hostname, ts, round2(cpu), round2(memory), response)
}

func (g *MetricGenerator) saturatedSample(hostname string, ts time.Time) *SystemMetric {
	cpu := 85 + g.Rng.Float64()*13
	memory := 90 + g.Rng.Float64()*9
	response := 2000 + g.Rng.Intn(3001)
	return NewSystemMetric(hostname, ts, round2(cpu), round2(memory), response)
}

func isBusinessHour(hour int) bool {
	return hour >= businessHourStart && hour <= businessHourEnd
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
