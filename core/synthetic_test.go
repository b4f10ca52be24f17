package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Range invariant: every generated sample has cpu and memory in [0,100] and
// a positive response time, across a large sample count.
func TestMetricGenerator_RangeInvariant(t *testing.T) {
	gen := NewMetricGenerator(1)

	metrics := gen.HourlySeries(10000)
	require.Len(t, metrics, 10000)

	for _, m := range metrics {
		assert.GreaterOrEqual(t, m.CPUUsage, 0.0)
		assert.LessOrEqual(t, m.CPUUsage, 100.0)
		assert.GreaterOrEqual(t, m.MemoryUsage, 0.0)
		assert.LessOrEqual(t, m.MemoryUsage, 100.0)
		assert.Positive(t, m.ResponseTime)
	}
}

func TestMetricGenerator_BusinessHoursSkew(t *testing.T) {
	gen := NewMetricGenerator(7)
	// Fixed reference point so bucket hours are stable.
	gen.Now = func() time.Time {
		return time.Date(2026, time.March, 4, 23, 0, 0, 0, time.UTC)
	}

	metrics := gen.HourlySeries(24)
	require.Len(t, metrics, 24)

	var busySum, idleSum float64
	var busyN, idleN int
	for _, m := range metrics {
		if isBusinessHour(m.Timestamp.Hour()) {
			busySum += m.CPUUsage
			busyN++
		} else {
			idleSum += m.CPUUsage
			idleN++
		}
	}
	require.Positive(t, busyN)
	require.Positive(t, idleN)
	assert.Greater(t, busySum/float64(busyN), idleSum/float64(idleN),
		"business-hours cpu should average higher than off-hours")
}

func TestMetricGenerator_CriticalDeviceProfile(t *testing.T) {
	gen := NewMetricGenerator(3)

	devices := []*Device{
		{Hostname: "healthy", Status: DeviceStatusActive},
		{Hostname: "degraded", Status: DeviceStatusCritical},
	}

	metrics := gen.DeviceSeries(devices, 24)
	require.Len(t, metrics, 48)

	for _, m := range metrics {
		switch m.Hostname {
		case "degraded":
			assert.GreaterOrEqual(t, m.CPUUsage, 85.0)
			assert.GreaterOrEqual(t, m.MemoryUsage, 90.0)
			assert.GreaterOrEqual(t, m.ResponseTime, 2000)
			assert.LessOrEqual(t, m.ResponseTime, 5000)
		case "healthy":
			assert.LessOrEqual(t, m.CPUUsage, 95.0)
			assert.LessOrEqual(t, m.MemoryUsage, 90.0)
		}
		assert.LessOrEqual(t, m.CPUUsage, 100.0)
		assert.LessOrEqual(t, m.MemoryUsage, 100.0)
		assert.Positive(t, m.ResponseTime)
	}
}

func TestMetricGenerator_DailySeriesWeekendDip(t *testing.T) {
	gen := NewMetricGenerator(11)
	// Start on a Sunday evening so the window covers a full weekend.
	gen.Now = func() time.Time {
		return time.Date(2026, time.March, 8, 22, 0, 0, 0, time.UTC)
	}

	metrics := gen.DailySeries(7)
	require.Len(t, metrics, 7*12)

	var weekendBusinessSum, weekdayBusinessSum float64
	var weekendN, weekdayN int
	for _, m := range metrics {
		if !isBusinessHour(m.Timestamp.Hour()) {
			continue
		}
		if wd := m.Timestamp.Weekday(); wd == time.Saturday || wd == time.Sunday {
			weekendBusinessSum += m.CPUUsage
			weekendN++
		} else {
			weekdayBusinessSum += m.CPUUsage
			weekdayN++
		}
	}
	require.Positive(t, weekendN)
	require.Positive(t, weekdayN)
	assert.Greater(t, weekdayBusinessSum/float64(weekdayN), weekendBusinessSum/float64(weekendN),
		"weekday business hours should run hotter than weekend")
}

// Seeded generators are deterministic so pipeline tests can assert exact
// outputs.
func TestMetricGenerator_Deterministic(t *testing.T) {
	now := time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

	genA := NewMetricGenerator(99)
	genA.Now = func() time.Time { return now }
	genB := NewMetricGenerator(99)
	genB.Now = func() time.Time { return now }

	a := genA.HourlySeries(24)
	b := genB.HourlySeries(24)
	require.Len(t, b, len(a))
	for i := range a {
		assert.Equal(t, a[i].CPUUsage, b[i].CPUUsage)
		assert.Equal(t, a[i].MemoryUsage, b[i].MemoryUsage)
		assert.Equal(t, a[i].ResponseTime, b[i].ResponseTime)
	}
}
