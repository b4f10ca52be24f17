package core

import (
	"time"

	"github.com/google/uuid"
)

// SystemMetric is a resource-utilization sample. CPU and memory are
// percentages clamped to [0,100]; response time is a positive millisecond
// count. Hostname is empty for fleet-wide samples.
type SystemMetric struct {
	ID           string    `json:"id"`
	Hostname     string    `json:"hostname,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	CPUUsage     float64   `json:"cpu_usage"`
	MemoryUsage  float64   `json:"memory_usage"`
	ResponseTime int       `json:"response_time"`
}

// NewSystemMetric creates a metric sample with a generated ID.
func NewSystemMetric(hostname string, ts time.Time, cpu, memory float64, responseMs int) *SystemMetric {
	return &SystemMetric{
		ID:           uuid.New().String(),
		Hostname:     hostname,
		Timestamp:    ts,
		CPUUsage:     cpu,
		MemoryUsage:  memory,
		ResponseTime: responseMs,
	}
}

// UserActivity is an append-only record of a user-facing action, derived
// from marketing exports or sample data. Details is a free-form payload
// stored as JSON.
type UserActivity struct {
	ID        string         `json:"id"`
	User      string         `json:"user"`
	EventType string         `json:"event_type"`
	Timestamp time.Time      `json:"timestamp"`
	IPAddress string         `json:"ip_address"`
	Details   map[string]any `json:"details"`
}

// NewUserActivity creates an activity record with a generated ID.
func NewUserActivity(user, eventType, ipAddress string, ts time.Time, details map[string]any) *UserActivity {
	if details == nil {
		details = map[string]any{}
	}
	return &UserActivity{
		ID:        uuid.New().String(),
		User:      user,
		EventType: eventType,
		Timestamp: ts,
		IPAddress: ipAddress,
		Details:   details,
	}
}
