package core

import (
	"fmt"
	"math/rand"
	"time"
)

// Fallback data used when the CSV exports are missing. The pipeline must
// still produce a populated dashboard, so absence of input degrades to
// these fixed records rather than an empty store.

// SampleDevices returns the fixed fallback inventory.
func SampleDevices() []*Device {
	return []*Device{
		{Hostname: "Router1", IPAddress: "10.0.0.1", DeviceType: DeviceTypeRouter, OS: "Cisco IOS", Status: DeviceStatusCritical, Notes: "Default password in use"},
		{Hostname: "WebServer1", IPAddress: "10.0.0.20", DeviceType: DeviceTypeServer, OS: "Ubuntu 18.04", Status: DeviceStatusWarning, Notes: "Outdated SSL/TLS"},
		{Hostname: "DBServer1", IPAddress: "10.0.0.30", DeviceType: DeviceTypeServer, OS: "Windows 2012", Status: DeviceStatusCritical, Notes: "No firewall"},
		{Hostname: "PC-Client-01", IPAddress: "10.0.0.101", DeviceType: DeviceTypeWorkstation, OS: "Win 10 Pro", Status: DeviceStatusActive, Notes: ""},
		{Hostname: "PC-Client-02", IPAddress: "10.0.0.102", DeviceType: DeviceTypeWorkstation, OS: "Win 10 Home", Status: DeviceStatusCritical, Notes: "Outdated OS; no antivirus"},
		{Hostname: "Printer-01", IPAddress: "10.0.0.150", DeviceType: DeviceTypePrinter, OS: "", Status: DeviceStatusWarning, Notes: "Unsecured printing, no password"},
	}
}

// DemoCriticalEvents returns the fixed set of recent high-severity events
// that anchor the dashboard's alert panels.
func DemoCriticalEvents(now time.Time) []*SecurityEvent {
	events := []*SecurityEvent{
		NewSecurityEvent(CategoryLoginFailure, SeverityCritical, "203.0.113.15",
			"Multiple failed login attempts detected (50+ attempts)", true),
		NewSecurityEvent(CategoryMalwareDetected, SeverityCritical, "10.0.0.102",
			"Malware signature detected on PC-Client-02", true),
		NewSecurityEvent(CategoryDDoSAttack, SeverityCritical, "198.51.100.1",
			"DDoS attack detected from external sources", true),
		NewSecurityEvent(CategoryUnauthorizedAccess, SeverityWarning, "192.168.1.45",
			"Unauthorized admin panel access attempt", true),
	}
	events[0].Timestamp = now.Add(-15 * time.Minute)
	events[1].Timestamp = now.Add(-2 * time.Hour)
	events[2].Timestamp = now.Add(-6 * time.Hour)
	events[3].Timestamp = now.Add(-45 * time.Minute)
	return events
}

// sampleActivityTypes are the user actions drawn for fallback activities.
var sampleActivityTypes = []string{"page_view", "login", "logout", "search", "checkout"}

// SampleActivities returns n synthetic user activities spread over the last
// week, attributed to the given username.
func SampleActivities(user string, n int, now time.Time, rng *rand.Rand) []*UserActivity {
	activities := make([]*UserActivity, 0, n)
	for i := 0; i < n; i++ {
		ts := now.Add(-time.Duration(rng.Intn(7*24)) * time.Hour)
		activities = append(activities, NewUserActivity(
			user,
			sampleActivityTypes[rng.Intn(len(sampleActivityTypes))],
			fmt.Sprintf("192.168.1.%d", 1+rng.Intn(254)),
			ts,
			map[string]any{"session_id": fmt.Sprintf("session_%d", i)},
		))
	}
	return activities
}
