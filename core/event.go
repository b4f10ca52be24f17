package core

import (
	"time"

	"github.com/google/uuid"
)

// Severity is the alert level of a security event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// AllSeverities returns all valid severities.
var AllSeverities = []Severity{SeverityInfo, SeverityWarning, SeverityCritical}

// IsValid checks if the severity is valid.
func (s Severity) IsValid() bool {
	for _, valid := range AllSeverities {
		if s == valid {
			return true
		}
	}
	return false
}

// EventCategory is the security category an event is classified into.
// Raw source labels never reach storage; classification maps them here.
type EventCategory string

const (
	CategoryLoginFailure       EventCategory = "login_failure"
	CategoryUnauthorizedAccess EventCategory = "unauthorized_access"
	CategorySuspiciousTraffic  EventCategory = "suspicious_traffic"
	CategoryTransaction        EventCategory = "transaction"
	CategoryMalwareDetected    EventCategory = "malware_detected"
	CategoryDDoSAttack         EventCategory = "ddos_attack"
)

// AllEventCategories returns all valid event categories.
var AllEventCategories = []EventCategory{
	CategoryLoginFailure, CategoryUnauthorizedAccess, CategorySuspiciousTraffic,
	CategoryTransaction, CategoryMalwareDetected, CategoryDDoSAttack,
}

// IsValid checks if the event category is valid.
func (c EventCategory) IsValid() bool {
	for _, valid := range AllEventCategories {
		if c == valid {
			return true
		}
	}
	return false
}

// SecurityEvent is an append-only classified event record.
//
// SourceIP is synthesized during classification to make dashboards readable;
// it is a presentation affordance, not measured telemetry.
type SecurityEvent struct {
	ID        string        `json:"id"`
	EventType EventCategory `json:"event_type"`
	Severity  Severity      `json:"severity"`
	SourceIP  string        `json:"source_ip"`
	Details   string        `json:"details"`
	IsThreat  bool          `json:"is_threat"`
	Timestamp time.Time     `json:"timestamp"`
}

// NewSecurityEvent creates an event with a generated ID. Timestamp defaults
// to now unless the caller backdates it afterwards.
func NewSecurityEvent(category EventCategory, severity Severity, sourceIP, details string, isThreat bool) *SecurityEvent {
	return &SecurityEvent{
		ID:        uuid.New().String(),
		EventType: category,
		Severity:  severity,
		SourceIP:  sourceIP,
		Details:   details,
		IsThreat:  isThreat,
		Timestamp: time.Now(),
	}
}
