package core

import (
	"fmt"
	"math/rand"
	"strings"
)

// EventClassification is the result of classifying a raw event label.
type EventClassification struct {
	Category EventCategory
	Severity Severity
	IsThreat bool
}

// ClassifyDevice maps a device's free-text role and notes to a type and
// status by first-match keyword scan. Never fails; unmatched input falls
// through to the defaults.
func (rs *RuleSet) ClassifyDevice(role, notes string) (DeviceType, DeviceStatus) {
	return rs.classifyDeviceType(role), rs.classifyDeviceStatus(notes)
}

func (rs *RuleSet) classifyDeviceType(role string) DeviceType {
	roleLower := strings.ToLower(role)
	for _, rule := range rs.DeviceTypes {
		for _, kw := range rule.Keywords {
			if strings.Contains(roleLower, kw) {
				return rule.Type
			}
		}
	}
	return rs.DefaultDeviceType
}

func (rs *RuleSet) classifyDeviceStatus(notes string) DeviceStatus {
	notesLower := strings.ToLower(notes)
	for _, rule := range rs.DeviceStatuses {
		for _, kw := range rule.Keywords {
			if strings.Contains(notesLower, kw) {
				return rule.Status
			}
		}
	}
	return rs.DefaultDeviceStatus
}

// ClassifyEvent maps a raw event-type label to a security category,
// severity and threat flag by first-match keyword scan.
func (rs *RuleSet) ClassifyEvent(rawType string) EventClassification {
	rawLower := strings.ToLower(rawType)
	for _, rule := range rs.Events {
		for _, kw := range rule.Keywords {
			if strings.Contains(rawLower, kw) {
				return EventClassification{Category: rule.Category, Severity: rule.Severity, IsThreat: rule.IsThreat}
			}
		}
	}
	return EventClassification{
		Category: rs.DefaultEvent.Category,
		Severity: rs.DefaultEvent.Severity,
		IsThreat: rs.DefaultEvent.IsThreat,
	}
}

// EventContext carries the raw fields available when synthesizing the
// human-readable side of an event.
type EventContext struct {
	RawType   string
	UserID    string
	ProductID string
	Amount    float64
}

// SynthesizeSourceIP fabricates a plausible source address for dashboard
// display. Threat events get a documentation-range address (203.0.113.x or
// 198.51.100.x) to read as external attackers; benign events get a
// 192.168.1.x address. Not ground-truth telemetry.
func SynthesizeSourceIP(cls EventClassification, rng *rand.Rand) string {
	octet := 1 + rng.Intn(254)
	if cls.IsThreat {
		if rng.Intn(2) == 0 {
			return fmt.Sprintf("203.0.113.%d", octet)
		}
		return fmt.Sprintf("198.51.100.%d", octet)
	}
	return fmt.Sprintf("192.168.1.%d", octet)
}

// SynthesizeDetails builds the details string from the raw label, the
// available context fields, and a fixed annotation keyed off the category.
func SynthesizeDetails(ctx EventContext, cls EventClassification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Event Type: %s", ctx.RawType)

	if ctx.UserID != "" && ctx.UserID != "unknown" {
		fmt.Fprintf(&b, " | User: %s", ctx.UserID)
	}
	if ctx.ProductID != "" {
		fmt.Fprintf(&b, " | Product: %s", ctx.ProductID)
	}
	if ctx.Amount > 0 {
		fmt.Fprintf(&b, " | Amount: $%.2f", ctx.Amount)
	}

	switch cls.Category {
	case CategoryLoginFailure:
		b.WriteString(" | SECURITY: Multiple failed authentication attempts")
	case CategoryTransaction:
		b.WriteString(" | BUSINESS: Transaction completed")
	}
	return b.String()
}
