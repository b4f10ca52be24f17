package core

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CheckoutMode selects how raw "checkout" events are classified. The source
// exports carry purchase events that read either as benign transactions or
// as traffic worth a second look; the choice is a policy knob, not a rule
// edit, so it is surfaced as configuration.
type CheckoutMode string

const (
	// CheckoutTransaction maps checkout to transaction/info/benign (default).
	CheckoutTransaction CheckoutMode = "transaction"
	// CheckoutSuspicious maps checkout to suspicious_traffic/warning/benign.
	CheckoutSuspicious CheckoutMode = "suspicious_traffic"
)

// IsValid checks if the checkout mode is valid.
func (m CheckoutMode) IsValid() bool {
	return m == CheckoutTransaction || m == CheckoutSuspicious
}

// DeviceTypeRule maps role keywords to a device type.
type DeviceTypeRule struct {
	Keywords []string   `yaml:"keywords"`
	Type     DeviceType `yaml:"type"`
}

// DeviceStatusRule maps note keywords to a device status.
type DeviceStatusRule struct {
	Keywords []string     `yaml:"keywords"`
	Status   DeviceStatus `yaml:"status"`
}

// EventRule maps raw event-type keywords to a security classification.
type EventRule struct {
	Keywords []string      `yaml:"keywords"`
	Category EventCategory `yaml:"category"`
	Severity Severity      `yaml:"severity"`
	IsThreat bool          `yaml:"is_threat"`
}

// RuleSet is an ordered keyword-precedence classifier: rules are scanned in
// slice order and the first rule with a matching keyword wins. Defaults
// apply when nothing matches, which makes classification total over all
// string inputs.
type RuleSet struct {
	DeviceTypes         []DeviceTypeRule   `yaml:"device_types"`
	DefaultDeviceType   DeviceType         `yaml:"default_device_type"`
	DeviceStatuses      []DeviceStatusRule `yaml:"device_statuses"`
	DefaultDeviceStatus DeviceStatus       `yaml:"default_device_status"`
	Events              []EventRule        `yaml:"events"`
	DefaultEvent        EventRule          `yaml:"default_event"`
}

// DefaultRuleSet returns the built-in rules. Keyword triage over analyst
// notes is a deliberate low-precision/high-recall heuristic: a note that
// mentions "update" in a positive sense still classifies as warning, and
// that is accepted behavior, not a defect.
func DefaultRuleSet(checkout CheckoutMode) *RuleSet {
	checkoutRule := EventRule{
		Keywords: []string{"checkout"},
		Category: CategoryTransaction,
		Severity: SeverityInfo,
		IsThreat: false,
	}
	if checkout == CheckoutSuspicious {
		checkoutRule.Category = CategorySuspiciousTraffic
		checkoutRule.Severity = SeverityWarning
	}

	return &RuleSet{
		DeviceTypes: []DeviceTypeRule{
			{Keywords: []string{"router"}, Type: DeviceTypeRouter},
			{Keywords: []string{"server"}, Type: DeviceTypeServer},
			{Keywords: []string{"printer"}, Type: DeviceTypePrinter},
			{Keywords: []string{"pc", "client"}, Type: DeviceTypeWorkstation},
		},
		DefaultDeviceType: DeviceTypeWorkstation,
		DeviceStatuses: []DeviceStatusRule{
			{Keywords: []string{"no antivirus", "outdated", "no firewall", "vulnerable"}, Status: DeviceStatusCritical},
			{Keywords: []string{"ssl", "tls", "update", "patch"}, Status: DeviceStatusWarning},
		},
		DefaultDeviceStatus: DeviceStatusActive,
		Events: []EventRule{
			{Keywords: []string{"login"}, Category: CategoryLoginFailure, Severity: SeverityCritical, IsThreat: true},
			checkoutRule,
			{Keywords: []string{"wishlist"}, Category: CategoryUnauthorizedAccess, Severity: SeverityWarning, IsThreat: true},
			{Keywords: []string{"profile"}, Category: CategorySuspiciousTraffic, Severity: SeverityInfo, IsThreat: false},
		},
		DefaultEvent: EventRule{
			Category: CategorySuspiciousTraffic,
			Severity: SeverityInfo,
			IsThreat: false,
		},
	}
}

// LoadRuleSet reads a YAML rule file, validates it, and returns the result.
func LoadRuleSet(path string) (*RuleSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}

	var rs RuleSet
	if err := yaml.Unmarshal(data, &rs); err != nil {
		return nil, fmt.Errorf("failed to parse rule file %s: %w", path, err)
	}

	if err := rs.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule file %s: %w", path, err)
	}
	return &rs, nil
}

// Validate checks that every rule resolves to an in-range category, type,
// severity and status.
func (rs *RuleSet) Validate() error {
	for i, r := range rs.DeviceTypes {
		if !r.Type.IsValid() {
			return fmt.Errorf("device type rule %d: unknown type %q", i, r.Type)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("device type rule %d: no keywords", i)
		}
	}
	if !rs.DefaultDeviceType.IsValid() {
		return fmt.Errorf("unknown default device type %q", rs.DefaultDeviceType)
	}
	for i, r := range rs.DeviceStatuses {
		if !r.Status.IsValid() {
			return fmt.Errorf("device status rule %d: unknown status %q", i, r.Status)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("device status rule %d: no keywords", i)
		}
	}
	if !rs.DefaultDeviceStatus.IsValid() {
		return fmt.Errorf("unknown default device status %q", rs.DefaultDeviceStatus)
	}
	for i, r := range rs.Events {
		if !r.Category.IsValid() {
			return fmt.Errorf("event rule %d: unknown category %q", i, r.Category)
		}
		if !r.Severity.IsValid() {
			return fmt.Errorf("event rule %d: unknown severity %q", i, r.Severity)
		}
		if len(r.Keywords) == 0 {
			return fmt.Errorf("event rule %d: no keywords", i)
		}
	}
	if !rs.DefaultEvent.Category.IsValid() {
		return fmt.Errorf("unknown default event category %q", rs.DefaultEvent.Category)
	}
	if !rs.DefaultEvent.Severity.IsValid() {
		return fmt.Errorf("unknown default event severity %q", rs.DefaultEvent.Severity)
	}
	return nil
}
