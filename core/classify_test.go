package core

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDevice_TypeKeywords(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	tests := []struct {
		name string
		role string
		want DeviceType
	}{
		{"router role", "Core Router", DeviceTypeRouter},
		{"server role", "Web Server", DeviceTypeServer},
		{"printer role", "Floor Printer", DeviceTypePrinter},
		{"pc role", "PC Client", DeviceTypeWorkstation},
		{"client role", "thin client", DeviceTypeWorkstation},
		{"unknown role defaults to workstation", "mystery appliance", DeviceTypeWorkstation},
		{"empty role defaults to workstation", "", DeviceTypeWorkstation},
		{"case insensitive", "ROUTER (edge)", DeviceTypeRouter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deviceType, _ := rs.ClassifyDevice(tt.role, "")
			assert.Equal(t, tt.want, deviceType)
		})
	}
}

func TestClassifyDevice_StatusKeywords(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	tests := []struct {
		name  string
		notes string
		want  DeviceStatus
	}{
		{"no antivirus is critical", "Outdated OS; no antivirus", DeviceStatusCritical},
		{"outdated is critical", "outdated firmware", DeviceStatusCritical},
		{"no firewall is critical", "No firewall configured", DeviceStatusCritical},
		{"vulnerable is critical", "known vulnerable version", DeviceStatusCritical},
		{"ssl is warning", "SSL cert expiring", DeviceStatusWarning},
		{"update is warning", "pending update", DeviceStatusWarning},
		{"patch is warning", "needs patch", DeviceStatusWarning},
		{"clean notes are active", "all good", DeviceStatusActive},
		{"empty notes are active", "", DeviceStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, status := rs.ClassifyDevice("", tt.notes)
			assert.Equal(t, tt.want, status)
		})
	}
}

// A note matching both a critical and a warning keyword must classify as
// critical: rules are scanned in precedence order, first match wins.
func TestClassifyDevice_KeywordPrecedence(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	_, status := rs.ClassifyDevice("", "no antivirus, waiting on update")
	assert.Equal(t, DeviceStatusCritical, status)
}

// End-to-end inventory example: PC-02 with outdated/no-antivirus notes.
func TestClassifyDevice_WorkstationCriticalExample(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	deviceType, status := rs.ClassifyDevice("Workstation", "Outdated OS; no antivirus")
	assert.Equal(t, DeviceTypeWorkstation, deviceType)
	assert.Equal(t, DeviceStatusCritical, status)
}

func TestClassifyEvent_Categories(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	tests := []struct {
		name     string
		raw      string
		category EventCategory
		severity Severity
		isThreat bool
	}{
		{"login maps to login_failure", "login_attempt", CategoryLoginFailure, SeverityCritical, true},
		{"checkout maps to transaction", "checkout_complete", CategoryTransaction, SeverityInfo, false},
		{"wishlist maps to unauthorized_access", "wishlist_add", CategoryUnauthorizedAccess, SeverityWarning, true},
		{"profile maps to suspicious_traffic", "profile_update", CategorySuspiciousTraffic, SeverityInfo, false},
		{"unknown falls through to default", "page_view", CategorySuspiciousTraffic, SeverityInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls := rs.ClassifyEvent(tt.raw)
			assert.Equal(t, tt.category, cls.Category)
			assert.Equal(t, tt.severity, cls.Severity)
			assert.Equal(t, tt.isThreat, cls.IsThreat)
		})
	}
}

func TestClassifyEvent_CheckoutSuspiciousMode(t *testing.T) {
	rs := DefaultRuleSet(CheckoutSuspicious)

	cls := rs.ClassifyEvent("checkout")
	assert.Equal(t, CategorySuspiciousTraffic, cls.Category)
	assert.Equal(t, SeverityWarning, cls.Severity)
	assert.False(t, cls.IsThreat)
}

// Classification is total: any string input, including empty, unicode and
// very long values, must yield an in-range result and never panic.
func TestClassify_Totality(t *testing.T) {
	rs := DefaultRuleSet(CheckoutTransaction)

	inputs := []string{
		"",
		" ",
		"ünïcödé-ëvénts éñ",
		"日本語のイベント",
		strings.Repeat("x", 1<<16),
		"\x00\x01\x02",
		"LOGIN\nwith\nnewlines",
	}

	for _, in := range inputs {
		deviceType, status := rs.ClassifyDevice(in, in)
		assert.True(t, deviceType.IsValid(), "device type for %q", in)
		assert.True(t, status.IsValid(), "status for %q", in)

		cls := rs.ClassifyEvent(in)
		assert.True(t, cls.Category.IsValid(), "category for %q", in)
		assert.True(t, cls.Severity.IsValid(), "severity for %q", in)
	}
}

func TestSynthesizeSourceIP(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	threat := EventClassification{Category: CategoryLoginFailure, Severity: SeverityCritical, IsThreat: true}
	benign := EventClassification{Category: CategoryTransaction, Severity: SeverityInfo, IsThreat: false}

	for i := 0; i < 200; i++ {
		ip := SynthesizeSourceIP(threat, rng)
		require.True(t, ValidIPv4(ip))
		external := strings.HasPrefix(ip, "203.0.113.") || strings.HasPrefix(ip, "198.51.100.")
		assert.True(t, external, "threat IP should be in a documentation range, got %s", ip)

		ip = SynthesizeSourceIP(benign, rng)
		require.True(t, ValidIPv4(ip))
		assert.True(t, strings.HasPrefix(ip, "192.168.1."), "benign IP should be internal, got %s", ip)
	}
}

func TestSynthesizeDetails(t *testing.T) {
	tests := []struct {
		name string
		ctx  EventContext
		cls  EventClassification
		want string
	}{
		{
			name: "login with user gets security annotation",
			ctx:  EventContext{RawType: "login_attempt", UserID: "u42"},
			cls:  EventClassification{Category: CategoryLoginFailure},
			want: "Event Type: login_attempt | User: u42 | SECURITY: Multiple failed authentication attempts",
		},
		{
			name: "checkout with amount gets business annotation",
			ctx:  EventContext{RawType: "checkout", UserID: "u7", ProductID: "p99", Amount: 19.5},
			cls:  EventClassification{Category: CategoryTransaction},
			want: "Event Type: checkout | User: u7 | Product: p99 | Amount: $19.50 | BUSINESS: Transaction completed",
		},
		{
			name: "unknown user id is omitted",
			ctx:  EventContext{RawType: "page_view", UserID: "unknown"},
			cls:  EventClassification{Category: CategorySuspiciousTraffic},
			want: "Event Type: page_view",
		},
		{
			name: "zero amount is omitted",
			ctx:  EventContext{RawType: "search", UserID: "u1", Amount: 0},
			cls:  EventClassification{Category: CategorySuspiciousTraffic},
			want: "Event Type: search | User: u1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SynthesizeDetails(tt.ctx, tt.cls))
		})
	}
}
