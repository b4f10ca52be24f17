package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuleSet_Valid(t *testing.T) {
	require.NoError(t, DefaultRuleSet(CheckoutTransaction).Validate())
	require.NoError(t, DefaultRuleSet(CheckoutSuspicious).Validate())
}

func TestLoadRuleSet(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")

	rules := `
device_types:
  - keywords: ["firewall"]
    type: router
  - keywords: ["server"]
    type: server
default_device_type: workstation
device_statuses:
  - keywords: ["eol"]
    status: critical
default_device_status: active
events:
  - keywords: ["brute"]
    category: login_failure
    severity: critical
    is_threat: true
default_event:
  category: suspicious_traffic
  severity: info
  is_threat: false
`
	require.NoError(t, os.WriteFile(path, []byte(rules), 0o644))

	rs, err := LoadRuleSet(path)
	require.NoError(t, err)

	deviceType, status := rs.ClassifyDevice("perimeter firewall", "hardware is EOL")
	assert.Equal(t, DeviceTypeRouter, deviceType)
	assert.Equal(t, DeviceStatusCritical, status)

	cls := rs.ClassifyEvent("brute force attempt")
	assert.Equal(t, CategoryLoginFailure, cls.Category)
	assert.True(t, cls.IsThreat)

	// Anything else falls through to the file's defaults.
	cls = rs.ClassifyEvent("login") // no "login" rule in this file
	assert.Equal(t, CategorySuspiciousTraffic, cls.Category)
}

func TestLoadRuleSet_Errors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRuleSet(filepath.Join(dir, "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		path := filepath.Join(dir, "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{{not yaml"), 0o644))
		_, err := LoadRuleSet(path)
		assert.Error(t, err)
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		path := filepath.Join(dir, "bad_category.yaml")
		content := `
default_device_type: workstation
default_device_status: active
events:
  - keywords: ["x"]
    category: not_a_category
    severity: info
default_event:
  category: suspicious_traffic
  severity: info
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadRuleSet(path)
		assert.ErrorContains(t, err, "unknown category")
	})

	t.Run("rule without keywords rejected", func(t *testing.T) {
		path := filepath.Join(dir, "no_keywords.yaml")
		content := `
device_types:
  - keywords: []
    type: router
default_device_type: workstation
default_device_status: active
default_event:
  category: suspicious_traffic
  severity: info
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadRuleSet(path)
		assert.ErrorContains(t, err, "no keywords")
	})
}
