package core

import (
	"time"
)

// DeviceType categorizes a network device by its role.
type DeviceType string

const (
	DeviceTypeRouter      DeviceType = "router"
	DeviceTypeServer      DeviceType = "server"
	DeviceTypePrinter     DeviceType = "printer"
	DeviceTypeWorkstation DeviceType = "workstation"
)

// AllDeviceTypes returns all valid device types for validation.
var AllDeviceTypes = []DeviceType{
	DeviceTypeRouter, DeviceTypeServer, DeviceTypePrinter, DeviceTypeWorkstation,
}

// IsValid checks if the device type is valid.
func (t DeviceType) IsValid() bool {
	for _, valid := range AllDeviceTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// DeviceStatus is the triage level inferred from inventory notes.
type DeviceStatus string

const (
	DeviceStatusActive   DeviceStatus = "active"
	DeviceStatusWarning  DeviceStatus = "warning"
	DeviceStatusCritical DeviceStatus = "critical"
)

// AllDeviceStatuses returns all valid device statuses.
var AllDeviceStatuses = []DeviceStatus{
	DeviceStatusActive, DeviceStatusWarning, DeviceStatusCritical,
}

// IsValid checks if the device status is valid.
func (s DeviceStatus) IsValid() bool {
	for _, valid := range AllDeviceStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

// Device is a network inventory entry. Hostname is the natural key; loading
// the same inventory twice must not create a second row for the same host.
type Device struct {
	Hostname   string       `json:"hostname"`
	IPAddress  string       `json:"ip_address"`
	DeviceType DeviceType   `json:"device_type"`
	Status     DeviceStatus `json:"status"`
	OS         string       `json:"os"`
	Notes      string       `json:"notes"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

// UpsertPolicy controls what happens when a device hostname already exists.
type UpsertPolicy string

const (
	// UpsertUpdate overwrites the stored row; notes and status from the
	// current export are the freshest signal.
	UpsertUpdate UpsertPolicy = "update"
	// UpsertSkip leaves an existing row untouched (get-or-create).
	UpsertSkip UpsertPolicy = "skip"
)

// IsValid checks if the upsert policy is valid.
func (p UpsertPolicy) IsValid() bool {
	return p == UpsertUpdate || p == UpsertSkip
}
