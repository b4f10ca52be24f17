package extract

import "path/filepath"

// Source is one logical CSV input. Candidates are tried in order; the
// pipeline selects sources by configuration instead of per-script copies.
type Source interface {
	// Name is the logical source name used in logs and diagnostics.
	Name() string
	// Candidates returns file paths in priority order.
	Candidates() []string
	// MaxRows bounds how many rows are kept; 0 means unlimited.
	MaxRows() int
}

// NetworkInventorySource reads the device inventory export.
// Columns: Device, IP_Address, Role, OS, Notes (case varies).
type NetworkInventorySource struct {
	Dir string
}

func (s NetworkInventorySource) Name() string { return "network inventory" }

func (s NetworkInventorySource) Candidates() []string {
	return []string{filepath.Join(s.Dir, "network_inventory.csv")}
}

func (s NetworkInventorySource) MaxRows() int { return 0 }

// EventLogSource reads the raw event log export. Some exports were saved
// with a trailing space in the filename, so both spellings are candidates.
// Columns: event_type, user_id, product_id, amount, event_time.
type EventLogSource struct {
	Dir   string
	Limit int
}

func (s EventLogSource) Name() string { return "event logs" }

func (s EventLogSource) Candidates() []string {
	return []string{
		filepath.Join(s.Dir, "event_logs.csv"),
		filepath.Join(s.Dir, "event_logs .csv"),
	}
}

func (s EventLogSource) MaxRows() int { return s.Limit }

// MarketingSource reads the marketing summary export.
// Columns: users_active, total_sales, new_customers.
type MarketingSource struct {
	Dir   string
	Limit int
}

func (s MarketingSource) Name() string { return "marketing summary" }

func (s MarketingSource) Candidates() []string {
	return []string{filepath.Join(s.Dir, "marketing_summary.csv")}
}

func (s MarketingSource) MaxRows() int { return s.Limit }
