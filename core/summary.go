package core

import "time"

// PipelineStatus is the terminal status of an ETL run.
type PipelineStatus string

const (
	// PipelineSuccess means the run finished with zero recorded errors.
	PipelineSuccess PipelineStatus = "SUCCESS"
	// PipelineWarnings means the run finished but some records were
	// dropped or rejected along the way.
	PipelineWarnings PipelineStatus = "COMPLETED_WITH_WARNINGS"
	// PipelineFailed means the store itself was unusable and the run
	// aborted. This is the only status a caller should treat as fatal.
	PipelineFailed PipelineStatus = "FAILED"
)

// RecordCounts tracks loaded rows per entity type.
type RecordCounts struct {
	Devices        int `json:"devices"`
	SecurityEvents int `json:"security_events"`
	SystemMetrics  int `json:"system_metrics"`
	UserActivities int `json:"user_activities"`
}

// Total returns the sum across entity types.
func (c RecordCounts) Total() int {
	return c.Devices + c.SecurityEvents + c.SystemMetrics + c.UserActivities
}

// MaxSummaryErrors caps the error messages carried in a summary; the full
// count is always reported in ErrorsCount.
const MaxSummaryErrors = 5

// PipelineSummary is the single source of truth for a run's outcome.
// Callers must inspect Status and ErrorsCount rather than infer success
// from the absence of an error return.
type PipelineSummary struct {
	Status      PipelineStatus `json:"pipeline_status"`
	Records     RecordCounts   `json:"records_processed"`
	Total       int            `json:"total_records"`
	ErrorsCount int            `json:"errors_count"`
	Errors      []string       `json:"errors"`
	StartedAt   time.Time      `json:"started_at"`
	FinishedAt  time.Time      `json:"finished_at"`
	Duration    string         `json:"execution_time"`
	ReportPath  string         `json:"report_path,omitempty"`
}
