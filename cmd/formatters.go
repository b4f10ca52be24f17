package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"finwatch/core"
	"finwatch/storage"
)

// outputAsJSON writes v as indented JSON to stdout.
func outputAsJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON output: %w", err)
	}
	return nil
}

// renderSummary displays a pipeline run summary.
func renderSummary(summary *core.PipelineSummary) {
	headerColor.Println("PIPELINE RUN")
	headerColor.Println(strings.Repeat("=", 60))

	fmt.Printf("%-20s ", "Status:")
	statusColor(summary.Status)("%s\n", summary.Status)
	printField("Started", summary.StartedAt.Format("2006-01-02 15:04:05"))
	printField("Duration", summary.Duration)
	fmt.Println(strings.Repeat("-", 60))

	printField("Devices", fmt.Sprintf("%d", summary.Records.Devices))
	printField("Security events", fmt.Sprintf("%d", summary.Records.SecurityEvents))
	printField("System metrics", fmt.Sprintf("%d", summary.Records.SystemMetrics))
	printField("User activities", fmt.Sprintf("%d", summary.Records.UserActivities))
	printField("Total records", fmt.Sprintf("%d", summary.Total))

	if summary.ErrorsCount > 0 {
		fmt.Println(strings.Repeat("-", 60))
		warningColor.Printf("%d record error(s):\n", summary.ErrorsCount)
		for _, msg := range summary.Errors {
			fmt.Printf("  - %s\n", msg)
		}
		if summary.ErrorsCount > len(summary.Errors) {
			fmt.Printf("  ... and %d more (see logs)\n", summary.ErrorsCount-len(summary.Errors))
		}
	}

	if summary.ReportPath != "" {
		fmt.Println(strings.Repeat("-", 60))
		printField("Report", summary.ReportPath)
	}
	fmt.Println(strings.Repeat("=", 60))
}

// renderStats displays the dashboard aggregates.
func renderStats(stats *storage.DashboardStats) {
	headerColor.Println("DASHBOARD STATS")
	headerColor.Println(strings.Repeat("=", 60))
	printField("Devices", fmt.Sprintf("%d", stats.Devices))
	printField("Critical devices", fmt.Sprintf("%d", stats.CriticalDevices))
	printField("Security events", fmt.Sprintf("%d", stats.SecurityEvents))
	printField("Critical events", fmt.Sprintf("%d", stats.CriticalEvents))
	printField("Active threats", fmt.Sprintf("%d", stats.ActiveThreats))
	printField("Events (24h)", fmt.Sprintf("%d", stats.EventsLast24h))
	printField("System metrics", fmt.Sprintf("%d", stats.SystemMetrics))
	printField("User activities", fmt.Sprintf("%d", stats.UserActivities))
	fmt.Println(strings.Repeat("=", 60))
}

func printField(name, value string) {
	fmt.Printf("%-20s %s\n", name+":", value)
}
