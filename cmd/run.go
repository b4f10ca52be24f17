package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"finwatch/bootstrap"
	"finwatch/core"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// newRunCmd creates the 'run' subcommand that executes one ETL pass.
func newRunCmd() *cobra.Command {
	var (
		csvDir       string
		showProgress bool
		noClear      bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ETL pipeline once",
		Long: `Run one extract-transform-load pass: read the CSV exports, classify
them into devices, security events and user activities, generate the
synthetic telemetry series and load everything into the store.

Missing or unreadable CSV files degrade to built-in sample data; malformed
rows are dropped and reported. The command fails only when the store
itself is unusable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := bootstrap.NewApp(bootstrap.Options{ConfigFile: configFile, Quiet: quiet || outputJSON})
			if err != nil {
				return err
			}
			defer app.Close()

			if csvDir != "" {
				app.Config.DataPaths.CSVDir = csvDir
			}
			if noClear {
				app.Config.Pipeline.ClearBeforeLoad = false
			}

			p, err := app.NewPipeline()
			if err != nil {
				return err
			}

			var s *spinner.Spinner
			if showProgress && !outputJSON && !quiet {
				s = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				s.Suffix = " Running pipeline..."
				s.Start()
			}

			summary, runErr := p.Run(ctx)

			if s != nil {
				s.Stop()
			}

			if outputJSON {
				if err := outputAsJSON(summary); err != nil {
					return err
				}
			} else {
				renderSummary(summary)
			}

			if runErr != nil {
				return fmt.Errorf("pipeline failed: %w", runErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "Directory containing the CSV exports (overrides config)")
	cmd.Flags().BoolVar(&showProgress, "progress", true, "Show progress indicator")
	cmd.Flags().BoolVar(&noClear, "no-clear", false, "Keep existing events, metrics and activities")

	return cmd
}

// newStatsCmd creates the 'stats' subcommand showing the dashboard aggregates.
func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard aggregates from the store",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			app, err := bootstrap.NewApp(bootstrap.Options{ConfigFile: configFile, Quiet: true})
			if err != nil {
				return err
			}
			defer app.Close()

			stats, err := app.Stats.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			if outputJSON {
				return outputAsJSON(stats)
			}
			renderStats(stats)
			return nil
		},
	}
}

// statusColor maps a terminal pipeline status to its formatter.
func statusColor(status core.PipelineStatus) func(format string, a ...interface{}) {
	switch status {
	case core.PipelineSuccess:
		return func(format string, a ...interface{}) { successColor.Printf(format, a...) }
	case core.PipelineWarnings:
		return func(format string, a ...interface{}) { warningColor.Printf(format, a...) }
	default:
		return func(format string, a ...interface{}) { errorColor.Printf(format, a...) }
	}
}
