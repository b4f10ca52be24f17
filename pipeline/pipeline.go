// Package pipeline orchestrates the extract, transform and load phases of
// a FinWatch run and reports the outcome as a single summary record.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"finwatch/config"
	"finwatch/core"
	"finwatch/extract"
	"finwatch/metrics"

	"go.uber.org/zap"
)

// State is the orchestrator's phase. Transitions only move forward; a
// failure inside a phase is recorded and the machine still advances,
// because partial results beat none for an operational tool.
type State string

const (
	StateInit         State = "INIT"
	StateExtracting   State = "EXTRACTING"
	StateTransforming State = "TRANSFORMING"
	StateLoading      State = "LOADING"
	StateSummarizing  State = "SUMMARIZING"
	StateDone         State = "DONE"
)

// Pipeline drives one ETL run. It is single-threaded and not reusable
// across runs; build a fresh one per invocation.
type Pipeline struct {
	cfg    *config.Config
	stores Stores
	reader *extract.Reader
	rules  *core.RuleSet
	gen    *core.MetricGenerator
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.SugaredLogger

	state  State
	errors []string
	counts core.RecordCounts
}

// New builds a pipeline from configuration and injected stores. Rules come
// from the configured YAML file when set, otherwise the built-in defaults
// with the configured checkout mapping.
func New(cfg *config.Config, stores Stores, logger *zap.SugaredLogger) (*Pipeline, error) {
	rules := core.DefaultRuleSet(cfg.CheckoutMode())
	if path := cfg.DataPaths.RulesFile; path != "" {
		loaded, err := core.LoadRuleSet(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load classification rules: %w", err)
		}
		rules = loaded
	}

	seed := cfg.Pipeline.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &Pipeline{
		cfg:    cfg,
		stores: stores,
		reader: extract.NewReader(logger),
		rules:  rules,
		gen:    core.NewMetricGenerator(seed),
		rng:    rand.New(rand.NewSource(seed)),
		now:    time.Now,
		logger: logger,
		state:  StateInit,
	}, nil
}

// State returns the current phase.
func (p *Pipeline) State() State { return p.state }

// Run executes the full pipeline and returns its summary. The returned
// error is non-nil only for fatal conditions (unusable store, cancelled
// context); per-record problems surface through the summary instead.
func (p *Pipeline) Run(ctx context.Context) (*core.PipelineSummary, error) {
	start := p.now()
	p.logger.Infow("pipeline starting",
		"csv_dir", p.cfg.DataPaths.CSVDir,
		"clear_before_load", p.cfg.Pipeline.ClearBeforeLoad,
		"device_upsert", p.cfg.Pipeline.DeviceUpsert)

	loader := NewLoader(p.stores, p.cfg.UpsertPolicy(), p.logger, func(entity, msg string) {
		p.errors = append(p.errors, fmt.Sprintf("%s: %s", entity, msg))
	})

	if p.cfg.Pipeline.ClearBeforeLoad {
		if err := loader.Clear(ctx); err != nil {
			return p.finish(start, core.PipelineFailed), err
		}
	}

	// Extract.
	if err := p.advance(ctx, StateExtracting); err != nil {
		return p.finish(start, core.PipelineFailed), err
	}
	csvDir := p.cfg.DataPaths.CSVDir
	inventory := p.readSource(extract.NetworkInventorySource{Dir: csvDir})
	eventLogs := p.readSource(extract.EventLogSource{Dir: csvDir, Limit: p.cfg.Pipeline.MaxEvents})
	marketing := p.readSource(extract.MarketingSource{Dir: csvDir, Limit: p.cfg.Pipeline.MaxActivities})

	// Transform.
	if err := p.advance(ctx, StateTransforming); err != nil {
		return p.finish(start, core.PipelineFailed), err
	}
	devices := p.transformDevices(inventory)
	events := p.transformEvents(eventLogs)
	samples := p.transformMetrics(devices)
	activities := p.transformActivities(marketing)

	// Load.
	if err := p.advance(ctx, StateLoading); err != nil {
		return p.finish(start, core.PipelineFailed), err
	}
	p.counts.Devices = loader.LoadDevices(ctx, devices)
	p.counts.SecurityEvents = loader.LoadEvents(ctx, events)
	p.counts.SystemMetrics = loader.LoadMetrics(ctx, samples)
	p.counts.UserActivities = loader.LoadActivities(ctx, activities)

	// Summarize.
	if err := p.advance(ctx, StateSummarizing); err != nil {
		return p.finish(start, core.PipelineFailed), err
	}
	status := core.PipelineSuccess
	if len(p.errors) > 0 {
		status = core.PipelineWarnings
	}
	summary := p.finish(start, status)

	if p.cfg.DataPaths.ReportDir != "" {
		if path, err := p.writeReport(summary); err != nil {
			p.logger.Warnw("failed to write run report", "error", err)
		} else {
			summary.ReportPath = path
		}
	}

	p.logger.Infow("pipeline finished",
		"status", summary.Status,
		"total_records", summary.Total,
		"errors", summary.ErrorsCount,
		"duration", summary.Duration)
	return summary, nil
}

// advance moves to the next state, honoring the cooperative cancellation
// checkpoint between phases.
func (p *Pipeline) advance(ctx context.Context, next State) error {
	if err := ctx.Err(); err != nil {
		p.errors = append(p.errors, fmt.Sprintf("run cancelled before %s: %v", next, err))
		return fmt.Errorf("pipeline cancelled: %w", err)
	}
	p.logger.Debugw("pipeline state transition", "from", p.state, "to", next)
	p.state = next
	return nil
}

func (p *Pipeline) readSource(src extract.Source) *extract.Table {
	table := p.reader.ReadSource(src)
	if table.Empty() {
		metrics.SourcesUnavailable.WithLabelValues(src.Name()).Inc()
	}
	return table
}

func (p *Pipeline) recordError(entity, msg string) {
	metrics.RecordErrors.WithLabelValues(entity).Inc()
	p.logger.Warnw("record dropped", "entity", entity, "reason", msg)
	p.errors = append(p.errors, fmt.Sprintf("%s: %s", entity, msg))
}

func (p *Pipeline) finish(start time.Time, status core.PipelineStatus) *core.PipelineSummary {
	p.state = StateDone
	end := p.now()
	duration := end.Sub(start)

	firstErrors := p.errors
	if len(firstErrors) > core.MaxSummaryErrors {
		firstErrors = firstErrors[:core.MaxSummaryErrors]
	}

	metrics.PipelineRuns.WithLabelValues(string(status)).Inc()
	metrics.PipelineDuration.Observe(duration.Seconds())

	return &core.PipelineSummary{
		Status:      status,
		Records:     p.counts,
		Total:       p.counts.Total(),
		ErrorsCount: len(p.errors),
		Errors:      firstErrors,
		StartedAt:   start,
		FinishedAt:  end,
		Duration:    duration.String(),
	}
}

// writeReport serializes the summary to a timestamped JSON artifact.
func (p *Pipeline) writeReport(summary *core.PipelineSummary) (string, error) {
	if err := os.MkdirAll(p.cfg.DataPaths.ReportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	name := fmt.Sprintf("etl_report_%s.json", summary.FinishedAt.Format("20060102_150405"))
	path := filepath.Join(p.cfg.DataPaths.ReportDir, name)

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}
	p.logger.Infow("run report written", "path", path)
	return path, nil
}
