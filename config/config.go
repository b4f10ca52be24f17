// Package config loads FinWatch configuration from file, environment and
// defaults via viper. Every knob has a default so a bare `finwatch run`
// works against the current directory.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"finwatch/core"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DataPaths holds file and directory locations. Each can be overridden via
// FINWATCH_* environment variables.
type DataPaths struct {
	// DataDir is the base data directory (FINWATCH_DATA_PATHS_DATA_DIR, default ./data).
	DataDir string `mapstructure:"data_dir" validate:"required"`
	// SQLitePath is the database file; empty derives ${DataDir}/finwatch.db.
	SQLitePath string `mapstructure:"sqlite_path"`
	// CSVDir is where the CSV exports are looked up (default ".").
	CSVDir string `mapstructure:"csv_dir" validate:"required"`
	// ReportDir receives the timestamped run report; empty disables the artifact.
	ReportDir string `mapstructure:"report_dir"`
	// RulesFile optionally overrides the built-in classification rules.
	RulesFile string `mapstructure:"rules_file"`
}

// PipelineConfig holds the run policy knobs.
type PipelineConfig struct {
	// ClearBeforeLoad bulk-deletes events, metrics and activities before
	// loading so each run is idempotent in aggregate. Devices are never
	// wholesale-deleted. Disable for multi-writer deployments.
	ClearBeforeLoad bool `mapstructure:"clear_before_load"`
	// DeviceUpsert resolves hostname conflicts: "update" (overwrite in
	// place, default) or "skip" (get-or-create).
	DeviceUpsert string `mapstructure:"device_upsert" validate:"oneof=update skip"`
	// CheckoutClassification maps raw checkout events: "transaction"
	// (default) or "suspicious_traffic".
	CheckoutClassification string `mapstructure:"checkout_classification" validate:"oneof=transaction suspicious_traffic"`
	// IncludeDemoEvents appends the fixed critical demo events after the
	// CSV-derived ones.
	IncludeDemoEvents bool `mapstructure:"include_demo_events"`
	// MaxEvents caps how many raw event rows are processed per run.
	MaxEvents int `mapstructure:"max_events" validate:"min=1"`
	// MaxActivities caps how many marketing rows become activities.
	MaxActivities int `mapstructure:"max_activities" validate:"min=1"`
	// MetricHours is the synthetic telemetry window in hourly buckets.
	MetricHours int `mapstructure:"metric_hours" validate:"min=1"`
	// MetricDays switches to the multi-day fleet series when > 0.
	MetricDays int `mapstructure:"metric_days" validate:"min=0"`
	// Seed fixes the random source; 0 means clock-seeded.
	Seed int64 `mapstructure:"seed"`
	// ActivityUser is the username attributed to derived activities.
	ActivityUser string `mapstructure:"activity_user" validate:"required"`
}

// Config is the root configuration.
type Config struct {
	DataPaths DataPaths      `mapstructure:"data_paths"`
	Pipeline  PipelineConfig `mapstructure:"pipeline"`
}

func setDefaults() {
	viper.SetDefault("data_paths.data_dir", "./data")
	viper.SetDefault("data_paths.sqlite_path", "") // empty = derive from data_dir
	viper.SetDefault("data_paths.csv_dir", ".")
	viper.SetDefault("data_paths.report_dir", "")
	viper.SetDefault("data_paths.rules_file", "")

	viper.SetDefault("pipeline.clear_before_load", true)
	viper.SetDefault("pipeline.device_upsert", string(core.UpsertUpdate))
	viper.SetDefault("pipeline.checkout_classification", string(core.CheckoutTransaction))
	viper.SetDefault("pipeline.include_demo_events", true)
	viper.SetDefault("pipeline.max_events", 100)
	viper.SetDefault("pipeline.max_activities", 50)
	viper.SetDefault("pipeline.metric_hours", 24)
	viper.SetDefault("pipeline.metric_days", 0)
	viper.SetDefault("pipeline.seed", 0)
	viper.SetDefault("pipeline.activity_user", "admin")
}

// Load reads configuration. configFile may be empty, in which case only an
// optional ./config.yaml, environment variables and defaults apply.
func Load(configFile string) (*Config, error) {
	viper.Reset()
	setDefaults()

	viper.SetEnvPrefix("FINWATCH")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if err := viper.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.DataPaths.SQLitePath == "" {
		cfg.DataPaths.SQLitePath = filepath.Join(cfg.DataPaths.DataDir, "finwatch.db")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// UpsertPolicy returns the configured device upsert policy.
func (c *Config) UpsertPolicy() core.UpsertPolicy {
	return core.UpsertPolicy(c.Pipeline.DeviceUpsert)
}

// CheckoutMode returns the configured checkout classification.
func (c *Config) CheckoutMode() core.CheckoutMode {
	return core.CheckoutMode(c.Pipeline.CheckoutClassification)
}
