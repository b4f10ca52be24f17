// Package bootstrap wires configuration, logging and storage into a ready
// application instance for the CLI commands.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"

	"finwatch/config"
	"finwatch/pipeline"
	"finwatch/storage"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// App holds the initialized components shared by the CLI commands.
type App struct {
	Config *config.Config
	Logger *zap.Logger
	Sugar  *zap.SugaredLogger

	SQLite *storage.SQLite
	Stores pipeline.Stores
	Stats  *storage.StatsReader
}

// Options control application startup.
type Options struct {
	// ConfigFile is an explicit config path; empty falls back to
	// ./config.yaml, environment variables and defaults.
	ConfigFile string
	// Quiet raises the log threshold to warnings.
	Quiet bool
}

// NewApp loads configuration, prepares the data directories and opens the
// store. Callers own the returned App and must Close it.
func NewApp(opts Options) (*App, error) {
	app := &App{}
	app.Logger, app.Sugar = InitLogger(opts.Quiet)

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg

	if viper.ConfigFileUsed() == "" {
		app.Sugar.Info("no config file found, using defaults and env vars")
	}
	app.Sugar.Infow("data paths",
		"data_dir", cfg.DataPaths.DataDir,
		"sqlite_path", cfg.DataPaths.SQLitePath,
		"csv_dir", cfg.DataPaths.CSVDir)

	if err := EnsureDataDirectories(cfg, app.Sugar); err != nil {
		return nil, fmt.Errorf("pre-flight check failed: %w", err)
	}

	sqlite, err := storage.NewSQLite(cfg.DataPaths.SQLitePath, app.Sugar)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	app.SQLite = sqlite

	if app.Stores, err = initStores(sqlite, app.Sugar); err != nil {
		sqlite.Close()
		return nil, err
	}
	app.Stats = &storage.StatsReader{
		Devices:    app.Stores.Devices,
		Events:     app.Stores.Events,
		Metrics:    app.Stores.Metrics,
		Activities: app.Stores.Activities,
	}

	return app, nil
}

// NewPipeline builds a fresh pipeline over the app's stores. Pipelines are
// single-use, so each run gets its own.
func (a *App) NewPipeline() (*pipeline.Pipeline, error) {
	return pipeline.New(a.Config, a.Stores, a.Sugar)
}

// Close releases the database connections and flushes the logger.
func (a *App) Close() {
	if a.SQLite != nil {
		a.SQLite.Close()
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
}

func initStores(sqlite *storage.SQLite, sugar *zap.SugaredLogger) (pipeline.Stores, error) {
	var stores pipeline.Stores
	var err error

	if stores.Devices, err = storage.NewSQLiteDeviceStorage(sqlite, sugar); err != nil {
		return stores, fmt.Errorf("failed to initialize device storage: %w", err)
	}
	if stores.Events, err = storage.NewSQLiteEventStorage(sqlite, sugar); err != nil {
		return stores, fmt.Errorf("failed to initialize event storage: %w", err)
	}
	if stores.Metrics, err = storage.NewSQLiteMetricStorage(sqlite, sugar); err != nil {
		return stores, fmt.Errorf("failed to initialize metric storage: %w", err)
	}
	if stores.Activities, err = storage.NewSQLiteActivityStorage(sqlite, sugar); err != nil {
		return stores, fmt.Errorf("failed to initialize activity storage: %w", err)
	}
	return stores, nil
}

// EnsureDataDirectories creates the writable directories the run needs and
// verifies write access before any component touches them.
func EnsureDataDirectories(cfg *config.Config, sugar *zap.SugaredLogger) error {
	dirs := []string{cfg.DataPaths.DataDir}
	if cfg.DataPaths.ReportDir != "" {
		dirs = append(dirs, cfg.DataPaths.ReportDir)
	}

	for _, dir := range dirs {
		absPath, err := filepath.Abs(dir)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path for %s: %w", dir, err)
		}
		if err := os.MkdirAll(absPath, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", absPath, err)
		}

		testFile := filepath.Join(absPath, ".finwatch_write_test")
		if err := os.WriteFile(testFile, []byte("test"), 0o644); err != nil {
			return fmt.Errorf("directory %s is not writable: %w", absPath, err)
		}
		os.Remove(testFile)

		sugar.Debugw("data directory ready", "path", absPath)
	}
	return nil
}
