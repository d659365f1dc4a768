package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/config"
	"github.com/jonathan/hr-pulse/internal/db"
	"github.com/jonathan/hr-pulse/internal/telemetry"
)

var (
	configPath string
	timeout    time.Duration
)

var rootCmd = &cobra.Command{
	Use:           "hrpulse",
	Short:         "HR-Pulse job market analysis",
	Long:          "HR-Pulse ingests job-posting CSV files, extracts skills with an entity recognizer, trains a salary model and serves both over a REST API.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON settings file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Abort the command after this duration (0 disables)")
}

// app holds what every command needs once settings are loaded.
type app struct {
	settings *config.Settings
	logger   *zap.Logger
	shutdown func(context.Context) error
}

// newApp loads settings and starts logging and tracing.
func newApp(ctx context.Context) (*app, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	logger, err := telemetry.NewLogger(settings.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	shutdown, err := telemetry.InitTracer(ctx, settings.ServiceName, settings.OTLPEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}
	if settings.OTLPEndpoint != "" {
		logger.Info("tracing enabled", zap.String("endpoint", settings.OTLPEndpoint))
	}
	return &app{settings: settings, logger: logger, shutdown: shutdown}, nil
}

// Close flushes traces and logs.
func (a *app) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.shutdown(ctx); err != nil {
		a.logger.Warn("tracer shutdown failed", zap.Error(err))
	}
	_ = a.logger.Sync()
}

// openStore connects to DatabaseURL and creates missing tables.
func (a *app) openStore(ctx context.Context) (db.Store, error) {
	store, err := db.Open(ctx, a.settings.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// commandContext applies --timeout to the command context.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}
