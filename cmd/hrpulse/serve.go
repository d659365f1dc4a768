package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/config"
	"github.com/jonathan/hr-pulse/internal/pipeline"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing job listing, search, upload, salary prediction and account endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	if servePort > 0 {
		a.settings.Port = servePort
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to create JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor, recognizers := newExtractor(a.settings, a.logger)
	defer recognizers.Close()

	srv, err := server.New(server.Config{
		Settings:  *a.settings,
		Store:     store,
		Ingester:  pipeline.NewIngester(extractor, store, a.logger),
		Predictor: salary.NewPredictor(a.settings.ModelPath),
		Logger:    a.logger,
		JWT:       jwtConfig,
		Password:  passwordConfig,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	a.logger.Info("starting "+a.settings.ProjectName,
		zap.String("database", redactURL(a.settings.DatabaseURL)),
		zap.String("ner_provider", a.settings.NERProvider),
		zap.String("model_path", a.settings.ModelPath))
	return srv.Run(ctx)
}
