package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/artifactlock"
	"github.com/jonathan/hr-pulse/internal/observability"
	"github.com/jonathan/hr-pulse/internal/pipeline"
	"github.com/jonathan/hr-pulse/internal/salary"
)

var (
	trainFile        string
	trainModel       string
	trainMaxFeatures int
	trainAlpha       float64
	trainJSON        bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the salary model from a job CSV",
	Long:  "Fit a TF-IDF plus ridge regression salary model on the records of a job CSV that carry a salary, and replace the model artifact atomically.",
	RunE:  runTrain,
}

func init() {
	trainCmd.Flags().StringVarP(&trainFile, "file", "f", "", "CSV file to train on (defaults to DATA_PATH)")
	trainCmd.Flags().StringVarP(&trainModel, "model", "m", "", "Model artifact path (defaults to MODEL_PATH)")
	trainCmd.Flags().IntVar(&trainMaxFeatures, "max-features", salary.DefaultMaxFeatures, "TF-IDF vocabulary size")
	trainCmd.Flags().Float64Var(&trainAlpha, "alpha", salary.DefaultAlpha, "Ridge regularization strength")
	trainCmd.Flags().BoolVar(&trainJSON, "json", false, "Print the report as JSON")
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	path := trainFile
	if path == "" {
		path = a.settings.DataPath
	}
	modelPath := trainModel
	if modelPath == "" {
		modelPath = a.settings.ModelPath
	}

	lock, err := artifactlock.Acquire(ctx, modelPath)
	if err != nil {
		return fmt.Errorf("failed to lock model artifact: %w", err)
	}
	defer func() {
		if err := lock.Release(); err != nil {
			a.logger.Warn("failed to release model lock", zap.Error(err))
		}
	}()

	report, err := pipeline.TrainFromCSV(path, salary.TrainOptions{
		ModelPath:   modelPath,
		MaxFeatures: trainMaxFeatures,
		Alpha:       trainAlpha,
	})
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	a.logger.Info("salary model trained",
		zap.String("model_path", modelPath),
		zap.Int("samples", report.Samples),
		zap.Float64("mae", report.MAE),
		zap.Float64("r2", report.R2))

	if trainJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintTrainReport(report, modelPath)
	return nil
}
