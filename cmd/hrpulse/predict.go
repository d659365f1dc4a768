package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hr-pulse/internal/observability"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/skills"
	"github.com/jonathan/hr-pulse/internal/types"
)

var (
	predictTitle       string
	predictDescription string
	predictModel       string
	predictJSON        bool
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Estimate the salary of a job posting",
	RunE:  runPredict,
}

func init() {
	predictCmd.Flags().StringVarP(&predictTitle, "title", "t", "", "Job title (required)")
	predictCmd.Flags().StringVarP(&predictDescription, "description", "d", "", "Job description")
	predictCmd.Flags().StringVarP(&predictModel, "model", "m", "", "Model artifact path (defaults to MODEL_PATH)")
	predictCmd.Flags().BoolVar(&predictJSON, "json", false, "Print the estimate as JSON")
	_ = predictCmd.MarkFlagRequired("title")
	rootCmd.AddCommand(predictCmd)
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	modelPath := predictModel
	if modelPath == "" {
		modelPath = a.settings.ModelPath
	}

	predicted, err := salary.NewPredictor(modelPath).Predict(predictTitle, predictDescription)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	resp := &types.SalaryPredictResponse{
		JobTitle:           predictTitle,
		PredictedSalaryUSD: predicted,
		Confidence:         salary.Confidence(predicted),
		Skills:             skills.MatchKeywords(predictTitle+" "+predictDescription, skills.DefaultLimit),
	}

	if predictJSON {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(resp)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintPrediction(resp)
	return nil
}
