package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/hr-pulse/internal/observability"
	"github.com/jonathan/hr-pulse/internal/pipeline"
)

// DefaultIngestLimit is the number of normalized records ingest keeps by default.
const DefaultIngestLimit = 100

var (
	ingestFile  string
	ingestLimit int
	ingestJSON  bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Normalize a job CSV, extract skills and store the jobs",
	Long:  "Load a job-posting CSV, clean titles and salaries, extract skills with the configured entity recognizer and insert one job per record.",
	RunE:  runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestFile, "file", "f", "", "CSV file to ingest (defaults to DATA_PATH)")
	ingestCmd.Flags().IntVarP(&ingestLimit, "limit", "n", DefaultIngestLimit, "Keep only the first N normalized records (0 keeps all)")
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "Print the result as JSON")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	path := ingestFile
	if path == "" {
		path = a.settings.DataPath
	}

	store, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	extractor, recognizers := newExtractor(a.settings, a.logger)
	defer recognizers.Close()

	result, err := pipeline.NewIngester(extractor, store, a.logger).Ingest(ctx, path, pipeline.IngestOptions{Limit: ingestLimit})
	if err != nil {
		if result != nil {
			return fmt.Errorf("ingestion stopped after %d of %d jobs: %w", result.Inserted, result.Processed, err)
		}
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if ingestJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintIngestResult(result)
	return nil
}
