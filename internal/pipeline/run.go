// Package pipeline orchestrates ingestion (normalize, extract skills, store)
// and salary model training over job-posting CSV files.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/ingestion"
	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/types"
)

var tracer = otel.Tracer("github.com/jonathan/hr-pulse/internal/pipeline")

// Ingestion steps reported through ProgressEvent.
const (
	StepNormalize = "normalize"
	StepExtract   = "extract"
	StepInsert    = "insert"
)

// ProgressEvent represents a progress update during ingestion
type ProgressEvent struct {
	Step    string `json:"step"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// SkillExtractor returns one skill list per description.
type SkillExtractor interface {
	Extract(ctx context.Context, descriptions []string) ([][]types.SkillEntity, error)
}

// JobInserter persists one job.
type JobInserter interface {
	InsertJob(ctx context.Context, title string, skills []types.SkillEntity) (*types.Job, error)
}

// IngestOptions configures one ingestion run.
type IngestOptions struct {
	// Limit keeps only the first Limit normalized records; 0 keeps all.
	Limit      int
	OnProgress ProgressCallback
}

// IngestResult summarizes an ingestion run.
type IngestResult struct {
	Normalized int         `json:"normalized"`
	Processed  int         `json:"processed"`
	Inserted   int         `json:"inserted"`
	Skills     int         `json:"skills"`
	Jobs       []types.Job `json:"jobs"`
}

// Ingester wires normalization, extraction and storage.
type Ingester struct {
	extractor SkillExtractor
	store     JobInserter
	logger    *zap.Logger
}

// NewIngester creates an ingester. A nil logger discards output.
func NewIngester(extractor SkillExtractor, store JobInserter, logger *zap.Logger) *Ingester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ingester{extractor: extractor, store: store, logger: logger}
}

// Ingest loads the CSV at path and stores every normalized record with its skills.
func (in *Ingester) Ingest(ctx context.Context, path string, opts IngestOptions) (*IngestResult, error) {
	records, err := ingestion.LoadAndClean(path)
	if err != nil {
		return nil, err
	}
	return in.IngestRecords(ctx, records, opts)
}

// IngestReader is Ingest over an already opened CSV stream.
func (in *Ingester) IngestReader(ctx context.Context, r io.Reader, opts IngestOptions) (*IngestResult, error) {
	records, err := ingestion.ReadAndClean(r)
	if err != nil {
		return nil, err
	}
	return in.IngestRecords(ctx, records, opts)
}

// IngestRecords extracts skills for records and inserts them in order.
// Extraction runs to completion before the first insert, so an extraction
// failure stores nothing. An insert failure returns the partial result
// alongside the error.
func (in *Ingester) IngestRecords(ctx context.Context, records []types.NormalizedRecord, opts IngestOptions) (*IngestResult, error) {
	ctx, span := tracer.Start(ctx, "pipeline.ingest")
	defer span.End()

	result := &IngestResult{Normalized: len(records), Jobs: []types.Job{}}
	in.emit(opts, ProgressEvent{Step: StepNormalize, Message: "records normalized", Count: len(records)})

	records = ingestion.Limit(records, opts.Limit)
	result.Processed = len(records)
	span.SetAttributes(
		attribute.Int("ingest.normalized", result.Normalized),
		attribute.Int("ingest.processed", result.Processed),
	)

	descriptions := make([]string, len(records))
	for i, rec := range records {
		descriptions[i] = rec.Description
	}

	skills, err := in.extractor.Extract(ctx, descriptions)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "extraction failed")
		return nil, err
	}
	if len(skills) != len(records) {
		err := fmt.Errorf("extractor returned %d results for %d records", len(skills), len(records))
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	for _, s := range skills {
		result.Skills += len(s)
	}
	in.emit(opts, ProgressEvent{Step: StepExtract, Message: "skills extracted", Count: result.Skills})

	for i, rec := range records {
		job, err := in.store.InsertJob(ctx, rec.Title, skills[i])
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "insert failed")
			return result, fmt.Errorf("failed to insert record %d of %d: %w", i+1, len(records), err)
		}
		result.Jobs = append(result.Jobs, *job)
		result.Inserted++
	}
	in.emit(opts, ProgressEvent{Step: StepInsert, Message: "jobs inserted", Count: result.Inserted})

	in.logger.Info("ingestion complete",
		zap.Int("normalized", result.Normalized),
		zap.Int("inserted", result.Inserted),
		zap.Int("skills", result.Skills))
	return result, nil
}

func (in *Ingester) emit(opts IngestOptions, event ProgressEvent) {
	in.logger.Debug(event.Message, zap.String("step", event.Step), zap.Int("count", event.Count))
	if opts.OnProgress != nil {
		opts.OnProgress(event)
	}
}

// TrainFromCSV normalizes the CSV at path and trains the salary model on it.
// The caller must hold the artifact lock for opts.ModelPath.
func TrainFromCSV(path string, opts salary.TrainOptions) (*salary.Report, error) {
	records, err := ingestion.LoadAndClean(path)
	if err != nil {
		return nil, err
	}
	return salary.Train(records, opts)
}
