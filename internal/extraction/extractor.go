// Package extraction batches job descriptions through an external entity
// recognizer and keeps only skill-like entities.
package extraction

import (
	"context"
	"errors"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/types"
)

// DefaultBatchSize is the largest batch the recognizer is sent.
const DefaultBatchSize = 5

// DefaultCategories are the entity categories kept by the extractor.
var DefaultCategories = []string{"Skill", "Product", "PersonType"}

var tracer = otel.Tracer("github.com/jonathan/hr-pulse/internal/extraction")

// Options configures an Extractor. Zero values select the defaults.
type Options struct {
	BatchSize  int
	Categories []string
	Logger     *zap.Logger
}

// Extractor turns descriptions into per-document skill lists.
type Extractor struct {
	client     Recognizer
	batchSize  int
	categories map[string]bool
	logger     *zap.Logger
}

// NewExtractor creates an extractor around client.
func NewExtractor(client Recognizer, opts Options) *Extractor {
	batchSize := opts.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	categories := opts.Categories
	if len(categories) == 0 {
		categories = DefaultCategories
	}
	allowed := make(map[string]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Extractor{
		client:     client,
		batchSize:  batchSize,
		categories: allowed,
		logger:     logger,
	}
}

// BatchSize returns the configured batch size.
func (e *Extractor) BatchSize() int {
	return e.batchSize
}

// Extract returns one skill list per description, in input order. A document
// the service rejected yields an empty list; a failed batch fails the call.
func (e *Extractor) Extract(ctx context.Context, descriptions []string) ([][]types.SkillEntity, error) {
	results := make([][]types.SkillEntity, 0, len(descriptions))

	for start, batch := 0, 0; start < len(descriptions); start, batch = start+e.batchSize, batch+1 {
		end := min(start+e.batchSize, len(descriptions))

		docs, err := e.recognizeBatch(ctx, batch, descriptions[start:end])
		if err != nil {
			return nil, err
		}
		for i, doc := range docs {
			if doc.Err != nil {
				e.logger.Warn("entity recognition failed for document",
					zap.Int("index", start+i),
					zap.Error(doc.Err))
				results = append(results, []types.SkillEntity{})
				continue
			}
			results = append(results, e.filter(doc.Entities))
		}
	}
	return results, nil
}

func (e *Extractor) recognizeBatch(ctx context.Context, batch int, docs []string) ([]DocumentResult, error) {
	ctx, span := tracer.Start(ctx, "extraction.batch")
	defer span.End()
	span.SetAttributes(attribute.Int("batch.index", batch), attribute.Int("batch.size", len(docs)))

	res, err := e.client.RecognizeEntities(ctx, docs)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "recognizer call failed")
		var extErr *ExtractionError
		if errors.As(err, &extErr) {
			if extErr.Batch < 0 {
				extErr.Batch = batch
			}
			return nil, extErr
		}
		return nil, &ExtractionError{Batch: batch, Message: "recognizer call failed", Cause: err}
	}
	if len(res) != len(docs) {
		err := &ExtractionError{
			Batch:   batch,
			Message: "recognizer returned a result count that does not match the batch",
		}
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}
	return res, nil
}

func (e *Extractor) filter(entities []Entity) []types.SkillEntity {
	skills := make([]types.SkillEntity, 0, len(entities))
	for _, ent := range entities {
		if !e.categories[ent.Category] {
			continue
		}
		skill := types.SkillEntity{
			Text:            ent.Text,
			Category:        ent.Category,
			ConfidenceScore: ent.ConfidenceScore,
		}
		if ent.Subcategory != "" {
			sub := ent.Subcategory
			skill.Subcategory = &sub
		}
		skills = append(skills, skill)
	}
	return skills
}

// RoundConfidence rounds a score for display. Stored scores are never rounded.
func RoundConfidence(score float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(score*p) / p
}
