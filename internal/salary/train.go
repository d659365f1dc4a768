// Package salary trains and serves the TF-IDF + ridge salary estimator.
package salary

import (
	"fmt"
	"time"

	"github.com/jonathan/hr-pulse/internal/types"
)

// TrainOptions configures Train. Zero values select the defaults.
type TrainOptions struct {
	ModelPath   string
	MaxFeatures int
	Alpha       float64
	// Now stamps the artifact; defaults to time.Now.
	Now func() time.Time
}

// Report holds in-sample fit quality.
type Report struct {
	MAE            float64 `json:"mae"`
	R2             float64 `json:"r2"`
	Samples        int     `json:"samples"`
	VocabularySize int     `json:"vocabulary_size"`
}

// Train fits a model on records that carry a salary and replaces the artifact
// at opts.ModelPath. Callers must hold the artifact lock.
func Train(records []types.NormalizedRecord, opts TrainOptions) (*Report, error) {
	if opts.ModelPath == "" {
		return nil, fmt.Errorf("model path is required")
	}
	alpha := opts.Alpha
	if alpha <= 0 {
		alpha = DefaultAlpha
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	texts := make([]string, 0, len(records))
	targets := make([]float64, 0, len(records))
	for _, rec := range records {
		if !rec.HasSalary() {
			continue
		}
		texts = append(texts, rec.ModelText())
		targets = append(targets, *rec.SalaryAvg)
	}
	if len(texts) == 0 {
		return nil, &InsufficientDataError{Message: "no record has a salary"}
	}
	if distinctSamples(texts, targets) < 2 {
		return nil, &TrainingError{Message: "need at least two distinct samples"}
	}

	vec := FitVectorizer(texts, opts.MaxFeatures)
	if len(vec.IDF) == 0 {
		return nil, &TrainingError{Message: "vocabulary is empty"}
	}

	rows := make([][]float64, len(texts))
	for i, text := range texts {
		rows[i] = vec.Transform(text)
	}
	reg, err := fitRidge(rows, targets, alpha)
	if err != nil {
		return nil, &TrainingError{Message: "ridge fit failed", Cause: err}
	}

	pred := make([]float64, len(rows))
	for i, row := range rows {
		pred[i] = reg.Predict(row)
	}

	model := &Model{Vectorizer: vec, Regressor: reg, CreatedAt: now()}
	if err := SaveModel(opts.ModelPath, model); err != nil {
		return nil, err
	}

	return &Report{
		MAE:            round(meanAbsoluteError(targets, pred), 2),
		R2:             round(r2Score(targets, pred), 4),
		Samples:        len(texts),
		VocabularySize: len(vec.IDF),
	}, nil
}

func distinctSamples(texts []string, targets []float64) int {
	type sample struct {
		text   string
		target float64
	}
	seen := make(map[sample]struct{}, len(texts))
	for i := range texts {
		seen[sample{texts[i], targets[i]}] = struct{}{}
	}
	return len(seen)
}
