package salary

import "github.com/jonathan/hr-pulse/internal/types"

// HighConfidenceThreshold separates "high" from "medium" confidence labels.
const HighConfidenceThreshold = 80000

// Predictor estimates salaries from the artifact at a fixed path. The artifact
// is read on every call so a retrain is picked up without a restart.
type Predictor struct {
	path string
}

// NewPredictor returns a predictor for the artifact at path.
func NewPredictor(path string) *Predictor {
	return &Predictor{path: path}
}

// Path returns the artifact location.
func (p *Predictor) Path() string {
	return p.path
}

// Predict returns the estimate for a posting, rounded to cents.
func (p *Predictor) Predict(title, description string) (float64, error) {
	model, err := LoadModel(p.path)
	if err != nil {
		return 0, err
	}
	text := types.NormalizedRecord{Title: title, Description: description}.ModelText()
	return round(model.Predict(text), 2), nil
}

// Confidence labels an estimate.
func Confidence(salary float64) string {
	if salary > HighConfidenceThreshold {
		return "high"
	}
	return "medium"
}
