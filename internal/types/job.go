// Package types provides the records shared between ingestion, extraction, storage and the API.
package types

// NormalizedRecord is a cleaned job posting. Title is never empty.
type NormalizedRecord struct {
	Title       string   `json:"job_title"`
	SalaryAvg   *float64 `json:"salary_avg,omitempty"`
	Description string   `json:"description"`
}

// HasSalary reports whether the record carries a numeric salary target.
func (r NormalizedRecord) HasSalary() bool {
	return r.SalaryAvg != nil
}

// ModelText is the text the salary model is fit and evaluated on.
func (r NormalizedRecord) ModelText() string {
	return r.Title + " " + r.Description
}

// SkillEntity is one entity returned by the external recognizer and kept by the category filter.
type SkillEntity struct {
	Text            string  `json:"text"`
	Category        string  `json:"category"`
	Subcategory     *string `json:"subcategory"`
	ConfidenceScore float64 `json:"confidence_score"`
}

// Job is a persisted posting with its extracted skills.
type Job struct {
	ID              int64         `json:"id"`
	JobTitle        string        `json:"job_title"`
	SkillsExtracted []SkillEntity `json:"skills_extracted"`
}

// SalaryPredictRequest is the body of POST /predict/salary. Description must
// be present but may be empty.
type SalaryPredictRequest struct {
	JobTitle    string  `json:"job_title" validate:"required"`
	Description *string `json:"description" validate:"required"`
}

// SalaryPredictResponse is returned by POST /predict/salary.
type SalaryPredictResponse struct {
	JobTitle           string   `json:"job_title"`
	PredictedSalaryUSD float64  `json:"predicted_salary_usd"`
	Confidence         string   `json:"confidence"`
	Skills             []string `json:"skills"`
}
