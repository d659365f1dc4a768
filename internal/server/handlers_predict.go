package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/hr-pulse/internal/salary"
	"github.com/jonathan/hr-pulse/internal/skills"
	"github.com/jonathan/hr-pulse/internal/types"
)

// handlePredictSalary estimates a salary and lists the curated skills found in the posting.
func (s *Server) handlePredictSalary(w http.ResponseWriter, r *http.Request) {
	var req types.SalaryPredictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	description := *req.Description
	predicted, err := s.predictor.Predict(req.JobTitle, description)
	if err != nil {
		s.failure(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, types.SalaryPredictResponse{
		JobTitle:           req.JobTitle,
		PredictedSalaryUSD: predicted,
		Confidence:         salary.Confidence(predicted),
		Skills:             skills.MatchKeywords(req.JobTitle+" "+description, skills.DefaultLimit),
	})
}
