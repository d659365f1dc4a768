package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/hr-pulse/internal/pipeline"
	"github.com/jonathan/hr-pulse/internal/types"
)

// Pagination bounds for GET /jobs.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
)

// MaxUploadBytes bounds the multipart body of POST /jobs/upload.
const MaxUploadBytes = 32 << 20

// UploadResponse is returned by POST /jobs/upload.
type UploadResponse struct {
	Detail     string `json:"detail"`
	Normalized int    `json:"normalized"`
	Inserted   int    `json:"inserted"`
	Skills     int    `json:"skills"`
}

// handleListJobs returns a page of jobs ordered by id.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil || skip < 0 {
		s.errorResponse(w, http.StatusBadRequest, "skip must be a non-negative integer")
		return
	}
	limit, err := queryInt(r, "limit", DefaultListLimit)
	if err != nil || limit < 1 || limit > MaxListLimit {
		s.errorResponse(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", MaxListLimit))
		return
	}

	jobs, err := s.store.ListJobs(r.Context(), skip, limit)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nonNilJobs(jobs))
}

// handleSearchJobs returns jobs whose stored skills contain the skill keyword.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill == "" {
		s.errorResponse(w, http.StatusBadRequest, "skill query parameter is required")
		return
	}

	jobs, err := s.store.SearchJobs(r.Context(), skill)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, nonNilJobs(jobs))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, job)
}

func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.jobID(w, r)
	if !ok {
		return
	}

	deleted, err := s.store.DeleteJob(r.Context(), id)
	if err != nil {
		s.failure(w, r, err)
		return
	}
	if !deleted {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"detail": fmt.Sprintf("Job %d deleted", id)})
}

// handleUploadJobs ingests the CSV in the multipart "file" field. An optional
// limit query parameter keeps only the first normalized records.
func (s *Server) handleUploadJobs(w http.ResponseWriter, r *http.Request) {
	if s.ingester == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "ingestion is not configured")
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil || limit < 0 {
		s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "multipart field \"file\" is required")
		return
	}
	defer file.Close()

	if !strings.EqualFold(filepath.Ext(header.Filename), ".csv") {
		s.errorResponse(w, http.StatusBadRequest, "CSV file expected")
		return
	}

	result, err := s.ingester.IngestReader(r.Context(), file, pipeline.IngestOptions{Limit: limit})
	if err != nil {
		if result != nil {
			s.logger.Error("upload partially stored",
				zap.String("file", header.Filename),
				zap.Int("inserted", result.Inserted),
				zap.Error(err))
		}
		s.failure(w, r, err)
		return
	}

	s.logger.Info("upload ingested",
		zap.String("file", header.Filename),
		zap.Int("inserted", result.Inserted))
	s.jsonResponse(w, http.StatusOK, UploadResponse{
		Detail:     fmt.Sprintf("%d jobs inserted", result.Inserted),
		Normalized: result.Normalized,
		Inserted:   result.Inserted,
		Skills:     result.Skills,
	})
}

func (s *Server) jobID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func nonNilJobs(jobs []types.Job) []types.Job {
	if jobs == nil {
		return []types.Job{}
	}
	return jobs
}
