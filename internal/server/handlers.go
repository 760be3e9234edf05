package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/job-search/internal/pipeline"
	"github.com/jonathan/job-search/internal/profile"
	"github.com/jonathan/job-search/internal/resume"
	"github.com/jonathan/job-search/internal/types"
)

// RunResponse is returned by POST /run and as the final /run/stream event
type RunResponse struct {
	Summary        *pipeline.Summary `json:"summary"`
	JobListings    string            `json:"job_listings"`
	SkillsAnalysis string            `json:"skills_analysis"`
}

// ValidateResponse is returned by POST /validate
type ValidateResponse struct {
	Valid  bool             `json:"valid"`
	Errors []fieldErrorJSON `json:"errors,omitempty"`
	Error  string           `json:"error,omitempty"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleValidate checks a configuration document, or a profile-only
// document when profile_only=true, and reports every violation.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		s.writeError(w, err)
		return
	}

	profileOnly, _ := strconv.ParseBool(r.URL.Query().Get("profile_only"))
	if profileOnly {
		_, err = profile.ParseProfile(body)
	} else {
		_, err = profile.ParseConfig(body)
	}

	if err == nil {
		s.jsonResponse(w, http.StatusOK, ValidateResponse{Valid: true})
		return
	}

	resp := ValidateResponse{Error: err.Error()}
	if fields, ok := errorBody(err)["errors"].([]fieldErrorJSON); ok {
		resp.Error = "validation failed"
		resp.Errors = fields
	}
	s.jsonResponse(w, HTTPStatus(err), resp)
}

// prepareRun parses the request body and builds a controller and state for it
func (s *Server) prepareRun(w http.ResponseWriter, r *http.Request) (*pipeline.Controller, *pipeline.State, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, err
	}
	cfg, err := profile.ParseConfig(body)
	if err != nil {
		return nil, nil, err
	}

	ctrl, err := s.newController()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build pipeline: %w", err)
	}

	st := pipeline.NewState(&cfg.UserProfile, &cfg.JobSearchParams)
	ctrl.Filename = runFilename(ctrl.Filename, st.RunID)
	ctrl.Out = io.Discard
	ctrl.Verbose = false
	return ctrl, st, nil
}

// handleRun runs the pipeline synchronously and returns the summary
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	ctrl, st, err := s.prepareRun(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	log.Printf("Starting pipeline run %s for %s", st.RunID, logName(st.Profile))
	summary, err := ctrl.Run(r.Context(), st)
	if err != nil {
		log.Printf("Pipeline run %s failed: %v", st.RunID, err)
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, &RunResponse{
		Summary:        summary,
		JobListings:    st.JobListings,
		SkillsAnalysis: st.SkillsAnalysis,
	})
}

// handleRunStream runs the pipeline and streams progress via SSE
func (s *Server) handleRunStream(w http.ResponseWriter, r *http.Request) {
	ctrl, st, err := s.prepareRun(w, r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	ctrl.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	log.Printf("Starting streaming pipeline run %s...", st.RunID)
	summary, err := ctrl.Run(r.Context(), st)
	if err != nil {
		sse.WriteError(err)
		return
	}
	sse.WriteComplete(&RunResponse{
		Summary:        summary,
		JobListings:    st.JobListings,
		SkillsAnalysis: st.SkillsAnalysis,
	})
}

// runFilename gives each API run its own resume file so concurrent runs
// never overwrite each other.
func runFilename(name string, runID uuid.UUID) string {
	if name == "" {
		name = resume.DefaultFilename
	}
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s_%s%s", strings.TrimSuffix(name, ext), runID, ext)
}

// logName keeps email addresses out of the server log
func logName(p types.UserProfile) string {
	if p.Name == "" {
		return "(unnamed)"
	}
	return p.Name
}
