package server

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/job-search/internal/db"
	"github.com/jonathan/job-search/internal/pipeline/steps"
)

// requireStore answers 503 when no journal is configured
func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "run journal is not configured (set DATABASE_URL)")
		return false
	}
	return true
}

// parseRunID reads the {id} path value
func (s *Server) parseRunID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleListRuns returns recent runs, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 500 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		limit = n
	}

	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"runs": runs, "count": len(runs)})
}

// handleGetRun returns one run
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleDeleteRun removes a run with its steps and artifacts. The resume
// file on disk is left alone.
func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteRun(r.Context(), id); err != nil {
		if errors.Is(err, db.ErrRunNotFound) {
			s.errorResponse(w, http.StatusNotFound, "Run not found")
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleGetRunStep returns one recorded step of a run
func (s *Server) handleGetRunStep(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}
	name := r.PathValue("step")
	if steps.Index(name) == 0 {
		s.errorResponse(w, http.StatusBadRequest, "Unknown step: "+name)
		return
	}

	step, err := s.store.GetRunStep(r.Context(), id, name)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if step == nil {
		s.errorResponse(w, http.StatusNotFound, "Step not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, step)
}

// handleListRunSteps returns the recorded steps of a run
func (s *Server) handleListRunSteps(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	steps, err := s.store.ListRunSteps(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"run_id": id, "steps": steps})
}

// handleGetArtifact returns a stored artifact: text artifacts as text/plain,
// JSON artifacts as they were stored.
func (s *Server) handleGetArtifact(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}
	name := r.PathValue("name")

	text, err := s.store.GetTextArtifact(r.Context(), id, name)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if text != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
		return
	}

	content, err := s.store.GetArtifact(r.Context(), id, name)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if content == nil {
		s.errorResponse(w, http.StatusNotFound, "Artifact not found")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}

// handleDownloadResume serves the resume file a run produced
func (s *Server) handleDownloadResume(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	id, ok := s.parseRunID(w, r)
	if !ok {
		return
	}

	run, err := s.store.GetRun(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}
	if run == nil || run.ResumePath == nil {
		s.errorResponse(w, http.StatusNotFound, "Resume not found")
		return
	}
	if _, err := os.Stat(*run.ResumePath); err != nil {
		s.errorResponse(w, http.StatusGone, "Resume file is no longer available")
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=\""+filepath.Base(*run.ResumePath)+"\"")
	http.ServeFile(w, r, *run.ResumePath)
}
