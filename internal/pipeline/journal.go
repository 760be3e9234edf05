package pipeline

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/job-search/internal/db"
)

// Recorder receives the lifecycle of a run. Errors are reported as warnings
// and never stop the pipeline.
type Recorder interface {
	RunStarted(ctx context.Context, st *State) error
	StepStarted(ctx context.Context, runID uuid.UUID, step string) error
	StepFinished(ctx context.Context, runID uuid.UUID, step string, elapsed time.Duration, stepErr error) error
	Artifact(ctx context.Context, runID uuid.UUID, name, category string, content any) error
	RunFinished(ctx context.Context, runID uuid.UUID, summary *Summary, runErr error) error
}

// NopRecorder discards everything
type NopRecorder struct{}

func (NopRecorder) RunStarted(context.Context, *State) error { return nil }

func (NopRecorder) StepStarted(context.Context, uuid.UUID, string) error { return nil }

func (NopRecorder) StepFinished(context.Context, uuid.UUID, string, time.Duration, error) error {
	return nil
}

func (NopRecorder) Artifact(context.Context, uuid.UUID, string, string, any) error { return nil }

func (NopRecorder) RunFinished(context.Context, uuid.UUID, *Summary, error) error { return nil }

// Journal records runs in PostgreSQL
type Journal struct {
	db *db.DB
}

// NewJournal creates a Recorder backed by database.
func NewJournal(database *db.DB) *Journal {
	return &Journal{db: database}
}

// RunStarted inserts the run row.
func (j *Journal) RunStarted(ctx context.Context, st *State) error {
	_, err := j.db.CreateRun(ctx, db.RunInput{
		ID:            st.RunID,
		UserName:      st.Profile.Name,
		UserEmail:     st.Profile.Email,
		SearchTerm:    st.Params.SearchTerm,
		Location:      st.Params.Location,
		ResultsWanted: st.Params.ResultsWanted,
	})
	return err
}

// StepStarted marks the step in progress.
func (j *Journal) StepStarted(ctx context.Context, runID uuid.UUID, step string) error {
	return j.db.StartStep(ctx, runID, step)
}

// StepFinished stores the step status and duration.
func (j *Journal) StepFinished(ctx context.Context, runID uuid.UUID, step string, elapsed time.Duration, stepErr error) error {
	status, msg := db.StepStatusCompleted, ""
	if stepErr != nil {
		status, msg = db.StepStatusFailed, stepErr.Error()
	}
	return j.db.FinishStep(ctx, runID, step, status, elapsed, msg)
}

// Artifact stores text as a text artifact and everything else as JSON.
func (j *Journal) Artifact(ctx context.Context, runID uuid.UUID, name, category string, content any) error {
	if text, ok := content.(string); ok {
		return j.db.SaveTextArtifact(ctx, runID, name, category, text)
	}
	return j.db.SaveArtifact(ctx, runID, name, category, content)
}

// RunFinished closes the run row. A run without a resume is marked failed.
func (j *Journal) RunFinished(ctx context.Context, runID uuid.UUID, summary *Summary, runErr error) error {
	status := db.RunStatusCompleted
	path := ""
	if summary != nil {
		path = summary.ResumePath
		if !summary.ResumeOK {
			status = db.RunStatusFailed
		}
	}
	if runErr != nil {
		status = db.RunStatusFailed
	}
	return j.db.CompleteRun(ctx, runID, status, path)
}
