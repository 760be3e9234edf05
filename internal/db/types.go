package db

import (
	"time"

	"github.com/google/uuid"
)

// Run statuses
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// StepStatus constants
const (
	StepStatusInProgress = "in_progress"
	StepStatusCompleted  = "completed"
	StepStatusFailed     = "failed"
)

// Artifact names stored per run
const (
	ArtifactJobListings    = "job_listings"
	ArtifactJobPostings    = "job_postings"
	ArtifactSkillsAnalysis = "skills_analysis"
	ArtifactResume         = "resume"
)

// Artifact categories
const (
	CategoryInput     = "input"
	CategoryDiscovery = "discovery"
	CategoryAnalysis  = "analysis"
	CategoryResume    = "resume"
	CategoryReport    = "report"
)

// Run represents a pipeline run record
type Run struct {
	ID            uuid.UUID  `json:"id"`
	UserName      string     `json:"user_name"`
	UserEmail     string     `json:"user_email"`
	SearchTerm    string     `json:"search_term"`
	Location      string     `json:"location"`
	ResultsWanted int        `json:"results_wanted"`
	Status        string     `json:"status"`
	ResumePath    *string    `json:"resume_path,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// RunInput holds the fields recorded when a run starts
type RunInput struct {
	ID            uuid.UUID
	UserName      string
	UserEmail     string
	SearchTerm    string
	Location      string
	ResultsWanted int
}

// RunStep represents a single step execution for a pipeline run
type RunStep struct {
	ID           uuid.UUID  `json:"id"`
	RunID        uuid.UUID  `json:"run_id"`
	Step         string     `json:"step"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   *int       `json:"duration_ms,omitempty"`
	ErrorMessage *string    `json:"error_message,omitempty"`
}
