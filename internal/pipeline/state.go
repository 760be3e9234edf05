// Package pipeline runs the job-search flow: collect input, search and
// analyze job listings, generate the resume, and report the result.
package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/resume"
	"github.com/jonathan/job-search/internal/types"
)

// Stage is a node of the pipeline state machine
type Stage int

// Stages, in the only order they may be visited
const (
	StageStart Stage = iota
	StageSearching
	StageAnalyzing
	StageGenerating
	StageDone
)

var stageNames = map[Stage]string{
	StageStart:      "start",
	StageSearching:  "searching",
	StageAnalyzing:  "analyzing",
	StageGenerating: "generating",
	StageDone:       "done",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// TransitionError reports an attempt to leave a stage for anything but its successor
type TransitionError struct {
	From Stage
	To   Stage
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid pipeline transition %s -> %s", e.From, e.To)
}

// State is carried through one run. Each step writes only its own fields:
// searching sets Discovery and JobListings, analyzing sets SkillsAnalysis,
// generating sets Resume and ResumePath.
type State struct {
	RunID          uuid.UUID
	Profile        types.UserProfile
	Params         types.JobSearchParams
	Discovery      discovery.Outcome
	JobListings    string
	SkillsAnalysis string
	Resume         resume.Outcome
	ResumePath     string
	Stage          Stage

	// Warnings collects the fallbacks applied by NewState
	Warnings []string
}

// Warnings printed when a run starts without input
const (
	WarnNoProfile = "No user profile provided. Using default values."
	WarnNoParams  = "No job search parameters provided. Using default values."
)

// NewState creates the state for a run. A nil profile or nil params is
// replaced by the built-in fallback and a warning is recorded.
func NewState(profile *types.UserProfile, params *types.JobSearchParams) *State {
	st := &State{RunID: uuid.New(), Stage: StageStart}

	if profile != nil {
		st.Profile = *profile
	} else {
		st.Profile = types.FallbackProfile()
		st.Warnings = append(st.Warnings, WarnNoProfile)
	}

	if params != nil {
		st.Params = *params
	} else {
		st.Params = types.FallbackSearchParams()
		st.Warnings = append(st.Warnings, WarnNoParams)
	}

	return st
}

// advance moves the state to next. Only the immediate successor is accepted.
func (s *State) advance(next Stage) error {
	if next != s.Stage+1 || next > StageDone {
		return &TransitionError{From: s.Stage, To: next}
	}
	s.Stage = next
	return nil
}

// Summary is the view of a finished run
type Summary struct {
	RunID         string `json:"run_id"`
	UserName      string `json:"user_name"`
	SearchTerm    string `json:"search_term"`
	Location      string `json:"location"`
	ResumePath    string `json:"resume_path"`
	JobListingsOK bool   `json:"job_listings_ok"`
	JobCount      int    `json:"job_count"`
	ResumeOK      bool   `json:"resume_ok"`
	ResumeMessage string `json:"resume_message"`
}

// Summary builds the summary view of the state.
func (s *State) Summary() *Summary {
	return &Summary{
		RunID:         s.RunID.String(),
		UserName:      s.Profile.Name,
		SearchTerm:    s.Params.SearchTerm,
		Location:      s.Params.Location,
		ResumePath:    s.ResumePath,
		JobListingsOK: s.Discovery.OK(),
		JobCount:      len(s.Discovery.Jobs),
		ResumeOK:      s.Resume.OK,
		ResumeMessage: s.Resume.Message,
	}
}
