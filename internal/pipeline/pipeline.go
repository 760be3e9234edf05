package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jonathan/job-search/internal/analysis"
	"github.com/jonathan/job-search/internal/db"
	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/jobboard"
	"github.com/jonathan/job-search/internal/observability"
	"github.com/jonathan/job-search/internal/pipeline/steps"
	"github.com/jonathan/job-search/internal/resume"
)

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// ScrapeFailurePolicy decides what a failed job search does to the run
type ScrapeFailurePolicy string

const (
	// PolicyDegrade continues to analysis with the failure noted
	PolicyDegrade ScrapeFailurePolicy = "degrade"
	// PolicyAbort stops the run before analysis
	PolicyAbort ScrapeFailurePolicy = "abort"
)

// ParsePolicy validates a policy name. Empty means PolicyDegrade.
func ParsePolicy(s string) (ScrapeFailurePolicy, error) {
	switch ScrapeFailurePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyDegrade:
		return PolicyDegrade, nil
	case PolicyAbort:
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown scrape failure policy %q (want %q or %q)", s, PolicyDegrade, PolicyAbort)
	}
}

// ResumeGenerator writes the resume document
type ResumeGenerator interface {
	Generate(ctx context.Context, in resume.Input) resume.Outcome
}

// Controller runs the four pipeline steps in order against a State
type Controller struct {
	Scraper   jobboard.Scraper
	Analyzer  analysis.Analyzer
	Generator ResumeGenerator

	Discovery discovery.Options
	Policy    ScrapeFailurePolicy
	// Filename of the resume; empty means resume.DefaultFilename
	Filename string

	Verbose    bool
	Out        io.Writer
	OnProgress ProgressCallback
	Recorder   Recorder
}

func (c *Controller) out() io.Writer {
	if c.Out != nil {
		return c.Out
	}
	return os.Stdout
}

func (c *Controller) recorder() Recorder {
	if c.Recorder != nil {
		return c.Recorder
	}
	return NopRecorder{}
}

func (c *Controller) check() error {
	var missing []string
	if c.Scraper == nil {
		missing = append(missing, "scraper")
	}
	if c.Analyzer == nil {
		missing = append(missing, "analyzer")
	}
	if c.Generator == nil {
		missing = append(missing, "resume generator")
	}
	if len(missing) > 0 {
		return fmt.Errorf("pipeline is missing: %s", strings.Join(missing, ", "))
	}
	return nil
}

// emitProgress calls the progress callback if configured
func (c *Controller) emitProgress(st *State, step, message string, content any) {
	if c.OnProgress == nil {
		return
	}
	def, _ := steps.Get(step)
	c.OnProgress(ProgressEvent{
		Step:     step,
		Category: def.Category,
		Message:  message,
		RunID:    st.RunID.String(),
		Content:  content,
	})
}

// warn prints a journal failure; the run itself carries on
func (c *Controller) warn(what string, err error) {
	if err != nil {
		fmt.Fprintf(c.out(), "Warning: Failed to %s: %v\n", what, err)
	}
}

// begin prints the step banner and records the start
func (c *Controller) begin(ctx context.Context, st *State, step string) time.Time {
	def, _ := steps.Get(step)
	fmt.Fprintf(c.out(), "Step %d/%d: %s...\n", steps.Index(step), len(steps.Order), def.Description)
	c.warn("record step start", c.recorder().StepStarted(ctx, st.RunID, step))
	return time.Now()
}

func (c *Controller) finish(ctx context.Context, st *State, step string, started time.Time, stepErr error) {
	c.warn("record step result", c.recorder().StepFinished(ctx, st.RunID, step, time.Since(started), stepErr))
}

func (c *Controller) artifact(ctx context.Context, st *State, name, category string, content any) {
	c.warn("save "+name, c.recorder().Artifact(ctx, st.RunID, name, category, content))
}

// abort records a failed step and run, then returns the error
func (c *Controller) abort(ctx context.Context, st *State, step string, started time.Time, err *StepError) (*Summary, error) {
	c.finish(ctx, st, step, started, err)
	c.warn("complete run", c.recorder().RunFinished(ctx, st.RunID, st.Summary(), err))
	c.emitProgress(st, step, err.Error(), nil)
	return nil, err
}

// Run drives st from StageStart to StageDone. A failed job search is
// carried forward as a tagged outcome unless Policy is PolicyAbort; an
// analysis error always stops the run. Resume failures complete the run
// with Summary.ResumeOK false.
func (c *Controller) Run(ctx context.Context, st *State) (*Summary, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if st == nil {
		return nil, errors.New("pipeline state is nil")
	}
	if st.Stage != StageStart {
		return nil, fmt.Errorf("pipeline state already used (stage %s)", st.Stage)
	}
	if err := steps.ValidateOrder(steps.Order); err != nil {
		return nil, err
	}

	out := c.out()
	printer := observability.NewPrinter(out)
	policy := c.Policy
	if policy == "" {
		policy = PolicyDegrade
	}

	c.warn("create run", c.recorder().RunStarted(ctx, st))

	// Step 1: collect user info
	fmt.Fprintf(out, "Starting job search flow (run %s)...\n", st.RunID)
	started := c.begin(ctx, st, steps.CollectUserInfo)
	for _, w := range st.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
	fmt.Fprintln(out, "User profile and job search parameters ready")
	c.finish(ctx, st, steps.CollectUserInfo, started, nil)
	c.emitProgress(st, steps.CollectUserInfo,
		fmt.Sprintf("Collected profile for %s", st.Profile.Name), st.Params)
	if err := st.advance(StageSearching); err != nil {
		return nil, err
	}

	// Step 2: search and analyze
	started = c.begin(ctx, st, steps.SearchAndAnalyzeJobs)
	found := discovery.Run(ctx, c.Scraper, st.Params, c.Discovery)
	st.Discovery = found
	st.JobListings = found.Text
	c.artifact(ctx, st, db.ArtifactJobListings, db.CategoryDiscovery, found.Text)
	if len(found.Jobs) > 0 {
		c.artifact(ctx, st, db.ArtifactJobPostings, db.CategoryDiscovery, found.Jobs)
	}
	if c.Verbose {
		printer.PrintDiscovery(found)
	}

	switch found.Status {
	case discovery.StatusFailed:
		fmt.Fprintf(out, "Warning: %s\n", found.Text)
		c.emitProgress(st, steps.SearchAndAnalyzeJobs, found.Text, nil)
		if policy == PolicyAbort {
			return c.abort(ctx, st, steps.SearchAndAnalyzeJobs, started, &StepError{
				Step:    steps.SearchAndAnalyzeJobs,
				Message: "job search failed",
				Cause:   found.Err,
			})
		}
	case discovery.StatusEmpty:
		fmt.Fprintln(out, found.Text)
		c.emitProgress(st, steps.SearchAndAnalyzeJobs, found.Text, nil)
	default:
		c.emitProgress(st, steps.SearchAndAnalyzeJobs,
			fmt.Sprintf("Found %d job listings", len(found.Jobs)), found.Jobs)
	}
	if err := st.advance(StageAnalyzing); err != nil {
		return nil, err
	}

	text, err := c.Analyzer.Analyze(ctx, analysis.Input{
		Profile:   st.Profile,
		Params:    st.Params,
		Discovery: st.Discovery,
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("analysis produced no text")
	}
	if err != nil {
		return c.abort(ctx, st, steps.SearchAndAnalyzeJobs, started, &StepError{
			Step:    steps.SearchAndAnalyzeJobs,
			Message: "skills analysis failed",
			Cause:   err,
		})
	}
	st.SkillsAnalysis = text
	c.artifact(ctx, st, db.ArtifactSkillsAnalysis, db.CategoryAnalysis, text)
	if c.Verbose {
		printer.PrintAnalysis(text)
	}
	fmt.Fprintln(out, "Job search and analysis completed")
	c.finish(ctx, st, steps.SearchAndAnalyzeJobs, started, nil)
	c.emitProgress(st, steps.SearchAndAnalyzeJobs, "Skills-gap analysis completed", nil)
	if err := st.advance(StageGenerating); err != nil {
		return nil, err
	}

	// Step 3: generate resume
	started = c.begin(ctx, st, steps.GeneratePersonalizedResume)
	filename := c.Filename
	if filename == "" {
		filename = resume.DefaultFilename
	}
	res := c.Generator.Generate(ctx, resume.Input{
		Profile:  st.Profile,
		Params:   st.Params,
		Analysis: st.SkillsAnalysis,
		Filename: filename,
	})
	st.Resume = res
	st.ResumePath = res.Path
	fmt.Fprintln(out, res.Message)
	c.artifact(ctx, st, db.ArtifactResume, db.CategoryResume, map[string]any{
		"ok":       res.OK,
		"path":     res.Path,
		"message":  res.Message,
		"tailored": res.Tailored,
	})
	c.finish(ctx, st, steps.GeneratePersonalizedResume, started, res.Err)
	c.emitProgress(st, steps.GeneratePersonalizedResume, res.Message, nil)
	if err := st.advance(StageDone); err != nil {
		return nil, err
	}

	// Step 4: finalize
	started = c.begin(ctx, st, steps.FinalizeResults)
	summary := st.Summary()
	if summary.ResumeOK {
		fmt.Fprintln(out, "\nJob search flow completed successfully!")
		fmt.Fprintf(out, "Resume generated: %s\n", summary.ResumePath)
	} else {
		fmt.Fprintln(out, "\nJob search flow completed, but the resume could not be generated.")
	}
	summary.Print(out)
	c.finish(ctx, st, steps.FinalizeResults, started, nil)
	c.warn("complete run", c.recorder().RunFinished(ctx, st.RunID, summary, nil))
	c.emitProgress(st, steps.FinalizeResults, "Run complete", summary)

	return summary, nil
}
