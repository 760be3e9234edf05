// Package discovery runs the job search step: it queries the job boards and
// renders the postings as a text digest for the analysis step.
package discovery

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/job-search/internal/jobboard"
	"github.com/jonathan/job-search/internal/types"
)

// NoJobsMessage is the digest returned when the boards find nothing.
const NoJobsMessage = "No jobs found matching the search criteria."

// DescriptionLimit is the number of description characters kept per job.
const DescriptionLimit = 500

const (
	notAvailable = "N/A"
	separator    = "--------------------------------------------------"
)

// Status tags the outcome of a discovery run.
type Status string

// Discovery outcomes.
const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// Outcome is the tagged result of the discovery step. Text always holds a
// printable digest; Err is set only when Status is StatusFailed.
type Outcome struct {
	Status Status
	Text   string
	Jobs   []types.JobPosting
	Err    error
}

// OK reports whether listings were retrieved, even if none matched.
func (o Outcome) OK() bool {
	return o.Status != StatusFailed
}

// Options carries the board-level knobs that are not part of the user's
// search params.
type Options struct {
	HoursOld      int
	CountryIndeed string
	IsRemote      bool
}

// DefaultOptions mirrors the defaults of the board search.
func DefaultOptions() Options {
	return Options{
		HoursOld:      jobboard.DefaultHoursOld,
		CountryIndeed: jobboard.DefaultCountryIndeed,
	}
}

// Run searches for jobs and never returns an error: scraper failures become
// a StatusFailed outcome whose Text explains what went wrong.
func Run(ctx context.Context, scraper jobboard.Scraper, params types.JobSearchParams, opts Options) Outcome {
	q := jobboard.QueryFromParams(params, opts.HoursOld, opts.CountryIndeed, opts.IsRemote)

	jobs, err := scraper.Search(ctx, q)
	if err != nil {
		return Outcome{
			Status: StatusFailed,
			Text:   fmt.Sprintf("Error searching for jobs: %v", err),
			Err:    err,
		}
	}
	if len(jobs) == 0 {
		return Outcome{Status: StatusEmpty, Text: NoJobsMessage, Jobs: []types.JobPosting{}}
	}
	return Outcome{Status: StatusSuccess, Text: FormatDigest(jobs), Jobs: jobs}
}

// FormatDigest renders postings in the digest layout the analysis prompt
// expects.
func FormatDigest(jobs []types.JobPosting) string {
	if len(jobs) == 0 {
		return NoJobsMessage
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d job listings:\n\n", len(jobs))
	for i, job := range jobs {
		fmt.Fprintf(&b, "Job %d:\n", i+1)
		fmt.Fprintf(&b, "Title: %s\n", orNA(job.Title))
		fmt.Fprintf(&b, "Company: %s\n", orNA(job.Company))
		fmt.Fprintf(&b, "Location: %s\n", orNA(job.Location))
		fmt.Fprintf(&b, "Salary: %s\n", salary(job.SalaryMin, job.SalaryMax))
		fmt.Fprintf(&b, "Posted: %s\n", orNA(job.DatePosted))
		fmt.Fprintf(&b, "Description: %s\n", orNA(Truncate(job.Description, DescriptionLimit)))
		fmt.Fprintf(&b, "URL: %s\n", orNA(job.JobURL))
		fmt.Fprintf(&b, "Source: %s\n", orNA(job.Site))
		b.WriteString(separator)
		b.WriteString("\n\n")
	}
	return b.String()
}

// Truncate keeps the first limit characters of s and appends "..." when
// anything was cut. It counts runes, not bytes.
func Truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func salary(lo, hi *float64) string {
	if lo == nil && hi == nil {
		return notAvailable
	}
	return amount(lo) + " - " + amount(hi)
}

func amount(v *float64) string {
	if v == nil {
		return notAvailable
	}
	return "$" + strconv.FormatFloat(*v, 'f', -1, 64)
}
