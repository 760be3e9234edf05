package jobboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jonathan/job-search/internal/fetch"
	"github.com/jonathan/job-search/internal/types"
)

// RemoteOKBaseURL is the public RemoteOK JSON feed.
const RemoteOKBaseURL = "https://remoteok.com/api"

// RemoteOK filters the RemoteOK feed locally. The feed only carries remote
// roles, so the location filter is ignored.
type RemoteOK struct {
	opts Options
}

// NewRemoteOK creates a RemoteOK scraper.
func NewRemoteOK(opts Options) *RemoteOK {
	if opts.BaseURL == "" {
		opts.BaseURL = RemoteOKBaseURL
	}
	return &RemoteOK{opts: opts}
}

type remoteOKJob struct {
	Epoch       int64    `json:"epoch"`
	Date        string   `json:"date"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	Location    string   `json:"location"`
	SalaryMin   float64  `json:"salary_min"`
	SalaryMax   float64  `json:"salary_max"`
	URL         string   `json:"url"`
}

// Search downloads the feed once and keeps postings whose position or tags
// mention every word of the search term.
func (s *RemoteOK) Search(ctx context.Context, q Query) ([]types.JobPosting, error) {
	if err := s.opts.wait(ctx); err != nil {
		return nil, err
	}
	res, err := fetch.URL(ctx, s.opts.BaseURL, nil, s.opts.fetchOptions(map[string]string{"Accept": "application/json"}))
	if err != nil {
		return nil, &SiteError{Site: SiteRemoteOK, Cause: err}
	}

	// The first element is a legal notice, not a job.
	var raw []json.RawMessage
	if err := json.Unmarshal(res.Body, &raw); err != nil {
		return nil, &SiteError{Site: SiteRemoteOK, Cause: fmt.Errorf("failed to decode feed: %w", err)}
	}

	cutoff := time.Time{}
	if q.HoursOld > 0 {
		cutoff = s.opts.now().Add(-time.Duration(q.HoursOld) * time.Hour)
	}
	terms := strings.Fields(strings.ToLower(q.SearchTerm))

	var jobs []types.JobPosting
	for _, item := range raw {
		var j remoteOKJob
		if err := json.Unmarshal(item, &j); err != nil || j.Position == "" {
			continue
		}
		posted := postedAt(j)
		if !cutoff.IsZero() && !posted.IsZero() && posted.Before(cutoff) {
			continue
		}
		if !matchesTerms(terms, j) {
			continue
		}
		jobs = append(jobs, s.toPosting(j, posted))
		if len(jobs) == q.ResultsWanted {
			break
		}
	}
	if s.opts.Verbose {
		log.Printf("[SCRAPE] remoteok: %d of %d feed entries matched", len(jobs), len(raw))
	}
	return jobs, nil
}

func (s *RemoteOK) toPosting(j remoteOKJob, posted time.Time) types.JobPosting {
	location := j.Location
	if location == "" {
		location = "Remote"
	}
	job := types.JobPosting{
		Title:       j.Position,
		Company:     j.Company,
		Location:    location,
		JobURL:      j.URL,
		Description: fetch.HTMLText(j.Description),
		Site:        string(SiteRemoteOK),
	}
	if !posted.IsZero() {
		job.DatePosted = posted.Format(time.DateOnly)
	}
	if j.SalaryMin > 0 {
		v := j.SalaryMin
		job.SalaryMin = &v
	}
	if j.SalaryMax > 0 {
		v := j.SalaryMax
		job.SalaryMax = &v
	}
	return job
}

func postedAt(j remoteOKJob) time.Time {
	if j.Epoch > 0 {
		return time.Unix(j.Epoch, 0).UTC()
	}
	if t, err := time.Parse(time.RFC3339, j.Date); err == nil {
		return t
	}
	return time.Time{}
}

func matchesTerms(terms []string, j remoteOKJob) bool {
	haystack := strings.ToLower(j.Position + " " + strings.Join(j.Tags, " "))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}
