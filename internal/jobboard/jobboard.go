// Package jobboard scrapes job listings from public job boards. Each board is
// a Scraper; MultiSite fans a query out to several boards and Cached puts a
// TTL cache in front of any Scraper.
package jobboard

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonathan/job-search/internal/fetch"
	"github.com/jonathan/job-search/internal/types"
)

// Site names a supported job board.
type Site string

// Supported job boards.
const (
	SiteIndeed   Site = "indeed"
	SiteLinkedIn Site = "linkedin"
	SiteRemoteOK Site = "remoteok"
)

// DefaultHoursOld limits results to postings from the last three days.
const DefaultHoursOld = 72

// DefaultCountryIndeed selects the US Indeed domain.
const DefaultCountryIndeed = "USA"

// Scraper returns job postings matching a query.
type Scraper interface {
	Search(ctx context.Context, q Query) ([]types.JobPosting, error)
}

// Query is one job search as sent to the boards.
type Query struct {
	SearchTerm    string
	Location      string
	ResultsWanted int
	HoursOld      int
	CountryIndeed string
	IsRemote      bool
}

// QueryFromParams builds a Query from validated search params and the
// board-level knobs from application config.
func QueryFromParams(p types.JobSearchParams, hoursOld int, country string, remote bool) Query {
	if country == "" {
		country = DefaultCountryIndeed
	}
	return Query{
		SearchTerm:    p.SearchTerm,
		Location:      p.Location,
		ResultsWanted: p.ResultsWanted,
		HoursOld:      hoursOld,
		CountryIndeed: country,
		IsRemote:      remote || strings.EqualFold(strings.TrimSpace(p.Location), "remote"),
	}
}

// SiteError reports a failure of a single board.
type SiteError struct {
	Site  Site
	Cause error
}

func (e *SiteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Site, e.Cause)
}

func (e *SiteError) Unwrap() error {
	return e.Cause
}

// Options configures a board scraper.
type Options struct {
	// BaseURL overrides the board endpoint; tests point it at httptest servers.
	BaseURL    string
	HTTPClient *http.Client
	// Limiter paces page requests to the board. Nil means unpaced.
	Limiter    *rate.Limiter
	UseBrowser bool
	Verbose    bool
	Now        func() time.Time
}

// DefaultLimiter allows one request every two seconds with a small burst.
func DefaultLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Every(2*time.Second), 2)
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o Options) fetchOptions(headers map[string]string) *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Client = o.HTTPClient
	opts.Headers = headers
	return opts
}

func (o Options) wait(ctx context.Context) error {
	if o.Limiter == nil {
		return nil
	}
	return o.Limiter.Wait(ctx)
}

// New returns the scraper for a board.
func New(site Site, opts Options) (Scraper, error) {
	switch site {
	case SiteIndeed:
		return NewIndeed(opts), nil
	case SiteLinkedIn:
		return NewLinkedIn(opts), nil
	case SiteRemoteOK:
		return NewRemoteOK(opts), nil
	default:
		return nil, fmt.Errorf("unsupported job site: %s", site)
	}
}

// SupportedSites lists every board New accepts.
func SupportedSites() []Site {
	return []Site{SiteIndeed, SiteLinkedIn, SiteRemoteOK}
}

// ParseSites converts configured names into Sites, rejecting unknown ones.
func ParseSites(names []string) ([]Site, error) {
	sites := make([]Site, 0, len(names))
	seen := make(map[Site]bool)
	for _, name := range names {
		site := Site(strings.ToLower(strings.TrimSpace(name)))
		if site == "" || seen[site] {
			continue
		}
		if _, err := New(site, Options{}); err != nil {
			return nil, err
		}
		seen[site] = true
		sites = append(sites, site)
	}
	if len(sites) == 0 {
		return nil, fmt.Errorf("no job sites configured")
	}
	return sites, nil
}
