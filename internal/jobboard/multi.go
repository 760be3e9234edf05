package jobboard

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/job-search/internal/types"
)

// MultiSite searches several boards concurrently and concatenates their
// results in site order. It fails only when every board fails.
type MultiSite struct {
	sites    []Site
	scrapers map[Site]Scraper
	verbose  bool
}

// NewMultiSite builds one scraper per site with shared options. Each board
// gets its own limiter so boards do not pace each other.
func NewMultiSite(sites []Site, opts Options) (*MultiSite, error) {
	m := &MultiSite{scrapers: make(map[Site]Scraper), verbose: opts.Verbose}
	for _, site := range sites {
		siteOpts := opts
		siteOpts.BaseURL = ""
		if opts.Limiter != nil {
			siteOpts.Limiter = DefaultLimiter()
		}
		s, err := New(site, siteOpts)
		if err != nil {
			return nil, err
		}
		m.Add(site, s)
	}
	return m, nil
}

// Add registers a scraper for a site, replacing any existing one.
func (m *MultiSite) Add(site Site, s Scraper) {
	if m.scrapers == nil {
		m.scrapers = make(map[Site]Scraper)
	}
	if _, exists := m.scrapers[site]; !exists {
		m.sites = append(m.sites, site)
	}
	m.scrapers[site] = s
}

// Sites returns the configured sites in search order.
func (m *MultiSite) Sites() []Site {
	return append([]Site(nil), m.sites...)
}

// Search runs the query against every site. Each site contributes at most
// ResultsWanted postings.
func (m *MultiSite) Search(ctx context.Context, q Query) ([]types.JobPosting, error) {
	if len(m.sites) == 0 {
		return nil, errors.New("no job sites configured")
	}

	results := make([][]types.JobPosting, len(m.sites))
	errs := make([]error, len(m.sites))

	var g errgroup.Group
	for i, site := range m.sites {
		scraper := m.scrapers[site]
		g.Go(func() error {
			jobs, err := scraper.Search(ctx, q)
			if err != nil {
				var siteErr *SiteError
				if !errors.As(err, &siteErr) {
					err = &SiteError{Site: site, Cause: err}
				}
				errs[i] = err
				return nil
			}
			if len(jobs) > q.ResultsWanted {
				jobs = jobs[:q.ResultsWanted]
			}
			results[i] = jobs
			return nil
		})
	}
	_ = g.Wait()

	var all []types.JobPosting
	failed := 0
	for i, site := range m.sites {
		if errs[i] != nil {
			failed++
			log.Printf("[SCRAPE] %s failed: %v", site, errs[i])
			continue
		}
		if m.verbose {
			log.Printf("[SCRAPE] %s returned %d postings", site, len(results[i]))
		}
		all = append(all, results[i]...)
	}
	if failed == len(m.sites) {
		return nil, fmt.Errorf("all job sites failed: %w", errors.Join(errs...))
	}
	if all == nil {
		all = []types.JobPosting{}
	}
	return all, nil
}
