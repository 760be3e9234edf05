package jobboard

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/job-search/internal/fetch"
	"github.com/jonathan/job-search/internal/types"
)

// LinkedInBaseURL is the public guest endpoint behind the jobs search page.
const LinkedInBaseURL = "https://www.linkedin.com/jobs-guest/jobs/api/seeMoreJobPostings/search"

const (
	linkedInPageSize = 25
	linkedInMaxPages = 10
)

// LinkedIn scrapes the LinkedIn guest job search.
type LinkedIn struct {
	opts Options
}

// NewLinkedIn creates a LinkedIn scraper.
func NewLinkedIn(opts Options) *LinkedIn {
	if opts.BaseURL == "" {
		opts.BaseURL = LinkedInBaseURL
	}
	return &LinkedIn{opts: opts}
}

// Search pages through results until ResultsWanted cards are collected or a
// page comes back empty.
func (s *LinkedIn) Search(ctx context.Context, q Query) ([]types.JobPosting, error) {
	var jobs []types.JobPosting
	seen := make(map[string]bool)

	for page := 0; page < linkedInMaxPages && len(jobs) < q.ResultsWanted; page++ {
		if err := s.opts.wait(ctx); err != nil {
			return jobs, err
		}
		doc, err := fetch.Document(ctx, s.opts.BaseURL, s.params(q, page*linkedInPageSize), s.opts.fetchOptions(nil))
		if err != nil {
			if len(jobs) > 0 {
				log.Printf("[SCRAPE] linkedin: stopping after page %d: %v", page, err)
				break
			}
			return nil, &SiteError{Site: SiteLinkedIn, Cause: err}
		}

		cards := parseLinkedInCards(doc)
		if s.opts.Verbose {
			log.Printf("[SCRAPE] linkedin: page %d returned %d cards", page, len(cards))
		}
		if len(cards) == 0 {
			break
		}
		for _, job := range cards {
			if seen[job.JobURL] {
				continue
			}
			seen[job.JobURL] = true
			jobs = append(jobs, job)
			if len(jobs) == q.ResultsWanted {
				break
			}
		}
	}
	return jobs, nil
}

func (s *LinkedIn) params(q Query, start int) url.Values {
	v := url.Values{}
	v.Set("keywords", q.SearchTerm)
	v.Set("location", q.Location)
	v.Set("start", strconv.Itoa(start))
	if q.HoursOld > 0 {
		v.Set("f_TPR", fmt.Sprintf("r%d", q.HoursOld*3600))
	}
	if q.IsRemote {
		v.Set("f_WT", "2")
	}
	return v
}

func parseLinkedInCards(doc *goquery.Document) []types.JobPosting {
	var jobs []types.JobPosting
	doc.Find("div.base-search-card").Each(func(_ int, card *goquery.Selection) {
		title := fetch.SelectionText(card.Find(".base-search-card__title"))
		if title == "" {
			return
		}
		href, _ := card.Find("a.base-card__full-link").Attr("href")
		posted, _ := card.Find("time").Attr("datetime")
		job := types.JobPosting{
			Title:      title,
			Company:    fetch.SelectionText(card.Find(".base-search-card__subtitle")),
			Location:   fetch.SelectionText(card.Find(".job-search-card__location")),
			JobURL:     stripQuery(href),
			DatePosted: posted,
			Site:       string(SiteLinkedIn),
		}
		job.SalaryMin, job.SalaryMax = ParseSalary(card.Find(".job-search-card__salary-info").Text())
		jobs = append(jobs, job)
	})
	return jobs
}

// stripQuery drops tracking parameters from a listing URL.
func stripQuery(raw string) string {
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		return raw[:i]
	}
	return raw
}
