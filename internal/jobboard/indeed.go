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

const (
	indeedPageSize = 10
	indeedMaxPages = 10
	// indeedRemoteFilter is the attribute filter behind the "Remote" chip.
	indeedRemoteFilter = "0kf:attr(DSQF7);"
)

var indeedDomains = map[string]string{
	"usa":         "www.indeed.com",
	"us":          "www.indeed.com",
	"uk":          "uk.indeed.com",
	"canada":      "ca.indeed.com",
	"germany":     "de.indeed.com",
	"france":      "fr.indeed.com",
	"india":       "in.indeed.com",
	"australia":   "au.indeed.com",
	"ireland":     "ie.indeed.com",
	"netherlands": "nl.indeed.com",
	"spain":       "es.indeed.com",
	"singapore":   "sg.indeed.com",
}

// IndeedHost returns the Indeed domain for a country name, defaulting to the US site.
func IndeedHost(country string) string {
	if host, ok := indeedDomains[strings.ToLower(strings.TrimSpace(country))]; ok {
		return host
	}
	return indeedDomains["usa"]
}

// Indeed scrapes Indeed search result pages.
type Indeed struct {
	opts Options
}

// NewIndeed creates an Indeed scraper.
func NewIndeed(opts Options) *Indeed {
	return &Indeed{opts: opts}
}

// Search walks result pages until ResultsWanted postings are collected.
func (s *Indeed) Search(ctx context.Context, q Query) ([]types.JobPosting, error) {
	base := s.opts.BaseURL
	if base == "" {
		base = "https://" + IndeedHost(q.CountryIndeed) + "/jobs"
	}
	origin := listingOrigin(base)

	var jobs []types.JobPosting
	seen := make(map[string]bool)
	for page := 0; page < indeedMaxPages && len(jobs) < q.ResultsWanted; page++ {
		if err := s.opts.wait(ctx); err != nil {
			return jobs, err
		}
		doc, err := s.page(ctx, base, s.params(q, page*indeedPageSize))
		if err != nil {
			if len(jobs) > 0 {
				log.Printf("[SCRAPE] indeed: stopping after page %d: %v", page, err)
				break
			}
			return nil, &SiteError{Site: SiteIndeed, Cause: err}
		}

		cards := parseIndeedCards(doc, origin, s.opts)
		if s.opts.Verbose {
			log.Printf("[SCRAPE] indeed: page %d returned %d cards", page, len(cards))
		}
		added := 0
		for _, job := range cards {
			if seen[job.JobURL] {
				continue
			}
			seen[job.JobURL] = true
			jobs = append(jobs, job)
			added++
			if len(jobs) == q.ResultsWanted {
				break
			}
		}
		// Indeed repeats the last page when paging past the end.
		if added == 0 {
			break
		}
	}
	return jobs, nil
}

func (s *Indeed) page(ctx context.Context, base string, params url.Values) (*goquery.Document, error) {
	if !s.opts.UseBrowser {
		return fetch.Document(ctx, base, params, s.opts.fetchOptions(nil))
	}
	html, err := fetch.Rendered(ctx, base+"?"+params.Encode(), "#mosaic-provider-jobcards", 0, s.opts.Verbose)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered HTML: %w", err)
	}
	return doc, nil
}

func (s *Indeed) params(q Query, start int) url.Values {
	v := url.Values{}
	v.Set("q", q.SearchTerm)
	v.Set("l", q.Location)
	v.Set("start", strconv.Itoa(start))
	if q.HoursOld > 0 {
		days := (q.HoursOld + 23) / 24
		v.Set("fromage", strconv.Itoa(days))
	}
	if q.IsRemote {
		v.Set("sc", indeedRemoteFilter)
	}
	return v
}

func parseIndeedCards(doc *goquery.Document, origin string, opts Options) []types.JobPosting {
	var jobs []types.JobPosting
	doc.Find("div.job_seen_beacon").Each(func(_ int, card *goquery.Selection) {
		link := card.Find("h2.jobTitle a").First()
		title := fetch.SelectionText(link.Find("span[title]"))
		if title == "" {
			title = fetch.SelectionText(card.Find("h2.jobTitle"))
		}
		if title == "" {
			return
		}

		jobURL := ""
		if jk, ok := link.Attr("data-jk"); ok && jk != "" {
			jobURL = origin + "/viewjob?jk=" + jk
		} else if href, ok := link.Attr("href"); ok {
			jobURL = resolve(origin, href)
		}

		snippet := card.Find("[data-testid='jobsnippet_footer'], .job-snippet").First()
		snippetHTML, _ := snippet.Html()
		salary := card.Find("[data-testid='attribute_snippet_testid'], .salary-snippet-container").First().Text()

		job := types.JobPosting{
			Title:       title,
			Company:     fetch.SelectionText(card.Find("[data-testid='company-name']")),
			Location:    fetch.SelectionText(card.Find("[data-testid='text-location']")),
			JobURL:      jobURL,
			Description: fetch.HTMLText(snippetHTML),
			DatePosted:  RelativeDate(opts.now(), card.Find("[data-testid='myJobsStateDate'], span.date").First().Text()),
			Site:        string(SiteIndeed),
		}
		if strings.Contains(salary, "$") {
			job.SalaryMin, job.SalaryMax = ParseSalary(salary)
		}
		jobs = append(jobs, job)
	})
	return jobs
}

// listingOrigin returns scheme://host of a search URL.
func listingOrigin(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return strings.TrimSuffix(base, "/jobs")
	}
	return u.Scheme + "://" + u.Host
}

func resolve(origin, href string) string {
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return origin + href
}
