package jobboard

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

const linkedInPage = `
<li><div class="base-card base-search-card">
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/go-engineer-1?refId=abc&trackingId=x"></a>
  <h3 class="base-search-card__title">
     Go Engineer
  </h3>
  <h4 class="base-search-card__subtitle"><a>Acme Corp</a></h4>
  <span class="job-search-card__location">Remote</span>
  <span class="job-search-card__salary-info">$120,000 - $150,000</span>
  <time datetime="2024-05-09">1 day ago</time>
</div></li>
<li><div class="base-card base-search-card">
  <a class="base-card__full-link" href="https://www.linkedin.com/jobs/view/backend-2"></a>
  <h3 class="base-search-card__title">Backend Developer</h3>
  <h4 class="base-search-card__subtitle">Globex</h4>
  <span class="job-search-card__location">Austin, TX</span>
  <time datetime="2024-05-08">2 days ago</time>
</div></li>`

func TestLinkedIn_Search(t *testing.T) {
	var firstQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("start") == "0" {
			firstQuery = map[string]string{
				"keywords": q.Get("keywords"),
				"location": q.Get("location"),
				"f_TPR":    q.Get("f_TPR"),
				"f_WT":     q.Get("f_WT"),
			}
			_, _ = w.Write([]byte(linkedInPage))
			return
		}
		_, _ = w.Write([]byte(""))
	}))
	defer server.Close()

	s := NewLinkedIn(Options{BaseURL: server.URL})
	jobs, err := s.Search(context.Background(), Query{
		SearchTerm: "golang", Location: "Remote", ResultsWanted: 5, HoursOld: 72, IsRemote: true,
	})
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	assert.Equal(t, map[string]string{
		"keywords": "golang", "location": "Remote", "f_TPR": "r259200", "f_WT": "2",
	}, firstQuery)

	assert.Equal(t, "Go Engineer", jobs[0].Title)
	assert.Equal(t, "Acme Corp", jobs[0].Company)
	assert.Equal(t, "https://www.linkedin.com/jobs/view/go-engineer-1", jobs[0].JobURL)
	assert.Equal(t, "2024-05-09", jobs[0].DatePosted)
	assert.Equal(t, "linkedin", jobs[0].Site)
	require.NotNil(t, jobs[0].SalaryMin)
	assert.InDelta(t, 120000, *jobs[0].SalaryMin, 0.01)
	assert.InDelta(t, 150000, *jobs[0].SalaryMax, 0.01)
	assert.Nil(t, jobs[1].SalaryMin)
}

func TestLinkedIn_StopsAtResultsWanted(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(linkedInPage))
	}))
	defer server.Close()

	jobs, err := NewLinkedIn(Options{BaseURL: server.URL}).Search(context.Background(), Query{SearchTerm: "go", ResultsWanted: 1})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestLinkedIn_FirstPageErrorIsSiteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := NewLinkedIn(Options{BaseURL: server.URL}).Search(context.Background(), Query{SearchTerm: "go", ResultsWanted: 5})
	require.Error(t, err)
	var siteErr *SiteError
	require.ErrorAs(t, err, &siteErr)
	assert.Equal(t, SiteLinkedIn, siteErr.Site)
}

const indeedPage = `
<div id="mosaic-provider-jobcards">
 <div class="job_seen_beacon">
  <h2 class="jobTitle"><a data-jk="abc123" href="/rc/clk?jk=abc123"><span title="Data Scientist">Data Scientist</span></a></h2>
  <span data-testid="company-name">Initech</span>
  <div data-testid="text-location">New York, NY</div>
  <div data-testid="attribute_snippet_testid">$90K - $110K a year</div>
  <div data-testid="jobsnippet_footer"><ul><li>Build models in Python</li><li>Own SQL pipelines</li></ul></div>
  <span data-testid="myJobsStateDate">Posted 3 days ago</span>
 </div>
 <div class="job_seen_beacon">
  <h2 class="jobTitle"><a href="/viewjob?jk=def456"><span title="ML Engineer">ML Engineer</span></a></h2>
  <span data-testid="company-name">Hooli</span>
  <div data-testid="text-location">Remote</div>
  <div data-testid="attribute_snippet_testid">Full-time</div>
  <span data-testid="myJobsStateDate">Just posted</span>
 </div>
</div>`

func TestIndeed_Search(t *testing.T) {
	var gotFromage string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("start") == "0" {
			gotFromage = r.URL.Query().Get("fromage")
		}
		_, _ = w.Write([]byte(indeedPage))
	}))
	defer server.Close()

	s := NewIndeed(Options{BaseURL: server.URL + "/jobs", Now: func() time.Time { return fixedNow }})
	jobs, err := s.Search(context.Background(), Query{SearchTerm: "data scientist", Location: "New York", ResultsWanted: 10, HoursOld: 72})
	require.NoError(t, err)
	require.Len(t, jobs, 2, "repeated page must not duplicate postings")
	assert.Equal(t, "3", gotFromage)

	first := jobs[0]
	assert.Equal(t, "Data Scientist", first.Title)
	assert.Equal(t, "Initech", first.Company)
	assert.Equal(t, "New York, NY", first.Location)
	assert.Equal(t, server.URL+"/viewjob?jk=abc123", first.JobURL)
	assert.Equal(t, "Build models in Python\nOwn SQL pipelines", first.Description)
	assert.Equal(t, "2024-05-07", first.DatePosted)
	require.NotNil(t, first.SalaryMin)
	assert.InDelta(t, 90000, *first.SalaryMin, 0.01)
	assert.InDelta(t, 110000, *first.SalaryMax, 0.01)

	second := jobs[1]
	assert.Equal(t, server.URL+"/viewjob?jk=def456", second.JobURL)
	assert.Equal(t, "2024-05-10", second.DatePosted)
	assert.Nil(t, second.SalaryMin)
}

func TestIndeedHost(t *testing.T) {
	assert.Equal(t, "www.indeed.com", IndeedHost("USA"))
	assert.Equal(t, "uk.indeed.com", IndeedHost(" UK "))
	assert.Equal(t, "www.indeed.com", IndeedHost("atlantis"))
}

func TestRemoteOK_Search(t *testing.T) {
	recent := fixedNow.Add(-24 * time.Hour).Unix()
	stale := fixedNow.Add(-10 * 24 * time.Hour).Unix()
	feed := fmt.Sprintf(`[
		{"legal": "API Terms of Service"},
		{"id": "1", "epoch": %d, "company": "Basecamp", "position": "Senior Go Developer", "tags": ["golang", "backend"],
		 "description": "<p>Write <b>Go</b> services</p>", "location": "", "salary_min": 100000, "salary_max": 140000,
		 "url": "https://remoteok.com/remote-jobs/1"},
		{"id": "2", "epoch": %d, "company": "Old Co", "position": "Go Developer", "tags": [], "url": "https://remoteok.com/remote-jobs/2"},
		{"id": "3", "epoch": %d, "company": "Design Co", "position": "Product Designer", "tags": ["figma"], "url": "https://remoteok.com/remote-jobs/3"}
	]`, recent, stale, recent)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(feed))
	}))
	defer server.Close()

	s := NewRemoteOK(Options{BaseURL: server.URL, Now: func() time.Time { return fixedNow }})
	jobs, err := s.Search(context.Background(), Query{SearchTerm: "Go Developer", ResultsWanted: 10, HoursOld: 72})
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	job := jobs[0]
	assert.Equal(t, "Senior Go Developer", job.Title)
	assert.Equal(t, "Remote", job.Location)
	assert.Equal(t, "Write Go services", job.Description)
	assert.Equal(t, "2024-05-09", job.DatePosted)
	assert.Equal(t, "remoteok", job.Site)
	require.NotNil(t, job.SalaryMax)
	assert.InDelta(t, 140000, *job.SalaryMax, 0.01)
}

func TestRemoteOK_BadFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>blocked</html>"))
	}))
	defer server.Close()

	_, err := NewRemoteOK(Options{BaseURL: server.URL}).Search(context.Background(), Query{SearchTerm: "go", ResultsWanted: 5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode feed")
}
