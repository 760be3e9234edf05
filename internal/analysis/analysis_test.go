package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/llm"
	"github.com/jonathan/job-search/internal/types"
)

type fakeClient struct {
	reply string
	err   error
	got   llm.Request
}

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	f.got = req
	return f.reply, f.err
}

func (f *fakeClient) GetModel(llm.ModelTier) string { return "fake" }
func (f *fakeClient) Close() error                  { return nil }

func testProfile() types.UserProfile {
	p := types.UserProfile{
		Name:   "Jane Smith",
		Email:  "jane@example.com",
		Skills: []string{"Golang", "PostgreSQL", "Figma"},
		Experience: []types.Experience{{
			Title: "Backend Engineer", Company: "Acme", Duration: "2020-2024", Description: "APIs",
			Projects: []types.Project{{Name: "Billing", Description: "Payments", Technologies: []string{"Kafka", "go"}}},
		}},
	}
	p.Normalize()
	return p
}

func testJobs() []types.JobPosting {
	return []types.JobPosting{
		{Title: "Senior Go Engineer", Description: "Go, Kubernetes and Postgres. Kafka a plus."},
		{Title: "Platform Engineer", Description: "Kubernetes, Terraform, AWS. Some golang."},
		{Title: "C++ Developer", Description: "Modern C++ on Linux."},
	}
}

func TestKeywordMatch(t *testing.T) {
	report := KeywordMatch(testProfile(), testJobs())

	assert.Equal(t, 3, report.Listings)
	assert.Equal(t, []SkillHit{
		{Skill: "Go", Listings: 2},
		{Skill: "Kafka", Listings: 1},
		{Skill: "PostgreSQL", Listings: 1},
	}, report.Matching)
	assert.Equal(t, []string{"Figma"}, report.Unused)
	assert.InDelta(t, 0.75, report.Score, 0.001)

	require.NotEmpty(t, report.Missing)
	assert.Equal(t, SkillHit{Skill: "Kubernetes", Listings: 2}, report.Missing[0])
	assert.Contains(t, report.Missing, SkillHit{Skill: "C++", Listings: 1})
	assert.Contains(t, report.Missing, SkillHit{Skill: "Terraform", Listings: 1})
	assert.NotContains(t, report.Missing, SkillHit{Skill: "Go", Listings: 2})
}

func TestKeywordMatch_NoJobs(t *testing.T) {
	report := KeywordMatch(testProfile(), nil)

	assert.Zero(t, report.Listings)
	assert.Empty(t, report.Matching)
	assert.Empty(t, report.Missing)
	assert.Zero(t, report.Score)
}

func TestKeywordMatch_WordBoundaries(t *testing.T) {
	p := types.UserProfile{Skills: []string{"C", "Go"}}
	jobs := []types.JobPosting{{Description: "C++ and C# on Google Cloud"}}

	report := KeywordMatch(p, jobs)
	assert.Empty(t, report.Matching)
}

func TestNormalizeSkill(t *testing.T) {
	assert.Equal(t, "Go", NormalizeSkill(" golang "))
	assert.Equal(t, "Kubernetes", NormalizeSkill("K8s"))
	assert.Equal(t, "Elixir", NormalizeSkill("Elixir"))
}

func successInput() Input {
	jobs := testJobs()
	return Input{
		Profile:   testProfile(),
		Params:    types.JobSearchParams{SearchTerm: "Go Engineer", Location: "Remote", ResultsWanted: 10, FineTuneSearchString: types.Str("fintech only")},
		Discovery: discovery.Outcome{Status: discovery.StatusSuccess, Text: discovery.FormatDigest(jobs), Jobs: jobs},
	}
}

func TestLLMAnalyzer_UsesListingsPrompt(t *testing.T) {
	client := &fakeClient{reply: "```markdown\n## Gap\n- Kubernetes\n```"}

	out, err := NewLLMAnalyzer(client).Analyze(context.Background(), successInput())
	require.NoError(t, err)
	assert.Equal(t, "## Gap\n- Kubernetes", out)

	assert.Equal(t, llm.TierAdvanced, client.got.Tier)
	assert.NotEmpty(t, client.got.System)
	assert.Contains(t, client.got.Prompt, "Found 3 job listings")
	assert.Contains(t, client.got.Prompt, "fintech only")
	assert.Contains(t, client.got.Prompt, "Kubernetes (2)")
	assert.Contains(t, client.got.Prompt, "Backend Engineer at Acme")
	assert.NotContains(t, client.got.Prompt, "{{.")
}

func TestLLMAnalyzer_FailedDiscoveryUsesProfileOnlyPrompt(t *testing.T) {
	client := &fakeClient{reply: "analysis"}
	in := successInput()
	in.Discovery = discovery.Outcome{
		Status: discovery.StatusFailed,
		Text:   "Error searching for jobs: blocked",
		Err:    errors.New("blocked"),
	}

	_, err := NewLLMAnalyzer(client).Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, client.got.Prompt, "could not be retrieved (blocked)")
	assert.NotContains(t, client.got.Prompt, "JOB LISTINGS")
}

func TestLLMAnalyzer_EmptyDiscoveryStillUsesListingsPrompt(t *testing.T) {
	client := &fakeClient{reply: "analysis"}
	in := successInput()
	in.Discovery = discovery.Outcome{Status: discovery.StatusEmpty, Text: discovery.NoJobsMessage}

	_, err := NewLLMAnalyzer(client).Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, client.got.Prompt, discovery.NoJobsMessage)
}

func TestLLMAnalyzer_Errors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewLLMAnalyzer(&fakeClient{err: boom}).Analyze(context.Background(), successInput())
	require.Error(t, err)
	var aErr *Error
	require.ErrorAs(t, err, &aErr)
	assert.ErrorIs(t, err, boom)

	_, err = NewLLMAnalyzer(&fakeClient{reply: "   "}).Analyze(context.Background(), successInput())
	assert.ErrorContains(t, err, "no text")
}

func TestOfflineAnalyzer(t *testing.T) {
	out, err := OfflineAnalyzer{}.Analyze(context.Background(), successInput())
	require.NoError(t, err)

	assert.Contains(t, out, "Skills-Gap Analysis for Jane Smith")
	assert.Contains(t, out, "Listings analyzed: 3")
	assert.Contains(t, out, "Profile match score: 75%")
	assert.Contains(t, out, "- Go (2 of 3 listings)")
	assert.Contains(t, out, "- Kubernetes (2 of 3 listings)")
	assert.Contains(t, out, "Not mentioned by any listing: Figma")
	assert.Contains(t, out, "Additional focus: fintech only")
}

func TestOfflineAnalyzer_DegradedInputs(t *testing.T) {
	in := successInput()
	in.Discovery = discovery.Outcome{Status: discovery.StatusEmpty, Text: discovery.NoJobsMessage}
	out, err := OfflineAnalyzer{}.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, out, discovery.NoJobsMessage)

	in.Discovery = discovery.Outcome{Status: discovery.StatusFailed, Err: errors.New("timeout")}
	out, err = OfflineAnalyzer{}.Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Contains(t, out, "Job listings unavailable: timeout")
}

func TestBuildPrompt_ListingWithTemplateText(t *testing.T) {
	jobs := []types.JobPosting{{
		Title:       "Go Engineer",
		Description: "Templates like {{.Title}} and {{.Summary}} in Go html/template",
	}}
	in := successInput()
	in.Discovery = discovery.Outcome{Status: discovery.StatusSuccess, Text: discovery.FormatDigest(jobs), Jobs: jobs}

	prompt, err := BuildPrompt(in)
	require.NoError(t, err)
	assert.Contains(t, prompt, "Templates like {{.Title}} and {{.Summary}} in Go html/template")

	client := &fakeClient{reply: "analysis"}
	out, err := NewLLMAnalyzer(client).Analyze(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "analysis", out)
}
