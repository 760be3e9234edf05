package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/llm"
	"github.com/jonathan/job-search/internal/prompts"
	"github.com/jonathan/job-search/internal/types"
)

// Prompt keys in prompts.AnalysisFile.
const (
	promptSystem      = "system"
	promptSkillsGap   = "skills-gap"
	promptProfileOnly = "profile-only"
)

const analysisTemperature = 0.4

// Input is everything the analysis step reads from the pipeline state.
type Input struct {
	Profile   types.UserProfile
	Params    types.JobSearchParams
	Discovery discovery.Outcome
}

// Analyzer produces the skills-gap analysis text.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (string, error)
}

// LLMAnalyzer asks a language model for the analysis, seeding the prompt
// with the keyword scan.
type LLMAnalyzer struct {
	client llm.Client
}

// NewLLMAnalyzer creates an analyzer backed by client.
func NewLLMAnalyzer(client llm.Client) *LLMAnalyzer {
	return &LLMAnalyzer{client: client}
}

// Analyze builds the prompt and calls the model. A failed discovery switches
// to the profile-only prompt instead of passing the error text off as listings.
func (a *LLMAnalyzer) Analyze(ctx context.Context, in Input) (string, error) {
	prompt, err := BuildPrompt(in)
	if err != nil {
		return "", &Error{Message: "failed to build analysis prompt", Cause: err}
	}
	system, err := prompts.Get(prompts.AnalysisFile, promptSystem)
	if err != nil {
		return "", &Error{Message: "failed to load analysis prompt", Cause: err}
	}

	text, err := a.client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		Tier:        llm.TierAdvanced,
		Temperature: analysisTemperature,
	})
	if err != nil {
		return "", &Error{Message: "skills-gap analysis failed", Cause: err}
	}
	text = llm.StripCodeFence(text)
	if text == "" {
		return "", &Error{Message: "skills-gap analysis returned no text"}
	}
	return text, nil
}

// BuildPrompt renders the analysis prompt for in.
func BuildPrompt(in Input) (string, error) {
	p := in.Profile
	data := map[string]string{
		"Name":           p.Name,
		"Summary":        orDefault(types.Deref(p.Summary), "(not provided)"),
		"Skills":         types.JoinOr(p.Skills, "(none listed)"),
		"Certifications": types.JoinOr(p.Certifications, "(none)"),
		"Experience":     p.ExperienceText(),
		"Education":      p.EducationText(),
		"SearchTerm":     in.Params.SearchTerm,
		"Location":       in.Params.Location,
		"FineTune":       orDefault(types.Deref(in.Params.FineTuneSearchString), "(none)"),
	}

	if !in.Discovery.OK() {
		data["DiscoveryError"] = errorText(in.Discovery)
		return prompts.Render(prompts.AnalysisFile, promptProfileOnly, data)
	}

	report := KeywordMatch(p, in.Discovery.Jobs)
	data["JobListings"] = in.Discovery.Text
	data["Matching"] = hitList(report.Matching, "(none)")
	data["Missing"] = hitList(report.Missing, "(none)")
	return prompts.Render(prompts.AnalysisFile, promptSkillsGap, data)
}

// OfflineAnalyzer renders the keyword scan as the analysis. It needs no
// model and is used when no API key is configured.
type OfflineAnalyzer struct{}

// Analyze implements Analyzer.
func (OfflineAnalyzer) Analyze(_ context.Context, in Input) (string, error) {
	return RenderReport(in), nil
}

// RenderReport formats the keyword scan as a readable analysis.
func RenderReport(in Input) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Skills-Gap Analysis for %s\n", in.Profile.Name)
	fmt.Fprintf(&b, "Target: %s (%s)\n\n", in.Params.SearchTerm, in.Params.Location)

	if !in.Discovery.OK() {
		fmt.Fprintf(&b, "Job listings unavailable: %s\n", errorText(in.Discovery))
		fmt.Fprintf(&b, "Profile skills: %s\n", types.JoinOr(in.Profile.Skills, "(none listed)"))
		return b.String()
	}

	report := KeywordMatch(in.Profile, in.Discovery.Jobs)
	fmt.Fprintf(&b, "Listings analyzed: %d\n", report.Listings)
	if report.Listings == 0 {
		b.WriteString(discovery.NoJobsMessage + "\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Profile match score: %d%%\n", int(math.Round(report.Score*100)))

	b.WriteString("\nMatching skills:\n")
	writeHits(&b, report.Matching, report.Listings)
	b.WriteString("\nSkills to develop:\n")
	writeHits(&b, report.Missing, report.Listings)
	if len(report.Unused) > 0 {
		fmt.Fprintf(&b, "\nNot mentioned by any listing: %s\n", strings.Join(report.Unused, ", "))
	}
	if ft := types.Deref(in.Params.FineTuneSearchString); ft != "" {
		fmt.Fprintf(&b, "\nAdditional focus: %s\n", ft)
	}
	return b.String()
}

func writeHits(b *strings.Builder, hits []SkillHit, total int) {
	if len(hits) == 0 {
		b.WriteString("- (none)\n")
		return
	}
	for _, h := range hits {
		fmt.Fprintf(b, "- %s (%d of %d listings)\n", h.Skill, h.Listings, total)
	}
}

func hitList(hits []SkillHit, fallback string) string {
	if len(hits) == 0 {
		return fallback
	}
	parts := make([]string, len(hits))
	for i, h := range hits {
		parts[i] = fmt.Sprintf("%s (%d)", h.Skill, h.Listings)
	}
	return strings.Join(parts, ", ")
}

func errorText(o discovery.Outcome) string {
	if o.Err != nil {
		return o.Err.Error()
	}
	return o.Text
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
