package resume

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/job-search/internal/llm"
	"github.com/jonathan/job-search/internal/prompts"
	"github.com/jonathan/job-search/internal/types"
)

// DefaultFilename is the resume written when no output is configured.
const DefaultFilename = "personalized_resume.docx"

// Prompt keys in prompts.ResumeFile.
const (
	promptSystem        = "system"
	promptTailorSummary = "tailor-summary"
)

const (
	tailorTemperature = 0.5
	// maxSummaryRunes rejects rambling model output in favor of the profile summary.
	maxSummaryRunes = 1200
)

// Input is what the generation step reads from the pipeline state.
type Input struct {
	Profile  types.UserProfile
	Params   types.JobSearchParams
	Analysis string
	Filename string
}

// Outcome is the tagged result of resume generation. Message is always a
// printable sentence; Err is set when OK is false.
type Outcome struct {
	OK       bool
	Path     string
	Message  string
	Tailored bool
	Err      error
}

// Generator writes resumes. With a Client it first rewrites the summary to
// target the search; without one it uses the profile summary as is.
type Generator struct {
	Client llm.Client
	// Dir is where resumes are written. Empty means the working directory.
	Dir     string
	Verbose bool
}

// Generate builds and writes the resume. It never returns an error: failures
// become an Outcome with OK false and an explanatory Message.
func (g *Generator) Generate(ctx context.Context, in Input) Outcome {
	filename := in.Filename
	if filename == "" {
		filename = DefaultFilename
	}
	if filepath.Base(filename) != filename {
		return failed(fmt.Errorf("output %q must be a file name, not a path", filename))
	}

	writer, err := WriterFor(filename)
	if err != nil {
		return failed(err)
	}

	summary, tailored := g.tailorSummary(ctx, in)
	doc := Build(in.Profile, summary)

	path := filepath.Join(g.Dir, filename)
	if err := writeFile(path, writer, doc); err != nil {
		return failed(err)
	}

	where := "in the current directory"
	if g.Dir != "" {
		where = "in " + g.Dir
	}
	msg := fmt.Sprintf("Resume successfully generated and saved as '%s' %s.", filename, where)
	if tailored {
		msg += " The resume has been tailored based on the job requirements analysis."
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return Outcome{OK: true, Path: abs, Message: msg, Tailored: tailored}
}

func failed(err error) Outcome {
	return Outcome{Message: fmt.Sprintf("Error generating resume: %v", err), Err: err}
}

// tailorSummary asks the model for a targeted summary. Any failure falls
// back to the profile summary.
func (g *Generator) tailorSummary(ctx context.Context, in Input) (string, bool) {
	if g.Client == nil || strings.TrimSpace(in.Analysis) == "" {
		return "", false
	}
	p := in.Profile
	prompt, err := prompts.Render(prompts.ResumeFile, promptTailorSummary, map[string]string{
		"Name":       p.Name,
		"SearchTerm": in.Params.SearchTerm,
		"Summary":    types.Deref(p.Summary),
		"Skills":     types.JoinOr(p.Skills, "(none listed)"),
		"Experience": p.ExperienceText(),
		"Analysis":   in.Analysis,
	})
	if err != nil {
		log.Printf("[RESUME] summary prompt unavailable: %v", err)
		return "", false
	}
	system := prompts.MustGet(prompts.ResumeFile, promptSystem)

	text, err := g.Client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		Tier:        llm.TierStandard,
		Temperature: tailorTemperature,
		MaxTokens:   512,
	})
	if err != nil {
		log.Printf("[RESUME] summary tailoring failed, using profile summary: %v", err)
		return "", false
	}
	text = llm.StripCodeFence(text)
	if text == "" || len([]rune(text)) > maxSummaryRunes {
		log.Printf("[RESUME] discarding tailored summary (%d chars)", len([]rune(text)))
		return "", false
	}
	if g.Verbose {
		log.Printf("[RESUME] tailored summary: %s", text)
	}
	return text, true
}

// writeFile renders into a temp file next to path and renames it into place
// so a failed render never leaves a truncated resume behind.
func writeFile(path string, w Writer, doc Document) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".resume-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if err := w.Write(tmp, doc); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to set output permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}
