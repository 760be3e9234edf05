// Package poem runs the small demo flow: pick a sentence count, write a
// poem about job searching, save it to poem.txt.
package poem

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/job-search/internal/llm"
	"github.com/jonathan/job-search/internal/prompts"
)

// Filename is where the poem is saved
const Filename = "poem.txt"

// Bounds of the random sentence count
const (
	MinSentences = 1
	MaxSentences = 5
)

const (
	promptSystem    = "system"
	promptWritePoem = "write-poem"
)

// offlineLines is used when no model is configured
var offlineLines = []string{
	"The scraper wakes before the dawn and reads a hundred boards.",
	"Each listing falls into the digest like rain on a tin roof.",
	"The analysis hums and names the skills you have and those you lack.",
	"A resume unfolds in tidy headings, bold and bright.",
	"And somewhere a recruiter smiles at a perfect match.",
}

// State is what the flow produced
type State struct {
	SentenceCount int
	Poem          string
	Path          string
}

// Flow writes the poem. Without a Client it uses built-in lines.
type Flow struct {
	Client llm.Client
	Dir    string
	Out    io.Writer
	// Intn picks the sentence count; nil uses math/rand.
	Intn func(n int) int
}

func (f *Flow) out() io.Writer {
	if f.Out != nil {
		return f.Out
	}
	return os.Stdout
}

// Run executes the flow. A nil sentenceCount is chosen at random in
// [MinSentences, MaxSentences].
//
//nolint:errcheck // progress output to stdout
func (f *Flow) Run(ctx context.Context, sentenceCount *int) (*State, error) {
	out := f.out()
	st := &State{}

	fmt.Fprintln(out, "Generating sentence count")
	if sentenceCount != nil {
		if *sentenceCount < MinSentences {
			return nil, fmt.Errorf("sentence count must be at least %d (got %d)", MinSentences, *sentenceCount)
		}
		st.SentenceCount = *sentenceCount
	} else {
		intn := f.Intn
		if intn == nil {
			intn = rand.IntN
		}
		st.SentenceCount = MinSentences + intn(MaxSentences-MinSentences+1)
	}

	fmt.Fprintln(out, "Generating poem")
	text, err := f.write(ctx, st.SentenceCount)
	if err != nil {
		return nil, err
	}
	st.Poem = text
	fmt.Fprintf(out, "Poem generated %s\n", text)

	fmt.Fprintln(out, "Saving poem")
	st.Path = filepath.Join(f.Dir, Filename)
	if err := os.WriteFile(st.Path, []byte(text), 0o644); err != nil {
		return nil, fmt.Errorf("failed to save poem: %w", err)
	}
	return st, nil
}

func (f *Flow) write(ctx context.Context, n int) (string, error) {
	if f.Client == nil {
		return Offline(n), nil
	}
	prompt, err := prompts.Render(prompts.PoemFile, promptWritePoem, map[string]string{
		"SentenceCount": fmt.Sprintf("%d", n),
	})
	if err != nil {
		return "", err
	}
	system := prompts.MustGet(prompts.PoemFile, promptSystem)

	text, err := f.Client.Generate(ctx, llm.Request{
		System:      system,
		Prompt:      prompt,
		Tier:        llm.TierLite,
		Temperature: 0.9,
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate poem: %w", err)
	}
	text = llm.StripCodeFence(text)
	if text == "" {
		return "", fmt.Errorf("model returned an empty poem")
	}
	return text, nil
}

// Offline returns n sentences from the built-in poem, cycling as needed.
func Offline(n int) string {
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, offlineLines[i%len(offlineLines)])
	}
	return strings.Join(lines, "\n")
}
