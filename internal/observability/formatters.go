// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
	// maxAnalysisLines caps the analysis preview
	maxAnalysisLines = 15
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// clip shortens s to n runes, marking the cut with "..."
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, clip(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintProfile outputs the profile a run is working from.
func (p *Printer) PrintProfile(profile *types.UserProfile) {
	if profile == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Name:     %s\n", profile.Name))
	sb.WriteString(fmt.Sprintf("Email:    %s\n", profile.Email))
	if loc := types.Deref(profile.Location); loc != "" {
		sb.WriteString(fmt.Sprintf("Location: %s\n", loc))
	}

	if len(profile.Skills) > 0 {
		sb.WriteString(fmt.Sprintf("Skills:   %s\n", strings.Join(profile.Skills, ", ")))
	}

	if len(profile.Experience) > 0 {
		sb.WriteString("\nExperience:\n")
		count := min(len(profile.Experience), maxItemsToShow)
		for i := 0; i < count; i++ {
			exp := profile.Experience[i]
			sb.WriteString(fmt.Sprintf("  • %s at %s (%s)\n", exp.Title, exp.Company, exp.Duration))
		}
		if len(profile.Experience) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(profile.Experience)-maxItemsToShow))
		}
	}

	p.printBox("USER PROFILE", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintDiscovery outputs the top listings found, or why there are none.
func (p *Printer) PrintDiscovery(o discovery.Outcome) {
	switch o.Status {
	case discovery.StatusFailed:
		p.printBox("JOB LISTINGS", "⚠ "+o.Text)
		return
	case discovery.StatusEmpty:
		p.printBox("JOB LISTINGS", o.Text)
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d job listings:\n\n", len(o.Jobs)))

	count := min(len(o.Jobs), maxItemsToShow)
	for i := 0; i < count; i++ {
		job := o.Jobs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", i+1, job.Title))
		sb.WriteString(fmt.Sprintf("    %s · %s\n", job.Company, job.Location))
		if job.Site != "" {
			sb.WriteString(fmt.Sprintf("    [%s]\n", job.Site))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(o.Jobs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more listings", len(o.Jobs)-maxItemsToShow))
	}

	p.printBox("JOB LISTINGS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintAnalysis outputs the start of the skills-gap analysis.
func (p *Printer) PrintAnalysis(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	lines := strings.Split(text, "\n")
	if len(lines) > maxAnalysisLines {
		rest := len(lines) - maxAnalysisLines
		lines = append(lines[:maxAnalysisLines], fmt.Sprintf("... and %d more lines", rest))
	}

	p.printBox("SKILLS-GAP ANALYSIS", strings.Join(lines, "\n"))
}
