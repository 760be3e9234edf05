package types

import (
	"fmt"
	"strings"
)

// ExperienceText renders work history as plain text for LLM prompts.
func (p UserProfile) ExperienceText() string {
	if len(p.Experience) == 0 {
		return "(none listed)"
	}
	var b strings.Builder
	for i, exp := range p.Experience {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s at %s (%s): %s\n", exp.Title, exp.Company, exp.Duration, exp.Description)
		for _, proj := range exp.Projects {
			fmt.Fprintf(&b, "  * Project %s: %s", proj.Name, proj.Description)
			if len(proj.Technologies) > 0 {
				fmt.Fprintf(&b, " [%s]", strings.Join(proj.Technologies, ", "))
			}
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// EducationText renders education entries one per line.
func (p UserProfile) EducationText() string {
	if len(p.Education) == 0 {
		return "(none listed)"
	}
	lines := make([]string, len(p.Education))
	for i, edu := range p.Education {
		lines[i] = fmt.Sprintf("- %s, %s (%s)", edu.Degree, edu.School, edu.Year)
	}
	return strings.Join(lines, "\n")
}

// AllSkills returns the declared skills followed by project technologies not
// already listed, compared case-insensitively.
func (p UserProfile) AllSkills() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, s)
	}
	for _, s := range p.Skills {
		add(s)
	}
	for _, exp := range p.Experience {
		for _, proj := range exp.Projects {
			for _, tech := range proj.Technologies {
				add(tech)
			}
		}
	}
	return out
}

// JoinOr joins items with ", " or returns fallback for an empty list.
func JoinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
