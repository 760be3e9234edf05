package resume

import (
	"strings"

	"github.com/jonathan/job-search/internal/types"
)

// Placeholders used when optional profile fields are missing.
const (
	PlaceholderName    = "Your Name"
	PlaceholderSummary = "Experienced professional with expertise in relevant technologies and strong problem-solving skills."
)

// Section headings, in document order.
const (
	HeadingSummary        = "Professional Summary"
	HeadingSkills         = "Technical Skills"
	HeadingExperience     = "Professional Experience"
	HeadingEducation      = "Education"
	HeadingCertifications = "Certifications"
)

// Bullet prefixes list items.
const Bullet = "• "

// Run is a span of text with uniform formatting. Break starts a new line
// inside the paragraph before the text.
type Run struct {
	Text  string
	Bold  bool
	Break bool
}

// Paragraph is a block of runs.
type Paragraph struct {
	Runs []Run
}

// Text returns the paragraph as plain text.
func (p Paragraph) Text() string {
	var b strings.Builder
	for _, r := range p.Runs {
		if r.Break {
			b.WriteString("\n")
		}
		b.WriteString(r.Text)
	}
	return b.String()
}

// Section is a heading with its paragraphs.
type Section struct {
	Heading    string
	Paragraphs []Paragraph
}

// Document is a format-independent resume.
type Document struct {
	Name     string
	Contact  string
	Sections []Section
}

func para(runs ...Run) Paragraph {
	return Paragraph{Runs: runs}
}

func plain(text string) Paragraph {
	return para(Run{Text: text})
}

// Build lays out a resume from profile. summary overrides the profile summary
// when non-empty; blank optional fields fall back to placeholders.
func Build(profile types.UserProfile, summary string) Document {
	doc := Document{
		Name:    strings.TrimSpace(profile.Name),
		Contact: ContactLine(profile),
	}
	if doc.Name == "" {
		doc.Name = PlaceholderName
	}

	if strings.TrimSpace(summary) == "" {
		summary = types.Deref(profile.Summary)
	}
	if strings.TrimSpace(summary) == "" {
		summary = PlaceholderSummary
	}
	doc.Sections = append(doc.Sections,
		Section{Heading: HeadingSummary, Paragraphs: []Paragraph{plain(strings.TrimSpace(summary))}},
		Section{Heading: HeadingSkills, Paragraphs: []Paragraph{plain(strings.Join(profile.Skills, ", "))}},
	)

	exp := Section{Heading: HeadingExperience}
	for _, e := range profile.Experience {
		exp.Paragraphs = append(exp.Paragraphs, para(
			Run{Text: e.Title + " - " + e.Company, Bold: true},
			Run{Text: e.Duration, Break: true},
		))
		if strings.TrimSpace(e.Description) != "" {
			exp.Paragraphs = append(exp.Paragraphs, plain(Bullet+e.Description))
		}
		for _, proj := range e.Projects {
			runs := []Run{{Text: Bullet}, {Text: proj.Name, Bold: true}, {Text: ": " + proj.Description}}
			if len(proj.Technologies) > 0 {
				runs = append(runs, Run{Text: " (" + strings.Join(proj.Technologies, ", ") + ")"})
			}
			exp.Paragraphs = append(exp.Paragraphs, para(runs...))
		}
	}
	doc.Sections = append(doc.Sections, exp)

	edu := Section{Heading: HeadingEducation}
	for _, e := range profile.Education {
		runs := []Run{{Text: e.Degree + " - " + e.School, Bold: true}}
		if strings.TrimSpace(e.Year) != "" {
			runs = append(runs, Run{Text: " (" + e.Year + ")"})
		}
		edu.Paragraphs = append(edu.Paragraphs, para(runs...))
	}
	doc.Sections = append(doc.Sections, edu)

	if len(profile.Certifications) > 0 {
		certs := Section{Heading: HeadingCertifications}
		for _, c := range profile.Certifications {
			certs.Paragraphs = append(certs.Paragraphs, plain(Bullet+c))
		}
		doc.Sections = append(doc.Sections, certs)
	}
	return doc
}

// ContactLine joins email, phone, location and LinkedIn with " | ",
// skipping absent values.
func ContactLine(p types.UserProfile) string {
	var parts []string
	for _, v := range []string{p.Email, types.Deref(p.Phone), types.Deref(p.Location)} {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	if li := strings.TrimSpace(types.Deref(p.LinkedIn)); li != "" {
		parts = append(parts, "LinkedIn: "+li)
	}
	return strings.Join(parts, " | ")
}

// PlainText renders the document as plain text, one paragraph per line.
func (d Document) PlainText() string {
	var b strings.Builder
	b.WriteString(d.Name + "\n")
	if d.Contact != "" {
		b.WriteString(d.Contact + "\n")
	}
	for _, s := range d.Sections {
		b.WriteString("\n" + s.Heading + "\n")
		for _, p := range s.Paragraphs {
			b.WriteString(p.Text() + "\n")
		}
	}
	return b.String()
}
