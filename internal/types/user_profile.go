// Package types provides type definitions for structured data used throughout the job-search system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// UserProfile holds the personal and professional information a resume is built from.
type UserProfile struct {
	Name           string       `json:"name" validate:"notblank"`
	Email          string       `json:"email" validate:"required,email"`
	Phone          *string      `json:"phone,omitempty"`
	Location       *string      `json:"location,omitempty"`
	LinkedIn       *string      `json:"linkedin,omitempty"`
	Skills         []string     `json:"skills"`
	Experience     []Experience `json:"experience" validate:"dive"`
	Education      []Education  `json:"education" validate:"dive"`
	Certifications []string     `json:"certifications"`
	Summary        *string      `json:"summary,omitempty"`
}

// Experience is a single work history entry
type Experience struct {
	Title       string    `json:"title" validate:"notblank"`
	Company     string    `json:"company" validate:"notblank"`
	Duration    string    `json:"duration" validate:"notblank"` // e.g. "2021-2024"
	Description string    `json:"description" validate:"notblank"`
	Projects    []Project `json:"projects" validate:"dive"`
}

// Project is a project delivered within an Experience entry
type Project struct {
	Name         string   `json:"name" validate:"notblank"`
	Description  string   `json:"description" validate:"notblank"`
	Technologies []string `json:"technologies"`
}

// Education is a single degree entry
type Education struct {
	Degree string `json:"degree" validate:"notblank"`
	School string `json:"school" validate:"notblank"`
	Year   string `json:"year" validate:"notblank"` // graduation year or range
}

// Normalize replaces nil list fields with empty slices so that the profile
// always serializes lists as [] rather than null.
func (p *UserProfile) Normalize() {
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if p.Certifications == nil {
		p.Certifications = []string{}
	}
	if p.Experience == nil {
		p.Experience = []Experience{}
	}
	if p.Education == nil {
		p.Education = []Education{}
	}
	for i := range p.Experience {
		if p.Experience[i].Projects == nil {
			p.Experience[i].Projects = []Project{}
		}
		for j := range p.Experience[i].Projects {
			if p.Experience[i].Projects[j].Technologies == nil {
				p.Experience[i].Projects[j].Technologies = []string{}
			}
		}
	}
}

// Str returns a pointer to s. Handy for building optional profile fields.
func Str(s string) *string {
	return &s
}

// Deref returns the value of an optional string, or "" when absent.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
