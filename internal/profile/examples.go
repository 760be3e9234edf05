package profile

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jonathan/job-search/internal/types"
)

// Default file names for generated example documents
const (
	ExampleConfigFilename  = "example_profile.json"
	ExampleProfileFilename = "user_profile.json"
)

// ExampleProfile returns a fully populated profile that illustrates the schema.
func ExampleProfile() types.UserProfile {
	p := types.UserProfile{
		Name:     "Jane Smith",
		Email:    "jane.smith@email.com",
		Phone:    types.Str("+1-555-0123"),
		Location: types.Str("San Francisco, CA"),
		LinkedIn: types.Str("linkedin.com/in/janesmith"),
		Skills:   []string{"Python", "React", "Node.js", "AWS", "Docker", "Kubernetes"},
		Experience: []types.Experience{
			{
				Title:       "Senior Full Stack Developer",
				Company:     "Tech Innovations Inc",
				Duration:    "2021-2024",
				Description: "Led development of scalable web applications using React and Node.js, deployed on AWS infrastructure",
				Projects: []types.Project{
					{
						Name:         "E-commerce Platform",
						Description:  "Built scalable e-commerce platform with React and Node.js",
						Technologies: []string{"React", "Node.js", "PostgreSQL", "AWS"},
					},
					{
						Name:         "Real-time Analytics Dashboard",
						Description:  "Developed real-time data visualization dashboard",
						Technologies: []string{"React", "D3.js", "WebSocket", "Redis"},
					},
				},
			},
			{
				Title:       "Software Developer",
				Company:     "StartupCorp",
				Duration:    "2019-2021",
				Description: "Developed RESTful APIs and frontend interfaces for customer-facing applications",
			},
		},
		Education: []types.Education{
			{
				Degree: "Bachelor of Science in Computer Science",
				School: "Stanford University",
				Year:   "2019",
			},
		},
		Certifications: []string{
			"AWS Certified Solutions Architect",
			"React Developer Certification",
		},
		Summary: types.Str("Experienced full-stack developer with 5+ years building scalable web applications using modern technologies"),
	}
	p.Normalize()
	return p
}

// ExampleConfig returns a complete configuration document: the example profile
// plus search parameters.
func ExampleConfig() types.JobSearchConfig {
	return types.JobSearchConfig{
		UserProfile: ExampleProfile(),
		JobSearchParams: types.JobSearchParams{
			SearchTerm:           "Senior Full Stack Developer",
			Location:             "San Francisco",
			ResultsWanted:        15,
			FineTuneSearchString: types.Str("startups with good work-life balance and remote-first culture"),
		},
	}
}

// WriteJSON writes v to path as UTF-8 JSON with 2-space indentation.
func WriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %T: %w", v, err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
