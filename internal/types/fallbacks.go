package types

// FallbackSearchTerm is used when a run is started without any search parameters.
const FallbackSearchTerm = "Data Scientist"

// FallbackProfile returns the sample profile used when a run starts without one,
// so the pipeline can be exercised with zero input.
func FallbackProfile() UserProfile {
	p := UserProfile{
		Name:   "John Doe",
		Email:  "john.doe@email.com",
		Skills: []string{"Python", "Machine Learning", "Data Analysis"},
		Experience: []Experience{
			{
				Title:       "Data Scientist",
				Company:     "Tech Corp",
				Duration:    "2022-2024",
				Description: "Developed ML models and analyzed large datasets",
			},
		},
		Education: []Education{
			{
				Degree: "Master of Science in Computer Science",
				School: "University of Technology",
				Year:   "2022",
			},
		},
		Summary: Str("Experienced data scientist with expertise in machine learning and data analysis"),
	}
	p.Normalize()
	return p
}

// FallbackSearchParams returns the search parameters used when a run starts without any.
func FallbackSearchParams() JobSearchParams {
	return JobSearchParams{
		SearchTerm:    FallbackSearchTerm,
		Location:      DefaultLocation,
		ResultsWanted: DefaultResultsWanted,
	}
}
