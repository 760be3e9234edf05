package types

// Field defaults for JobSearchParams
const (
	DefaultSearchTerm    = "Software Developer"
	DefaultLocation      = "Remote"
	DefaultResultsWanted = 10

	// MinResultsWanted and MaxResultsWanted bound results_wanted (inclusive).
	MinResultsWanted = 1
	MaxResultsWanted = 100
)

// JobSearchParams describes what to search for on the job boards.
type JobSearchParams struct {
	SearchTerm    string `json:"search_term"`
	Location      string `json:"location"`
	ResultsWanted int    `json:"results_wanted" validate:"min=1,max=100"`
	// FineTuneSearchString is free-text refinement criteria handed to the analysis step.
	FineTuneSearchString *string `json:"fine_tune_search_string"`
}

// DefaultSearchParams returns JobSearchParams populated with the field defaults.
func DefaultSearchParams() JobSearchParams {
	return JobSearchParams{
		SearchTerm:    DefaultSearchTerm,
		Location:      DefaultLocation,
		ResultsWanted: DefaultResultsWanted,
	}
}

// JobSearchConfig pairs a profile with search parameters. It is the unit
// persisted on disk as a single JSON document.
type JobSearchConfig struct {
	UserProfile     UserProfile     `json:"user_profile"`
	JobSearchParams JobSearchParams `json:"job_search_params"`
}
