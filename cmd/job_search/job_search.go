package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/profile"
)

var jobSearchCmd = &cobra.Command{
	Use:   "job-search [profile_file]",
	Short: "Search jobs, analyze the skills gap and generate a resume",
	Long: `Runs the job search pipeline: collect profile -> search and analyze jobs -> generate resume -> finalize.

With profile_file, the file must hold a complete user_profile (job_search_params is optional and
defaults per field) and is validated like the validate command. Individual flags override keys
from the file or from --user-profile-json. With no file and no profile flags, a built-in sample
profile and default search parameters are used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runJobSearch,
}

var (
	jsName            string
	jsEmail           string
	jsPhone           string
	jsLocation        string
	jsLinkedIn        string
	jsSummary         string
	jsSkills          string
	jsCertifications  string
	jsExperience      string
	jsEducation       string
	jsSearchTerm      string
	jsSearchLocation  string
	jsResultsWanted   int
	jsFineTune        string
	jsUserProfileJSON string
)

func init() {
	jobSearchCmd.Flags().StringVarP(&jsName, "name", "n", "", "User name")
	jobSearchCmd.Flags().StringVar(&jsEmail, "email", "", "User email")
	jobSearchCmd.Flags().StringVar(&jsPhone, "phone", "", "User phone number")
	jobSearchCmd.Flags().StringVar(&jsLocation, "location", "", "User location")
	jobSearchCmd.Flags().StringVar(&jsLinkedIn, "linkedin", "", "LinkedIn profile URL")
	jobSearchCmd.Flags().StringVar(&jsSummary, "summary", "", "Professional summary")
	jobSearchCmd.Flags().StringVar(&jsSkills, "skills", "", "Comma-separated list of skills")
	jobSearchCmd.Flags().StringVar(&jsCertifications, "certifications", "", "Comma-separated list of certifications")
	jobSearchCmd.Flags().StringVar(&jsExperience, "experience", "", "JSON array of experience entries")
	jobSearchCmd.Flags().StringVar(&jsEducation, "education", "", "JSON array of education entries")

	jobSearchCmd.Flags().StringVar(&jsSearchTerm, "search-term", "", "Job search term/title")
	jobSearchCmd.Flags().StringVar(&jsSearchLocation, "search-location", "", "Job search location")
	jobSearchCmd.Flags().IntVar(&jsResultsWanted, "results-wanted", 10, "Number of job results wanted (1-100)")
	jobSearchCmd.Flags().StringVar(&jsFineTune, "fine-tune", "", "Free-text criteria to refine the analysis")

	jobSearchCmd.Flags().StringVar(&jsUserProfileJSON, "user-profile-json", "", "JSON file path or JSON string containing a complete user profile")

	rootCmd.AddCommand(jobSearchCmd)
}

func runJobSearch(cmd *cobra.Command, args []string) error {
	base := map[string]any{}
	if len(args) == 1 {
		doc, err := profile.LoadDocument(args[0])
		if err != nil {
			return err
		}
		base = doc
	}

	if jsUserProfileJSON != "" {
		p, err := profile.ParseJSONArg(jsUserProfileJSON)
		if err != nil {
			return err
		}
		base[profile.KeyUserProfile] = p
	}

	overrides, err := jobSearchOverrides(cmd)
	if err != nil {
		return err
	}

	var in *profile.Input
	if len(args) == 1 {
		in, err = profile.BuildFromDocument(args[0], base, overrides)
	} else {
		in, err = profile.BuildInput(base, overrides)
	}
	if err != nil {
		return err
	}
	return runPipeline(cmd, in.Profile, in.Params)
}

// jobSearchOverrides collects the explicitly set flags. JSON fragments that
// fail to parse abort before anything runs.
func jobSearchOverrides(cmd *cobra.Command) (profile.Overrides, error) {
	var o profile.Overrides
	flags := cmd.Flags()

	for flag, p := range map[string]*string{
		"name":     &jsName,
		"email":    &jsEmail,
		"phone":    &jsPhone,
		"location": &jsLocation,
		"linkedin": &jsLinkedIn,
		"summary":  &jsSummary,
	} {
		if flags.Changed(flag) {
			o.SetProfile(flag, *p)
		}
	}
	if flags.Changed("skills") {
		o.SetProfile("skills", profile.ParseList(jsSkills))
	}
	if flags.Changed("certifications") {
		o.SetProfile("certifications", profile.ParseList(jsCertifications))
	}
	if flags.Changed("experience") {
		arr, err := profile.ParseJSONArray("experience", jsExperience)
		if err != nil {
			return o, err
		}
		o.SetProfile("experience", arr)
	}
	if flags.Changed("education") {
		arr, err := profile.ParseJSONArray("education", jsEducation)
		if err != nil {
			return o, err
		}
		o.SetProfile("education", arr)
	}

	if flags.Changed("search-term") {
		o.SetParam("search_term", jsSearchTerm)
	}
	if flags.Changed("search-location") {
		o.SetParam("location", jsSearchLocation)
	}
	if flags.Changed("results-wanted") {
		o.SetParam("results_wanted", jsResultsWanted)
	}
	if flags.Changed("fine-tune") {
		o.SetParam("fine_tune_search_string", jsFineTune)
	}
	return o, nil
}
