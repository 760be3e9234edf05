package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/profile"
	"github.com/jonathan/job-search/internal/types"
)

var jobSearchWithParamsCmd = &cobra.Command{
	Use:   "job-search-with-params <profile_file>",
	Short: "Run the job search with a profile-only file and search flags",
	Long: `Loads a profile-only JSON document (the user_profile object on its own) and takes the
search parameters from flags.`,
	Args: cobra.ExactArgs(1),
	RunE: runJobSearchWithParams,
}

var (
	jspSearchTerm    string
	jspLocation      string
	jspResultsWanted int
	jspFineTune      string
)

func init() {
	jobSearchWithParamsCmd.Flags().StringVar(&jspSearchTerm, "search-term", types.DefaultSearchTerm, "Job search term/title")
	jobSearchWithParamsCmd.Flags().StringVar(&jspLocation, "location", types.DefaultLocation, "Job search location")
	jobSearchWithParamsCmd.Flags().IntVar(&jspResultsWanted, "results-wanted", types.DefaultResultsWanted, "Number of job results wanted (1-100)")
	jobSearchWithParamsCmd.Flags().StringVar(&jspFineTune, "fine-tune", "", "Free-text criteria to refine the analysis")

	rootCmd.AddCommand(jobSearchWithParamsCmd)
}

func runJobSearchWithParams(cmd *cobra.Command, args []string) error {
	user, err := profile.LoadProfile(args[0])
	if err != nil {
		return err
	}

	var o profile.Overrides
	o.SetParam("search_term", jspSearchTerm)
	o.SetParam("location", jspLocation)
	o.SetParam("results_wanted", jspResultsWanted)
	if cmd.Flags().Changed("fine-tune") {
		o.SetParam("fine_tune_search_string", jspFineTune)
	}

	in, err := profile.BuildInput(nil, o)
	if err != nil {
		return err
	}
	return runPipeline(cmd, user, in.Params)
}
