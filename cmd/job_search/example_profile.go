package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/profile"
)

var exampleProfileCmd = &cobra.Command{
	Use:   "example-profile",
	Short: "Write an example profile and search parameters JSON file",
	Long:  "Writes a fully populated configuration document (user_profile and job_search_params) for use with job-search.",
	Args:  cobra.NoArgs,
	RunE:  runExampleProfile,
}

var exampleProfileFilename string

func init() {
	exampleProfileCmd.Flags().StringVarP(&exampleProfileFilename, "filename", "f", profile.ExampleConfigFilename, "Output file")
	rootCmd.AddCommand(exampleProfileCmd)
}

func runExampleProfile(cmd *cobra.Command, _ []string) error {
	if err := profile.WriteJSON(exampleProfileFilename, profile.ExampleConfig()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Example profile saved to %s\n", exampleProfileFilename)
	return nil
}
