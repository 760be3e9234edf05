package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/profile"
)

var exampleUserProfileCmd = &cobra.Command{
	Use:   "example-user-profile",
	Short: "Write an example profile-only JSON file",
	Long:  "Writes a fully populated user profile document for use with job-search-with-params.",
	Args:  cobra.NoArgs,
	RunE:  runExampleUserProfile,
}

var exampleUserProfileFilename string

func init() {
	exampleUserProfileCmd.Flags().StringVarP(&exampleUserProfileFilename, "filename", "f", profile.ExampleProfileFilename, "Output file")
	rootCmd.AddCommand(exampleUserProfileCmd)
}

func runExampleUserProfile(cmd *cobra.Command, _ []string) error {
	if err := profile.WriteJSON(exampleUserProfileFilename, profile.ExampleProfile()); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Example user profile saved to %s\n", exampleUserProfileFilename)
	return nil
}
