package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/profile"
	"github.com/jonathan/job-search/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <profile_file>",
	Short: "Validate a profile file without running the pipeline",
	Long:  "Checks a configuration document (or a profile-only document with --profile-only) and reports every violated field.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateProfileOnly bool

func init() {
	validateCmd.Flags().BoolVar(&validateProfileOnly, "profile-only", false, "The file holds only a user profile")
	rootCmd.AddCommand(validateCmd)
}

//nolint:errcheck // report output to stdout
func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]
	out := cmd.OutOrStdout()

	var err error
	if validateProfileOnly {
		_, err = profile.LoadProfile(path)
	} else {
		_, err = profile.LoadConfig(path)
	}

	var validationErr *schemas.ValidationError
	switch {
	case err == nil:
		fmt.Fprintf(out, "Validation passed: %s\n", path)
		return nil
	case errors.As(err, &validationErr):
		fmt.Fprintf(out, "Validation failed: %s\n", path)
		for _, fe := range validationErr.Errors {
			fmt.Fprintf(out, "  - %s: %s\n", fe.Field, fe.Message)
		}
		return fmt.Errorf("%d validation error(s) in %s", len(validationErr.Errors), path)
	default:
		return err
	}
}
