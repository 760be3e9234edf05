package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/observability"
	"github.com/jonathan/job-search/internal/pipeline"
	"github.com/jonathan/job-search/internal/types"
)

// runPipeline executes one pipeline run for validated input. A nil profile
// or nil params is replaced by the built-in fallback.
//
//nolint:errcheck // progress output to stdout
func runPipeline(cmd *cobra.Command, profile *types.UserProfile, params *types.JobSearchParams) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	d, err := newDeps(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer d.Close()

	st := pipeline.NewState(profile, params)
	if cfg.Verbose {
		observability.NewPrinter(out).PrintProfile(&st.Profile)
	}

	summary, err := d.controller(out).Run(ctx, st)
	if err != nil {
		return err
	}
	if !summary.ResumeOK {
		return fmt.Errorf("resume generation failed: %s", summary.ResumeMessage)
	}

	fmt.Fprintln(out, "Job Search Flow completed successfully")
	return nil
}
