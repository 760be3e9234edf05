package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/resume"
)

var inspectResumeCmd = &cobra.Command{
	Use:   "inspect-resume <file.docx>",
	Short: "Print the text of a generated resume",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspectResume,
}

func init() {
	rootCmd.AddCommand(inspectResumeCmd)
}

func runInspectResume(cmd *cobra.Command, args []string) error {
	text, err := resume.ExtractText(args[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), text)
	return nil
}
