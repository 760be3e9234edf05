package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/poem"
)

var poemCmd = &cobra.Command{
	Use:   "poem",
	Short: "Run the poem flow",
	Long:  "Writes a short poem to poem.txt. The sentence count is random (1-5) unless --sentence-count is given.",
	Args:  cobra.NoArgs,
	RunE:  runPoem,
}

var poemSentenceCount int

func init() {
	poemCmd.Flags().IntVar(&poemSentenceCount, "sentence-count", 0, "Number of sentences for the poem")
	rootCmd.AddCommand(poemCmd)
}

//nolint:errcheck // progress output to stdout
func runPoem(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()
	out := cmd.OutOrStdout()

	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return err
	}
	if client != nil {
		defer func() { _ = client.Close() }()
	}

	var count *int
	if cmd.Flags().Changed("sentence-count") {
		count = &poemSentenceCount
	}

	fmt.Fprintln(out, "Starting PoemFlow")
	flow := &poem.Flow{Client: client, Out: out}
	st, err := flow.Run(ctx, count)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Poem Flow completed successfully (%d sentences, saved to %s)\n", st.SentenceCount, st.Path)
	return nil
}
