// Package main provides the entry point for the job_search CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "job_search",
	Short: "Job search and personalized resume CLI",
	Long: `job_search finds job listings for a profile, analyzes the skills gap against them and
writes a personalized resume.

Application settings (LLM provider, job boards, cache, database) can be loaded with --config
from a JSON or YAML file. Environment variables and a .env file fill anything left unset.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	settingsPath string
	verbose      bool
	outputName   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&settingsPath, "config", "", "Path to settings file (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.PersistentFlags().StringVarP(&outputName, "output", "o", "", "Resume file name, .docx or .txt (default personalized_resume.docx)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
