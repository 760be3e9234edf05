package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/pipeline"
	"github.com/jonathan/job-search/internal/server"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that validates profiles and runs the job search pipeline.

Run history endpoints (/runs) need DATABASE_URL; without it they answer 503.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	d, err := newDeps(context.Background(), cfg, os.Stdout)
	if err != nil {
		return err
	}
	defer d.Close()

	srvCfg := server.Config{
		Port: servePort,
		NewController: func() (*pipeline.Controller, error) {
			return d.controller(io.Discard), nil
		},
	}
	// A nil *db.DB must not become a non-nil RunStore
	if d.database != nil {
		srvCfg.Store = d.database
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
