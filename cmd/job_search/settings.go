package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/job-search/internal/analysis"
	"github.com/jonathan/job-search/internal/config"
	"github.com/jonathan/job-search/internal/db"
	"github.com/jonathan/job-search/internal/discovery"
	"github.com/jonathan/job-search/internal/fetch"
	"github.com/jonathan/job-search/internal/jobboard"
	"github.com/jonathan/job-search/internal/llm"
	"github.com/jonathan/job-search/internal/pipeline"
	"github.com/jonathan/job-search/internal/resume"
)

// loadSettings resolves the application settings. Precedence, highest
// first: global flags, the --config file, environment variables, defaults.
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	var cfg config.Config
	if settingsPath != "" {
		loaded, err := config.LoadConfig(settingsPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = outputName
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// llmConfig maps settings onto the model configuration
func llmConfig(cfg *config.Config) *llm.Config {
	mc := llm.ConfigFor(cfg.Provider)
	if cfg.Model != "" {
		mc = mc.WithModel(llm.TierAdvanced, cfg.Model)
	}
	return mc
}

// newLLMClient returns nil without error when no API key is configured;
// callers fall back to their offline behavior.
func newLLMClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	client, err := llm.NewClient(ctx, llmConfig(cfg), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}
	return client, nil
}

// deps are the collaborators shared by every run of a process
type deps struct {
	cfg      *config.Config
	client   llm.Client
	scraper  jobboard.Scraper
	database *db.DB
	policy   pipeline.ScrapeFailurePolicy
	closers  []func()
}

// newDeps builds the collaborators for a command; tests swap in stubs
var newDeps = openDeps

// openDeps connects the collaborators named by cfg. Optional infrastructure
// (database, Redis, browser) degrades with a warning rather than failing.
//
//nolint:errcheck // warnings to out
func openDeps(ctx context.Context, cfg *config.Config, out io.Writer) (*deps, error) {
	d := &deps{cfg: cfg}

	policy, err := pipeline.ParsePolicy(cfg.ScrapeFailurePolicy)
	if err != nil {
		return nil, err
	}
	d.policy = policy

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		fmt.Fprintln(out, "Warning: No API key configured. Using offline keyword analysis.")
	} else {
		d.client = client
		d.closers = append(d.closers, func() { _ = client.Close() })
	}

	sites, err := jobboard.ParseSites(cfg.Sites)
	if err != nil {
		d.Close()
		return nil, err
	}

	useBrowser := cfg.UseBrowser
	if useBrowser {
		if err := fetch.BrowserAvailable(ctx); err != nil {
			fmt.Fprintf(out, "Warning: %v. Falling back to plain HTTP.\n", err)
			useBrowser = false
		}
	}

	multi, err := jobboard.NewMultiSite(sites, jobboard.Options{
		Limiter:    jobboard.DefaultLimiter(),
		UseBrowser: useBrowser,
		Verbose:    cfg.Verbose,
	})
	if err != nil {
		d.Close()
		return nil, err
	}
	d.scraper = multi

	ttl, err := cfg.CacheDuration()
	if err != nil {
		d.Close()
		return nil, err
	}
	if ttl > 0 {
		cache := jobboard.OpenCache(ctx, cfg.RedisURL)
		if rc, ok := cache.(*jobboard.RedisCache); ok {
			d.closers = append(d.closers, func() { _ = rc.Close() })
		}
		d.scraper = jobboard.NewCached(multi, cache, sites, ttl, cfg.Verbose)
	}

	if cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			fmt.Fprintf(out, "Warning: Failed to connect to database: %v\n", err)
		} else if err := database.EnsureSchema(ctx); err != nil {
			fmt.Fprintf(out, "Warning: Failed to prepare database schema: %v\n", err)
			database.Close()
		} else {
			d.database = database
			d.closers = append(d.closers, database.Close)
		}
	}

	return d, nil
}

// controller builds a fresh pipeline controller writing progress to out
func (d *deps) controller(out io.Writer) *pipeline.Controller {
	var analyzer analysis.Analyzer = analysis.OfflineAnalyzer{}
	if d.client != nil {
		analyzer = analysis.NewLLMAnalyzer(d.client)
	}

	ctrl := &pipeline.Controller{
		Scraper:   d.scraper,
		Analyzer:  analyzer,
		Generator: &resume.Generator{Client: d.client, Verbose: d.cfg.Verbose},
		Discovery: discovery.Options{
			HoursOld:      d.cfg.HoursOld,
			CountryIndeed: d.cfg.CountryIndeed,
			IsRemote:      d.cfg.IsRemote,
		},
		Policy:   d.policy,
		Filename: d.cfg.Output,
		Verbose:  d.cfg.Verbose,
		Out:      out,
	}
	if d.database != nil {
		ctrl.Recorder = pipeline.NewJournal(d.database)
	}
	return ctrl
}

// Close releases everything openDeps acquired, newest first
func (d *deps) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}
