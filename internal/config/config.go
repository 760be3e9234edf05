// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Scrape failure policies
const (
	// PolicyDegrade lets the pipeline continue with the failure message as job data
	PolicyDegrade = "degrade"
	// PolicyAbort stops the pipeline before analysis when job discovery fails
	PolicyAbort = "abort"
)

// LLM providers
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// DefaultOutput is the resume file written when no output is configured
const DefaultOutput = "personalized_resume.docx"

// Config represents the application settings that can be loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or environment variables.
type Config struct {
	// LLM
	Provider string `json:"provider,omitempty" yaml:"provider,omitempty"` // gemini or anthropic
	APIKey   string `json:"api_key,omitempty" yaml:"api_key,omitempty"`   // provider API key
	Model    string `json:"model,omitempty" yaml:"model,omitempty"`       // overrides the analysis model

	// Job boards
	Sites               []string `json:"sites,omitempty" yaml:"sites,omitempty"`                                 // job boards to search
	HoursOld            int      `json:"hours_old,omitempty" yaml:"hours_old,omitempty"`                         // max posting age
	CountryIndeed       string   `json:"country_indeed,omitempty" yaml:"country_indeed,omitempty"`               // Indeed country
	IsRemote            bool     `json:"is_remote,omitempty" yaml:"is_remote,omitempty"`                         // remote-only listings
	UseBrowser          bool     `json:"use_browser,omitempty" yaml:"use_browser,omitempty"`                     // headless browser for JS-rendered boards
	ScrapeFailurePolicy string   `json:"scrape_failure_policy,omitempty" yaml:"scrape_failure_policy,omitempty"` // degrade or abort
	CacheTTL            string   `json:"cache_ttl,omitempty" yaml:"cache_ttl,omitempty"`                         // e.g. "6h"; "0" disables caching

	// Output
	Output string `json:"output,omitempty" yaml:"output,omitempty"` // resume file name (.docx or .txt)

	// Infrastructure
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL run journal
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // search result cache
	Verbose     bool   `json:"verbose,omitempty" yaml:"verbose,omitempty"`
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		Provider:            ProviderGemini,
		Sites:               []string{"indeed", "linkedin", "remoteok"},
		HoursOld:            72,
		CountryIndeed:       "USA",
		ScrapeFailurePolicy: PolicyDegrade,
		CacheTTL:            "6h",
		Output:              DefaultOutput,
	}
}

// LoadConfig loads settings from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	switch c.Provider {
	case "", ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("config error: unknown provider %q (want %s or %s)", c.Provider, ProviderGemini, ProviderAnthropic)
	}

	switch c.ScrapeFailurePolicy {
	case "", PolicyDegrade, PolicyAbort:
	default:
		return fmt.Errorf("config error: 'scrape_failure_policy' must be %s or %s", PolicyDegrade, PolicyAbort)
	}

	if c.HoursOld < 0 {
		return fmt.Errorf("config error: 'hours_old' must be non-negative")
	}

	if c.CacheTTL != "" {
		if _, err := c.CacheDuration(); err != nil {
			return fmt.Errorf("config error: 'cache_ttl': %w", err)
		}
	}

	if c.Output != "" {
		switch strings.ToLower(filepath.Ext(c.Output)) {
		case ".docx", ".txt":
		default:
			return fmt.Errorf("config error: 'output' must end in .docx or .txt: %s", c.Output)
		}
	}

	return nil
}

// CacheDuration parses CacheTTL. "0" and "" both mean no caching.
func (c *Config) CacheDuration() (time.Duration, error) {
	if c.CacheTTL == "" || c.CacheTTL == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be non-negative")
	}
	return d, nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.CountryIndeed == "" {
		result.CountryIndeed = defaults.CountryIndeed
	}
	if result.ScrapeFailurePolicy == "" {
		result.ScrapeFailurePolicy = defaults.ScrapeFailurePolicy
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}

	// Int fields: use default if zero
	if result.HoursOld == 0 {
		result.HoursOld = defaults.HoursOld
	}

	// Slices
	if len(result.Sites) == 0 {
		result.Sites = append([]string(nil), defaults.Sites...)
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// ApplyEnv fills settings that were left empty from the environment.
func (c *Config) ApplyEnv() {
	if c.Provider == "" {
		c.Provider = strings.ToLower(os.Getenv("LLM_PROVIDER"))
	}
	if c.APIKey == "" {
		switch c.Provider {
		case ProviderAnthropic:
			c.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		default:
			c.APIKey = os.Getenv("GEMINI_API_KEY")
		}
	}
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.RedisURL == "" {
		c.RedisURL = os.Getenv("REDIS_URL")
	}
}
