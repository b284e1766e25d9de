package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string           `toml:"environment"` // "development" or "production"
	Server      ServerConfig     `toml:"server"`
	Storage     StorageConfig    `toml:"storage"`
	Logging     LoggingConfig    `toml:"logging"`
	Discovery   DiscoveryConfig  `toml:"discovery"`
	Scraper     ScraperConfig    `toml:"scraper"`
	Gemini      GeminiConfig     `toml:"gemini"`
	Claude      ClaudeConfig     `toml:"claude"`
	Extraction  ExtractionConfig `toml:"extraction"`
	Review      ReviewConfig     `toml:"review"`
	Schedule    ScheduleConfig   `toml:"schedule"`
}

type ServerConfig struct {
	Port int    `toml:"port"`
	Host string `toml:"host"`
}

type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for logs
}

// DiscoveryConfig controls the URL discovery stage
type DiscoveryConfig struct {
	Queries    []string `toml:"queries"`     // Search queries processed in order
	QueriesDir string   `toml:"queries_dir"` // Directory containing YAML query-set files
	MaxResults int      `toml:"max_results"` // Max result URLs kept per query
	QueryDelay string   `toml:"query_delay"` // Delay between queries, e.g. "2s"
	Denylist   []string `toml:"denylist"`    // Host fragments that are never enqueued
}

// ScraperConfig controls the page scraping stage
type ScraperConfig struct {
	UserAgent   string   `toml:"user_agent"`
	PagePaths   []string `toml:"page_paths"`   // Candidate path suffixes tried per venue
	Keywords    []string `toml:"keywords"`     // Party keywords that short-circuit candidate selection
	PageTimeout string   `toml:"page_timeout"` // Per-page load timeout, e.g. "30s"
	JSWaitTime  string   `toml:"js_wait_time"` // Wait for JS rendering after navigation
	BatchSize   int      `toml:"batch_size"`   // Concurrent venues per batch
	MaxItems    int      `toml:"max_items"`    // Max pending items claimed per run
	Headless    bool     `toml:"headless"`
	NoSandbox   bool     `toml:"no_sandbox"`
}

// GeminiConfig holds the Gemini settings used by the search provider
type GeminiConfig struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// ClaudeConfig holds the Anthropic Claude settings used by the extraction engine
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	Model       string  `toml:"model"`
	MaxTokens   int     `toml:"max_tokens"`
	Temperature float32 `toml:"temperature"`
	Timeout     string  `toml:"timeout"`
}

// ExtractionConfig controls the extraction stage batching
type ExtractionConfig struct {
	BatchLimit      int    `toml:"batch_limit"`       // Max items processed per run
	ItemDelay       string `toml:"item_delay"`        // Delay between items, e.g. "1s"
	MaxContentChars int    `toml:"max_content_chars"` // Cleaned text budget sent to the model
}

// ReviewConfig controls the review/publish stage
type ReviewConfig struct {
	MinConfidence float64 `toml:"min_confidence"` // Items below this are flagged for closer review
	PublishStatus string  `toml:"publish_status"` // Venue status on approval: "draft" or "published"
}

// ScheduleConfig controls cron-driven pipeline runs
type ScheduleConfig struct {
	Enabled bool   `toml:"enabled"`
	Cron    string `toml:"cron"` // Cron schedule with seconds field
}

// NewDefaultConfig returns a configuration populated with defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port: 8085,
			Host: "localhost",
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path:           "./data/venuescout",
				ResetOnStartup: false,
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		Discovery: DiscoveryConfig{
			MaxResults: 10,
			QueryDelay: "2s",
			Denylist: []string{
				"facebook.com", "youtube.com", "instagram.com", "twitter.com",
				"x.com", "yelp.com", "tripadvisor.", "google.com", "wikipedia.org",
				"indeed.com", "reed.co.uk", "gumtree.com",
			},
		},
		Scraper: ScraperConfig{
			UserAgent:   "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			PagePaths:   []string{"", "/parties", "/kids-parties", "/birthday-parties", "/pricing", "/packages"},
			Keywords:    []string{"party", "birthday", "package"},
			PageTimeout: "30s",
			JSWaitTime:  "2s",
			BatchSize:   3,
			MaxItems:    50,
			Headless:    true,
			NoSandbox:   true,
		},
		Gemini: GeminiConfig{
			Model: "gemini-2.0-flash",
		},
		Claude: ClaudeConfig{
			Model:       "claude-sonnet-4-20250514",
			MaxTokens:   2000,
			Temperature: 0.1,
			Timeout:     "2m",
		},
		Extraction: ExtractionConfig{
			BatchLimit:      10,
			ItemDelay:       "1s",
			MaxContentChars: 8000,
		},
		Review: ReviewConfig{
			MinConfidence: 0.5,
			PublishStatus: "published",
		},
		Schedule: ScheduleConfig{
			Enabled: false,
			Cron:    "0 0 */6 * * *",
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// default -> file1 -> file2 -> ... -> env. Later files override earlier ones.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration invariants that would otherwise surface late
func (c *Config) Validate() error {
	if c.Scraper.BatchSize <= 0 {
		return fmt.Errorf("scraper.batch_size must be positive, got %d", c.Scraper.BatchSize)
	}
	if c.Extraction.BatchLimit <= 0 {
		return fmt.Errorf("extraction.batch_limit must be positive, got %d", c.Extraction.BatchLimit)
	}
	if c.Review.MinConfidence < 0 || c.Review.MinConfidence > 1 {
		return fmt.Errorf("review.min_confidence must be in [0,1], got %f", c.Review.MinConfidence)
	}
	switch c.Review.PublishStatus {
	case "draft", "published":
	default:
		return fmt.Errorf("review.publish_status must be \"draft\" or \"published\", got %q", c.Review.PublishStatus)
	}
	for _, d := range []struct {
		name  string
		value string
	}{
		{"discovery.query_delay", c.Discovery.QueryDelay},
		{"scraper.page_timeout", c.Scraper.PageTimeout},
		{"scraper.js_wait_time", c.Scraper.JSWaitTime},
		{"claude.timeout", c.Claude.Timeout},
		{"extraction.item_delay", c.Extraction.ItemDelay},
	} {
		if _, err := time.ParseDuration(d.value); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.name, err)
		}
	}
	return nil
}

// QueryDelayDuration returns the parsed inter-query delay
func (c *DiscoveryConfig) QueryDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.QueryDelay)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// PageTimeoutDuration returns the parsed per-page timeout
func (c *ScraperConfig) PageTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.PageTimeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// JSWaitDuration returns the parsed JS settle wait
func (c *ScraperConfig) JSWaitDuration() time.Duration {
	d, err := time.ParseDuration(c.JSWaitTime)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// ItemDelayDuration returns the parsed inter-item delay
func (c *ExtractionConfig) ItemDelayDuration() time.Duration {
	d, err := time.ParseDuration(c.ItemDelay)
	if err != nil {
		return time.Second
	}
	return d
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("VENUESCOUT_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("VENUESCOUT_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("VENUESCOUT_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if badgerPath := os.Getenv("VENUESCOUT_BADGER_PATH"); badgerPath != "" {
		config.Storage.Badger.Path = badgerPath
	}

	if level := os.Getenv("VENUESCOUT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("VENUESCOUT_LOG_OUTPUT"); output != "" {
		var outputs []string
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// API keys are secrets and normally come from the environment
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("VENUESCOUT_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if key := os.Getenv("VENUESCOUT_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}

	if queriesDir := os.Getenv("VENUESCOUT_QUERIES_DIR"); queriesDir != "" {
		config.Discovery.QueriesDir = queriesDir
	}
}
