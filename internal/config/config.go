// Package config holds gigcal's run settings.
//
// Every setting has a default, so a run with no config file and no flags scrapes
// the built-in listing page and writes docs/mary.ics. A YAML file may override any
// subset of the defaults; CLI flags are applied on top of that by the cli package.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultListingURL = "https://www.maryhalvorson.com/upcoming-dates"
	DefaultOutput     = "docs/mary.ics"
	DefaultTimeout    = 30 * time.Second
	DefaultDuration   = 2 * time.Hour
	DefaultStrategy   = StrategyDetail
	DefaultRenderer   = RendererHTTP
)

// Extraction strategies
const (
	// StrategyDetail visits every linked detail page.
	StrategyDetail = "detail"
	// StrategyListing reads everything from the listing page.
	StrategyListing = "listing"
)

// Page renderers
const (
	RendererHTTP     = "http"
	RendererChromium = "chromium"
)

// ErrInvalid is wrapped by every validation failure
var ErrInvalid = errors.New("invalid config")

// Config is the top-level run configuration.
type Config struct {
	// ListingURL is the page enumerating upcoming events.
	ListingURL string `yaml:"listing_url"`

	// Output is the path of the .ics file. It is fully overwritten each run.
	Output string `yaml:"output"`

	// Strategy is "detail" or "listing".
	Strategy string `yaml:"strategy"`

	// Renderer is "http" (plain GET) or "chromium" (headless browser).
	Renderer string `yaml:"renderer"`

	// Timeout bounds each page fetch.
	Timeout time.Duration `yaml:"timeout"`

	// EventDuration is the length given to every event.
	EventDuration time.Duration `yaml:"event_duration"`

	// CalendarName is written as X-WR-CALNAME when set.
	CalendarName string `yaml:"calendar_name"`

	// UserAgent is sent on every request when set.
	UserAgent string `yaml:"user_agent"`

	// SkipFailedDetails turns a failed detail-page fetch into a skipped
	// record instead of a failed run.
	SkipFailedDetails bool `yaml:"skip_failed_details"`

	// MetricsFile, when set, receives run metrics in prometheus text format.
	MetricsFile string `yaml:"metrics_file"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ListingURL:    DefaultListingURL,
		Output:        DefaultOutput,
		Strategy:      DefaultStrategy,
		Renderer:      DefaultRenderer,
		Timeout:       DefaultTimeout,
		EventDuration: DefaultDuration,
		LogLevel:      "info",
		LogFormat:     "text",
	}
}

// Load reads path and returns the resulting configuration. An empty path
// returns Default(). Keys missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills values an explicit empty YAML key may have cleared
func (c *Config) applyDefaults() {
	d := Default()
	if c.ListingURL == "" {
		c.ListingURL = d.ListingURL
	}
	if c.Output == "" {
		c.Output = d.Output
	}
	if c.Strategy == "" {
		c.Strategy = d.Strategy
	}
	if c.Renderer == "" {
		c.Renderer = d.Renderer
	}
	if c.Timeout == 0 {
		c.Timeout = d.Timeout
	}
	if c.EventDuration == 0 {
		c.EventDuration = d.EventDuration
	}
	if c.LogLevel == "" {
		c.LogLevel = d.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = d.LogFormat
	}
}

// Validate checks that the configuration can drive a run
func (c *Config) Validate() error {
	u, err := url.Parse(c.ListingURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: listing_url must be an absolute http(s) URL, got %q", ErrInvalid, c.ListingURL)
	}

	if strings.TrimSpace(c.Output) == "" {
		return fmt.Errorf("%w: output must not be empty", ErrInvalid)
	}

	switch c.Strategy {
	case StrategyDetail, StrategyListing:
	default:
		return fmt.Errorf("%w: strategy must be %q or %q, got %q", ErrInvalid, StrategyDetail, StrategyListing, c.Strategy)
	}

	switch c.Renderer {
	case RendererHTTP, RendererChromium:
	default:
		return fmt.Errorf("%w: renderer must be %q or %q, got %q", ErrInvalid, RendererHTTP, RendererChromium, c.Renderer)
	}

	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalid, c.Timeout)
	}
	if c.EventDuration <= 0 {
		return fmt.Errorf("%w: event_duration must be positive, got %s", ErrInvalid, c.EventDuration)
	}

	return nil
}
