package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pfrederiksen/gigcal/internal/config"
	"github.com/pfrederiksen/gigcal/internal/logger"
	"github.com/pfrederiksen/gigcal/internal/pipeline"
)

const (
	ExitSuccess  = pipeline.ExitSuccess
	ExitError    = 1
	ExitNoEvents = pipeline.ExitNoEvents
)

// Version is set at build time with -ldflags "-X .../internal/cli.Version=..."
var Version = "dev"

// options holds the values of the root command's flags
type options struct {
	configPath   string
	listingURL   string
	output       string
	strategy     string
	renderer     string
	calendarName string
	userAgent    string
	metricsFile  string
	logLevel     string
	logFormat    string
	timeout      time.Duration
	duration     time.Duration
	skipFailed   bool
	format       string
	verbose      bool
}

// NewRootCmd creates the root command. The exit code of a finished run is
// stored in code.
func NewRootCmd(code *int) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "gigcal",
		Short: "Build an iCalendar file from a band's upcoming dates page",
		Long: `gigcal scrapes a band's "upcoming dates" page, extracts the title,
date, venue and link of each event and writes them to an .ics file.

Exit codes: 0 when at least one event was written, 1 on error,
2 when no event links were found or no event could be added.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScrape(cmd, opts, code)
		},
	}

	bindFlags(cmd.Flags(), opts)
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// bindFlags defines the root command's flags on fs
func bindFlags(fs *pflag.FlagSet, o *options) {
	d := config.Default()

	fs.StringVarP(&o.configPath, "config", "c", "", "Path to a YAML config file")
	fs.StringVar(&o.listingURL, "url", d.ListingURL, "Listing page URL")
	fs.StringVarP(&o.output, "output", "o", d.Output, "Path of the .ics file to write")
	fs.StringVar(&o.strategy, "strategy", d.Strategy, "Extraction strategy: detail or listing")
	fs.StringVar(&o.renderer, "renderer", d.Renderer, "Page renderer: http or chromium")
	fs.DurationVar(&o.timeout, "timeout", d.Timeout, "Timeout for each page fetch")
	fs.DurationVar(&o.duration, "duration", d.EventDuration, "Duration given to every event")
	fs.StringVar(&o.calendarName, "calendar-name", "", "Calendar name (X-WR-CALNAME)")
	fs.StringVar(&o.userAgent, "user-agent", "", "User-Agent header sent with every request")
	fs.BoolVar(&o.skipFailed, "skip-failed-details", false, "Skip detail pages that fail to load instead of aborting")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "Write run metrics to this file in prometheus text format")
	fs.StringVar(&o.logLevel, "log-level", d.LogLevel, "Log level: debug, info, warn or error")
	fs.StringVar(&o.logFormat, "log-format", d.LogFormat, "Log format: text or json")
	fs.StringVar(&o.format, "format", "text", "Summary format: text or json")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "Enable debug logging and a detailed summary")
}

// applyFlags copies explicitly set flags over cfg
func applyFlags(fs *pflag.FlagSet, o *options, cfg *config.Config) {
	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}

	set("url", func() { cfg.ListingURL = o.listingURL })
	set("output", func() { cfg.Output = o.output })
	set("strategy", func() { cfg.Strategy = o.strategy })
	set("renderer", func() { cfg.Renderer = o.renderer })
	set("timeout", func() { cfg.Timeout = o.timeout })
	set("duration", func() { cfg.EventDuration = o.duration })
	set("calendar-name", func() { cfg.CalendarName = o.calendarName })
	set("user-agent", func() { cfg.UserAgent = o.userAgent })
	set("skip-failed-details", func() { cfg.SkipFailedDetails = o.skipFailed })
	set("metrics-file", func() { cfg.MetricsFile = o.metricsFile })
	set("log-level", func() { cfg.LogLevel = o.logLevel })
	set("log-format", func() { cfg.LogFormat = o.logFormat })

	if o.verbose {
		cfg.LogLevel = "debug"
	}
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, opts *options, code *int) error {
	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logFormat, err := logger.ParseFormat(cfg.LogFormat)
	if err != nil {
		return err
	}
	prev := logger.Default()
	logger.SetDefault(logger.New(level, logFormat, cmd.ErrOrStderr()))
	defer logger.SetDefault(prev)

	logger.Debug("starting run", logger.Fields{
		"url":      cfg.ListingURL,
		"strategy": cfg.Strategy,
		"renderer": cfg.Renderer,
		"output":   cfg.Output,
	})

	result, err := pipeline.Run(cmd.Context(), cfg, pipeline.Options{})
	if err != nil {
		return err
	}

	if err := WriteOutput(cmd.OutOrStdout(), result, format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	*code = result.ExitCode()
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gigcal version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gigcal %s\n", Version)
		},
	}
}

// Run executes the CLI with args and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	code := ExitSuccess
	cmd := NewRootCmd(&code)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return code
}

// Execute runs the CLI and exits. SIGINT and SIGTERM cancel the run.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
