// Package pipeline runs one scrape: fetch the listing, extract records,
// normalize dates, build the calendar and write it to disk.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/pfrederiksen/gigcal/internal/calendar"
	"github.com/pfrederiksen/gigcal/internal/config"
	"github.com/pfrederiksen/gigcal/internal/event"
	"github.com/pfrederiksen/gigcal/internal/logger"
	"github.com/pfrederiksen/gigcal/internal/metrics"
	"github.com/pfrederiksen/gigcal/internal/scraper"
	"github.com/pfrederiksen/gigcal/internal/storage"
)

// Exit codes derived from a finished run
const (
	ExitSuccess  = 0
	ExitNoEvents = 2
)

// Result summarizes a finished run
type Result struct {
	Strategy   string         `json:"strategy"`
	ListingURL string         `json:"listing_url"`
	Candidates int            `json:"candidates"`
	Extracted  int            `json:"extracted"`
	Added      int            `json:"added"`
	Skipped    map[string]int `json:"skipped,omitempty"`
	OutputPath string         `json:"output_path,omitempty"`
	Written    bool           `json:"written"`
	FinishedAt time.Time      `json:"finished_at"`
}

// ExitCode is ExitSuccess when at least one event was added
func (r *Result) ExitCode() int {
	if r.Added > 0 {
		return ExitSuccess
	}
	return ExitNoEvents
}

// TotalSkipped sums Skipped over all reasons
func (r *Result) TotalSkipped() int {
	total := 0
	for _, n := range r.Skipped {
		total += n
	}
	return total
}

func (r *Result) skip(reason string, n int) {
	if r.Skipped == nil {
		r.Skipped = make(map[string]int)
	}
	r.Skipped[reason] += n
}

// Options carries optional collaborators for Run
type Options struct {
	// Fetcher replaces the fetcher built from the configured renderer.
	Fetcher scraper.Fetcher
	// Metrics receives run metrics. A fresh Recorder is used when nil.
	Metrics *metrics.Recorder
	// Now stamps DTSTAMP and the result. Defaults to time.Now.
	Now func() time.Time
}

// NewFetcher builds the fetcher for cfg.Renderer
func NewFetcher(cfg *config.Config) (scraper.Fetcher, error) {
	switch cfg.Renderer {
	case config.RendererHTTP, "":
		return scraper.NewHTTPFetcher(cfg.Timeout, cfg.UserAgent), nil
	case config.RendererChromium:
		return scraper.NewBrowserFetcher(cfg.Timeout), nil
	default:
		return nil, fmt.Errorf("unknown renderer: %q", cfg.Renderer)
	}
}

// Run performs one scrape with cfg. A nil error with a non-zero ExitCode
// means the run finished but produced no events. Errors are fatal: the
// listing or a detail page could not be fetched, or the calendar could not
// be written.
func Run(ctx context.Context, cfg *config.Config, opts Options) (*Result, error) {
	started := time.Now()
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rec := opts.Metrics
	if rec == nil {
		rec = metrics.New()
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		var err error
		fetcher, err = NewFetcher(cfg)
		if err != nil {
			return nil, err
		}
	}
	fetcher = scraper.Instrument(fetcher, func(url string, err error, elapsed time.Duration) {
		kind := "detail"
		if url == cfg.ListingURL {
			kind = "listing"
		}
		rec.ObserveFetch(kind, err, elapsed)
		logger.Debug("fetched page", logger.Fields{
			"url":        url,
			"kind":       kind,
			"elapsed_ms": elapsed.Milliseconds(),
			"ok":         err == nil,
		})
	})

	strategy, err := scraper.NewStrategy(cfg.Strategy, scraper.Options{
		SkipFailedDetails: cfg.SkipFailedDetails,
	})
	if err != nil {
		return nil, err
	}

	ext, err := strategy.Extract(ctx, fetcher, cfg.ListingURL)
	if err != nil {
		return nil, fmt.Errorf("extracting events: %w", err)
	}

	result := &Result{
		Strategy:   strategy.Name(),
		ListingURL: cfg.ListingURL,
		Candidates: ext.Candidates,
		Extracted:  len(ext.Records),
	}
	rec.AddExtracted(len(ext.Records))
	for reason, n := range ext.Skipped {
		result.skip(reason, n)
		for i := 0; i < n; i++ {
			rec.IncrSkipped(reason)
		}
	}

	if ext.Candidates == 0 {
		logger.Error("no events found on listing page", logger.Fields{"url": cfg.ListingURL}, nil)
		finish(cfg, rec, result, now(), started)
		return result, nil
	}

	builder := calendar.NewBuilder(calendar.Options{
		Name: cfg.CalendarName,
		Now:  now,
	})
	for _, r := range ext.Records {
		evt, err := event.Normalize(r, cfg.EventDuration)
		if err != nil {
			logger.Warn("skipping event with unparseable date", logger.Fields{
				"title": r.Title,
				"date":  r.DateText,
				"url":   r.URL,
				"error": err.Error(),
			})
			result.skip(metrics.ReasonBadDate, 1)
			rec.IncrSkipped(metrics.ReasonBadDate)
			continue
		}
		builder.Add(evt)
		logger.Debug("added event", logger.Fields{
			"title": evt.Title,
			"start": calendar.FormatFloating(evt.Start),
			"end":   calendar.FormatFloating(evt.End()),
		})
	}
	result.Added = builder.Len()

	store, err := storage.New(cfg.Output)
	if err != nil {
		return result, fmt.Errorf("resolving output path: %w", err)
	}
	if err := store.Write([]byte(builder.Serialize())); err != nil {
		return result, err
	}
	result.Written = true
	result.OutputPath = store.Path()

	logger.Info(fmt.Sprintf("wrote %d events to %s", result.Added, result.OutputPath), logger.Fields{
		"events":  result.Added,
		"skipped": result.TotalSkipped(),
	})
	if result.Added == 0 {
		logger.Warn("calendar written without events", logger.Fields{"path": result.OutputPath})
	}

	finish(cfg, rec, result, now(), started)
	return result, nil
}

// finish stamps the result and flushes metrics. A metrics write failure is
// logged and does not fail the run.
func finish(cfg *config.Config, rec *metrics.Recorder, result *Result, at time.Time, started time.Time) {
	result.FinishedAt = at
	rec.SetWritten(result.Added, at)
	rec.RecordRun(time.Since(started))

	if cfg.MetricsFile == "" {
		return
	}
	path, err := storage.ExpandHome(cfg.MetricsFile)
	if err != nil {
		logger.Warn("metrics file not written", logger.Fields{"path": cfg.MetricsFile, "error": err.Error()})
		return
	}
	if err := rec.WriteTextfile(path); err != nil {
		logger.Warn("metrics file not written", logger.Fields{"path": path, "error": err.Error()})
	}
}
