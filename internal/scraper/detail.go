package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pfrederiksen/gigcal/internal/event"
	"github.com/pfrederiksen/gigcal/internal/logger"
	"github.com/pfrederiksen/gigcal/internal/metrics"
)

// DetailStrategy visits each unique event detail page linked from the
// listing page
type DetailStrategy struct {
	// SkipFailed turns a detail page fetch error into a skipped record.
	SkipFailed bool
}

// Name implements Strategy
func (s *DetailStrategy) Name() string {
	return "detail"
}

// Extract implements Strategy
func (s *DetailStrategy) Extract(ctx context.Context, f Fetcher, listingURL string) (*Extraction, error) {
	listing, err := f.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}

	links := EventLinks(listing, listingURL)
	logger.Info("found event detail links", logger.Fields{"count": len(links)})

	ext := &Extraction{Candidates: len(links)}
	for _, link := range links {
		page, err := f.Fetch(ctx, link)
		if err != nil {
			if !s.SkipFailed || ctx.Err() != nil {
				return nil, fmt.Errorf("fetching detail page %s: %w", link, err)
			}
			logger.Warn("skipping detail page", logger.Fields{"url": link, "error": err.Error()})
			ext.skip(metrics.ReasonFetchFailed)
			continue
		}

		rec, reason := parseDetailPage(page, link)
		if reason != "" {
			ext.skip(reason)
			continue
		}
		ext.Records = append(ext.Records, rec)
	}

	return ext, nil
}

// parseDetailPage reads one event from a detail page. The title is the first
// h1 or h2; the date is the first text matching the listing date format and
// the venue is the text right after it. On failure it returns the skip reason.
func parseDetailPage(doc *goquery.Document, link string) (event.Record, string) {
	if len(doc.Nodes) == 0 {
		return event.Record{}, metrics.ReasonNoTitle
	}
	root := doc.Nodes[0]

	var title string
	if h := cascadia.Query(root, headings); h != nil {
		title = NodeText(h)
	}
	if title == "" {
		return event.Record{}, metrics.ReasonNoTitle
	}

	texts := StrippedStrings(root)
	for i, text := range texts {
		if !event.IsDateText(text) {
			continue
		}
		rec := event.Record{
			Title:    title,
			DateText: text,
			URL:      link,
		}
		if i+1 < len(texts) {
			rec.Venue = texts[i+1]
		}
		return rec, ""
	}

	logger.Warn("no date found", logger.Fields{"url": link})
	return event.Record{}, metrics.ReasonNoDate
}
