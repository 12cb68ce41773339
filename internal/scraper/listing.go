package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/gigcal/internal/event"
	"github.com/pfrederiksen/gigcal/internal/metrics"
)

// stopText ends the sibling walk; it labels the link to the detail page
const stopText = "learn more"

// ListingStrategy reads events from the listing page alone. Each event link
// is a candidate, including repeats of the same link.
type ListingStrategy struct{}

// Name implements Strategy
func (s *ListingStrategy) Name() string {
	return "listing"
}

// Extract implements Strategy
func (s *ListingStrategy) Extract(ctx context.Context, f Fetcher, listingURL string) (*Extraction, error) {
	doc, err := f.Fetch(ctx, listingURL)
	if err != nil {
		return nil, fmt.Errorf("fetching listing page: %w", err)
	}
	return parseListing(doc, listingURL), nil
}

// parseListing takes each event link's text as the title and the texts
// following the link's parent element as date and venue. Candidates without
// a date are dropped without a warning.
func parseListing(doc *goquery.Document, listingURL string) *Extraction {
	ext := &Extraction{}

	doc.FindMatcher(eventLinks).Each(func(_ int, a *goquery.Selection) {
		ext.Candidates++

		title := VisibleText(a)
		if title == "" {
			ext.skip(metrics.ReasonNoTitle)
			return
		}

		texts := TrailingTexts(a.Nodes[0].Parent, 2, stopText)
		if len(texts) == 0 || !event.IsDateText(texts[0]) {
			ext.skip(metrics.ReasonNoDate)
			return
		}

		href, _ := a.Attr("href")
		rec := event.Record{
			Title:    title,
			DateText: texts[0],
			URL:      resolveLink(doc, listingURL, href),
		}
		if len(texts) > 1 {
			rec.Venue = texts[1]
		}
		ext.Records = append(ext.Records, rec)
	})

	return ext
}
