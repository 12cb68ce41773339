package scraper

import (
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/pfrederiksen/gigcal/internal/event"
)

// EventLinkSelector matches links to event detail pages
const EventLinkSelector = `a[href*="/event-details/"]`

var (
	eventLinks = cascadia.MustCompile(EventLinkSelector)
	headings   = cascadia.MustCompile("h1, h2")
)

// Extraction is the outcome of running a Strategy over a listing page
type Extraction struct {
	// Candidates is the number of event links considered. Zero means the
	// listing page had nothing to extract.
	Candidates int
	// Records holds the usable records in listing order.
	Records []event.Record
	// Skipped counts dropped candidates by reason.
	Skipped map[string]int
}

func (e *Extraction) skip(reason string) {
	if e.Skipped == nil {
		e.Skipped = make(map[string]int)
	}
	e.Skipped[reason]++
}

// Strategy extracts raw event records starting from a listing page
type Strategy interface {
	Name() string
	Extract(ctx context.Context, f Fetcher, listingURL string) (*Extraction, error)
}

// Options configures the strategies built by NewStrategy
type Options struct {
	// SkipFailedDetails makes the detail strategy skip a detail page that
	// cannot be fetched instead of failing the run.
	SkipFailedDetails bool
}

// NewStrategy returns the strategy registered under name
func NewStrategy(name string, opts Options) (Strategy, error) {
	switch name {
	case "detail":
		return &DetailStrategy{SkipFailed: opts.SkipFailedDetails}, nil
	case "listing":
		return &ListingStrategy{}, nil
	default:
		return nil, fmt.Errorf("unknown extraction strategy: %q", name)
	}
}

// EventLinks returns the absolute URLs of all event links in doc, without
// duplicates, in the order they first appear
func EventLinks(doc *goquery.Document, listingURL string) []string {
	links := make([]string, 0)
	seen := make(map[string]bool)

	doc.FindMatcher(eventLinks).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		link := resolveLink(doc, listingURL, href)
		if link == "" || seen[link] {
			return
		}
		seen[link] = true
		links = append(links, link)
	})

	return links
}
