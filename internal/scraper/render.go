package scraper

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
)

// BrowserFetcher renders pages in headless Chromium before parsing them.
// It needs a Chrome or Chromium binary on PATH. HTTP status codes are not
// visible through the browser, so only navigation failures are errors.
type BrowserFetcher struct {
	timeout time.Duration
}

// NewBrowserFetcher creates a BrowserFetcher. A non-positive timeout uses
// DefaultTimeout.
func NewBrowserFetcher(timeout time.Duration) *BrowserFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &BrowserFetcher{timeout: timeout}
}

// Fetch navigates to url and parses the rendered document
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	base, err := neturl.Parse(url)
	if err != nil {
		return nil, fmt.Errorf("parsing url: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	ctx, cancelBrowser := chromedp.NewContext(ctx)
	defer cancelBrowser()

	var rendered string
	if err := chromedp.Run(ctx,
		chromedp.Navigate(url),
		chromedp.OuterHTML("html", &rendered, chromedp.ByQuery),
	); err != nil {
		return nil, fmt.Errorf("rendering page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rendered))
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = base

	return doc, nil
}
