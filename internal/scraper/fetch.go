package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page fetch
const DefaultTimeout = 30 * time.Second

// ErrUnexpectedStatus is wrapped when a page responds with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status code")

// Fetcher retrieves a page and parses it into a document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// FetcherFunc adapts a function to the Fetcher interface
type FetcherFunc func(ctx context.Context, url string) (*goquery.Document, error)

// Fetch calls f(ctx, url)
func (f FetcherFunc) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	return f(ctx, url)
}

// HTTPFetcher fetches pages with a single GET request. It does not retry.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates an HTTPFetcher. A non-positive timeout uses
// DefaultTimeout. userAgent is only sent when non-empty.
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Fetch GETs url and parses the body. Any non-2xx status is an error.
// The document's Url is the final URL after redirects.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	doc.Url = resp.Request.URL

	return doc, nil
}

// ObserveFunc receives the outcome of every fetch made through Instrument
type ObserveFunc func(url string, err error, elapsed time.Duration)

// Instrument wraps f so that every fetch is reported to observe
func Instrument(f Fetcher, observe ObserveFunc) Fetcher {
	return FetcherFunc(func(ctx context.Context, url string) (*goquery.Document, error) {
		start := time.Now()
		doc, err := f.Fetch(ctx, url)
		observe(url, err, time.Since(start))
		return doc, err
	})
}
