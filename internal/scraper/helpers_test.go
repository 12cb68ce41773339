package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

// fakeFetcher serves pages from memory and records the URLs requested
type fakeFetcher struct {
	pages   map[string]string
	errs    map[string]error
	fetched []string
}

func (f *fakeFetcher) Fetch(ctx context.Context, u string) (*goquery.Document, error) {
	f.fetched = append(f.fetched, u)
	if err := f.errs[u]; err != nil {
		return nil, err
	}
	page, ok := f.pages[u]
	if !ok {
		return nil, fmt.Errorf("%w: 404", ErrUnexpectedStatus)
	}
	return mustDocument(nil, u, page), nil
}

func mustDocument(t *testing.T, u, page string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		if t != nil {
			t.Fatalf("parsing fixture: %v", err)
		}
		panic(err)
	}
	doc.Url, _ = url.Parse(u)
	return doc
}
