// Package scraper fetches event pages and extracts raw event records from them.
//
// Pages are fetched through a Fetcher, either a plain HTTP GET (HTTPFetcher) or a
// headless Chromium render (BrowserFetcher) for pages that build their markup in
// the browser. Both return a goquery document.
//
// Records are extracted by a Strategy. The detail strategy collects the unique
// /event-details/ links on the listing page and reads title, date and venue from
// each linked page. The listing strategy reads everything from the listing page by
// walking the text that follows each event link. Records that cannot be dated are
// dropped here; date normalization happens in the event package.
package scraper
