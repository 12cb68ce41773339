package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// invisible elements whose text is never shown to a reader
var invisible = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Template: true,
	atom.Noscript: true,
}

// collapse trims s and replaces every run of whitespace, including
// non-breaking spaces, with a single space
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// VisibleText returns the visible text of all nodes in sel, whitespace collapsed
func VisibleText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return collapse(b.String())
}

// NodeText returns the visible text of n, whitespace collapsed
func NodeText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return collapse(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if invisible[n.DataAtom] {
			return
		}
	case html.CommentNode, html.DoctypeNode:
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
}

// StrippedStrings returns every non-empty visible text node under n in
// document order, each with whitespace collapsed
func StrippedStrings(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if s := collapse(n.Data); s != "" {
				out = append(out, s)
			}
			return
		case html.ElementNode:
			if invisible[n.DataAtom] {
				return
			}
		case html.CommentNode, html.DoctypeNode:
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

// TrailingTexts walks the siblings after n in document order and collects
// up to limit non-empty visible texts. The walk stops before a sibling whose
// text equals stop, ignoring case.
func TrailingTexts(n *html.Node, limit int, stop string) []string {
	if n == nil {
		return nil
	}

	var out []string
	for sib := n.NextSibling; sib != nil && len(out) < limit; sib = sib.NextSibling {
		text := NodeText(sib)
		if text == "" {
			continue
		}
		if stop != "" && strings.EqualFold(text, stop) {
			break
		}
		out = append(out, text)
	}
	return out
}

// resolveLink resolves href against the document URL, falling back to base
// when the document has none. It returns "" for unparseable input.
func resolveLink(doc *goquery.Document, base, href string) string {
	baseURL := doc.Url
	if baseURL == nil {
		u, err := url.Parse(base)
		if err != nil {
			return ""
		}
		baseURL = u
	}

	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(ref).String()
}
