// Package htmldoc parses HTML pages into trees the dictionary extractors can
// navigate with CSS selectors.
package htmldoc

import (
	"bytes"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/japaniel/nvlookup/pkg/dictionary"
)

// Document is a parsed page.
type Document struct {
	doc *goquery.Document
}

// Parse reads an HTML document from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("htmldoc: parse: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseBytes parses an HTML document held in memory.
func ParseBytes(body []byte) (*Document, error) {
	return Parse(bytes.NewReader(body))
}

// Root returns the document node.
func (d *Document) Root() dictionary.Node {
	return node{sel: d.doc.Selection}
}

// Title returns the text of the <title> element, if any.
func (d *Document) Title() string {
	return d.doc.Find("title").First().Text()
}

type node struct {
	sel *goquery.Selection
}

func (n node) Find(selector string) []dictionary.Node {
	found := n.sel.FindMatcher(compile(selector))
	out := make([]dictionary.Node, 0, found.Length())
	found.Each(func(_ int, s *goquery.Selection) {
		out = append(out, node{sel: s})
	})
	return out
}

func (n node) Text() string {
	return n.sel.Text()
}

func (n node) Markup() string {
	markup, err := goquery.OuterHtml(n.sel)
	if err != nil {
		return ""
	}
	return markup
}

// selectors caches compiled selectors; the extractors reuse a handful of
// them for every page.
var selectors sync.Map // string -> cascadia.Selector

// compile returns the compiled form of sel. An invalid selector matches
// nothing.
func compile(sel string) cascadia.Selector {
	if cached, ok := selectors.Load(sel); ok {
		return cached.(cascadia.Selector)
	}
	compiled, err := cascadia.Compile(sel)
	if err != nil {
		compiled = func(*html.Node) bool { return false }
	}
	selectors.Store(sel, compiled)
	return compiled
}
