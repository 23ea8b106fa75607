package parser

import (
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"og-scraper/internal/extract"
)

// Document adapts a goquery document to extract.Document.
type Document struct {
	doc     *goquery.Document
	charset string
}

var _ extract.Document = (*Document)(nil)

// Charset is the encoding the body was decoded from, empty for inline markup.
func (d *Document) Charset() string { return d.charset }

// Selection exposes the underlying goquery selection.
func (d *Document) Selection() *goquery.Selection { return d.doc.Selection }

func (d *Document) Elements(tag string) []extract.Element {
	nodes := d.query(tag)
	out := make([]extract.Element, len(nodes))
	for i, n := range nodes {
		out[i] = element{n}
	}
	return out
}

func (d *Document) Text(selector string) string {
	nodes := d.query(selector)
	if len(nodes) == 0 {
		return ""
	}
	return d.doc.FindNodes(nodes...).Text()
}

func (d *Document) Attr(selector, name string) (string, bool) {
	nodes := d.query(selector)
	if len(nodes) == 0 {
		return "", false
	}
	return element{nodes[0]}.Attr(name)
}

func (d *Document) query(selector string) []*html.Node {
	m := compiled(selector)
	if m == nil {
		return nil
	}
	var out []*html.Node
	for _, root := range d.doc.Nodes {
		out = append(out, cascadia.QueryAll(root, m)...)
	}
	return out
}

// selectors caches compiled matchers; extraction asks for the same handful
// on every document.
var selectors sync.Map

func compiled(selector string) cascadia.Matcher {
	if m, ok := selectors.Load(selector); ok {
		return m.(cascadia.Matcher)
	}
	m, err := cascadia.Compile(selector)
	if err != nil {
		return nil
	}
	selectors.Store(selector, m)
	return m
}

type element struct{ n *html.Node }

// Attr matches attribute names case-insensitively; the HTML tokenizer has
// already lower-cased them.
func (e element) Attr(name string) (string, bool) {
	for _, a := range e.n.Attr {
		if a.Namespace == "" && strings.EqualFold(a.Key, name) {
			return a.Val, true
		}
	}
	return "", false
}
