// Package extract turns the meta tags of a parsed document into a
// structured Open Graph / Twitter Card result.
//
// Extraction runs in three passes: ExtractRaw folds meta elements into a Raw
// record following the field schema, Group zips the per-attribute media
// columns into typed records, and ApplyFallbacks fills title, description
// and images from the document body when the tags are missing. Every pass
// is pure; concurrent calls share nothing but the immutable schema.
package extract

import (
	"og-scraper/internal/fields"
	"og-scraper/internal/models"
)

// Element is a single tag of a parsed document.
type Element interface {
	Attr(name string) (string, bool)
}

// Document is the query surface extraction needs from a parsed page.
type Document interface {
	// Elements returns every element with the given tag name in document order.
	Elements(tag string) []Element
	// Text returns the combined text of all elements matching selector.
	Text(selector string) string
	// Attr reads an attribute from the first element matching selector.
	Attr(selector, name string) (string, bool)
}

type Options struct {
	// OnlyOpenGraph disables every document fallback.
	OnlyOpenGraph bool
	// ImageFallback enables the <img> scan when no og:image was found.
	ImageFallback bool
	// Schema defaults to fields.Default().
	Schema *fields.Schema
}

// DefaultOptions mirrors the library defaults: fallbacks on, image scan on.
func DefaultOptions() Options {
	return Options{ImageFallback: true, Schema: fields.Default()}
}

// Extract runs the full pipeline over doc.
func Extract(doc Document, opts Options) *models.Result {
	schema := opts.Schema
	if schema == nil {
		schema = fields.Default()
	}
	raw := ExtractRaw(doc.Elements("meta"), schema)
	res := Group(raw, schema)
	ApplyFallbacks(doc, res, opts)
	return res
}
