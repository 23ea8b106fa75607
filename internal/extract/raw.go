package extract

import (
	"slices"

	"og-scraper/internal/fields"
)

// Raw maps output field names to their collected values in document order.
// A key is present only if the document mentioned the field; single-valued
// fields hold exactly one element.
type Raw map[string][]string

// Has reports whether name was collected.
func (r Raw) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// First returns the first collected value of name.
func (r Raw) First(name string) (string, bool) {
	v, ok := r[name]
	if !ok || len(v) == 0 {
		return "", false
	}
	return v[0], true
}

// The first attribute present names the tag, even when it is empty.
var (
	propertyAttrs = []string{"property", "name", "http-equiv", "httpEquiv"}
	contentAttrs  = []string{"content", "value"}
)

func firstAttr(el Element, names []string) (string, bool) {
	for _, n := range names {
		if v, ok := el.Attr(n); ok {
			return v, true
		}
	}
	return "", false
}

// ExtractRaw folds meta elements into a Raw record. Unknown properties are
// skipped. Multiple fields append every occurrence; single fields keep the
// first occurrence that carries content.
func ExtractRaw(elems []Element, schema *fields.Schema) Raw {
	raw := Raw{}
	for _, el := range elems {
		prop, ok := firstAttr(el, propertyAttrs)
		if !ok {
			continue
		}
		f, ok := schema.Lookup(prop)
		if !ok {
			continue
		}
		content, hasContent := firstAttr(el, contentAttrs)
		if f.Multiple {
			// keep positions aligned with sibling columns even without content
			raw[f.Name] = append(raw[f.Name], content)
			continue
		}
		if raw.Has(f.Name) || !hasContent {
			continue
		}
		raw[f.Name] = []string{content}
	}
	raw.resolveImage()
	return raw
}

// resolveImage substitutes og:image from og:image:url, then from
// og:image:secure_url, and drops it when nothing was found.
func (r Raw) resolveImage() {
	if !r.Has("ogImage") {
		switch {
		case r.Has("ogImageURL"):
			r["ogImage"] = slices.Clone(r["ogImageURL"])
		case r.Has("ogImageSecureURL"):
			r["ogImage"] = slices.Clone(r["ogImageSecureURL"])
		}
	}
	if len(r["ogImage"]) == 0 {
		delete(r, "ogImage")
	}
}
