package ogscraper

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"og-scraper/internal/extract"
	"og-scraper/internal/fields"
)

// DefaultTimeout bounds a fetch when Options.Timeout is not set.
const DefaultTimeout = 2000 * time.Millisecond

// Field declares an extra meta property to extract.
type Field = fields.Field

// Options configures one Scrape call. Exactly one of URL and HTML is set.
type Options struct {
	URL  string
	HTML string

	Timeout time.Duration
	// Blacklist entries block an exact URL, or any URL on the same scheme,
	// host and port whose path starts with the entry's path.
	Blacklist []string
	Headers   map[string]string
	// Encoding forces a charset label instead of sniffing the response.
	Encoding string
	// PeekSize bounds the charset sniff window.
	PeekSize    int
	WithCharset bool

	OnlyGetOpenGraphInfo bool
	// OGImageFallback enables the <img> scan; nil means true.
	OGImageFallback *bool
	// FixArticleSection maps article:section to articleSection instead of
	// sharing the articlePublishedTime slot.
	FixArticleSection bool
	ExtraFields       []Field
}

func (o Options) schema() (*fields.Schema, error) {
	base := fields.Default()
	if o.FixArticleSection {
		base = fields.Corrected()
	}
	if len(o.ExtraFields) == 0 {
		return base, nil
	}
	return base.Extend(o.ExtraFields)
}

func (o Options) extractOptions(schema *fields.Schema) extract.Options {
	return extract.Options{
		OnlyOpenGraph: o.OnlyGetOpenGraphInfo,
		ImageFallback: o.OGImageFallback == nil || *o.OGImageFallback,
		Schema:        schema,
	}
}

var schemePrefix = regexp.MustCompile(`(?i)^(f|ht)tps?://`)

// normalizeURL prefixes scheme-less input with http:// and rejects
// anything that still lacks a host.
func normalizeURL(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if !schemePrefix.MatchString(raw) {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "", false
	}
	return raw, true
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// blacklisted reports whether target matches any blacklist entry.
func blacklisted(target string, list []string) bool {
	req, err := url.Parse(target)
	if err != nil {
		return false
	}
	for _, site := range list {
		if site == target {
			return true
		}
		s, err := url.Parse(site)
		if err != nil {
			continue
		}
		if !strings.EqualFold(s.Scheme, req.Scheme) ||
			!strings.EqualFold(s.Hostname(), req.Hostname()) ||
			s.Port() != req.Port() {
			continue
		}
		if req.Path == "" || strings.HasPrefix(req.Path, s.Path) {
			return true
		}
	}
	return false
}
