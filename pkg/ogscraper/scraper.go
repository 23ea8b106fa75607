// Package ogscraper fetches a page, or takes inline HTML, and returns its
// Open Graph, Twitter Card and related meta data as a structured Result.
//
//	res, err := ogscraper.Scrape(ctx, ogscraper.Options{URL: "example.com"})
//	if errors.Is(err, ogscraper.ErrNotFound) { ... }
//	fmt.Println(res.Title(), res.OGImage)
package ogscraper

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"og-scraper/internal/crawler"
	"og-scraper/internal/extract"
	"og-scraper/internal/models"
	"og-scraper/internal/parser"
)

type Result = models.Result

// Fetcher retrieves a page body. *crawler.HTTPClient is the default.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, headers map[string]string) (*crawler.Response, error)
}

// Observer receives one call per Scrape and per successful fetch.
type Observer interface {
	ObserveScrape(outcome string, d time.Duration)
	ObserveFetch(status, bytes int, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveScrape(string, time.Duration)  {}
func (nopObserver) ObserveFetch(int, int, time.Duration) {}

type Scraper struct {
	client Fetcher
	log    *slog.Logger
	obs    Observer
}

type Option func(*Scraper)

func WithClient(f Fetcher) Option { return func(s *Scraper) { s.client = f } }

func WithLogger(l *slog.Logger) Option { return func(s *Scraper) { s.log = l } }

func WithObserver(o Observer) Option { return func(s *Scraper) { s.obs = o } }

func New(opts ...Option) *Scraper {
	s := &Scraper{}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	if s.obs == nil {
		s.obs = nopObserver{}
	}
	if s.client == nil {
		// without a cookie jar construction cannot fail
		c, _ := crawler.NewHTTPClient(crawler.Config{Logger: s.log})
		s.client = c
	}
	return s
}

// Scrape extracts metadata from opts.URL or opts.HTML. Failures are *Error.
func (s *Scraper) Scrape(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	res, err := s.scrape(ctx, opts)
	outcome := "ok"
	if err != nil {
		outcome = KindOf(err).String()
		s.log.Debug("scrape failed", "url", opts.URL, "kind", outcome, "error", err)
	}
	s.obs.ObserveScrape(outcome, time.Since(start))
	return res, err
}

func (s *Scraper) scrape(ctx context.Context, opts Options) (*Result, error) {
	schema, err := opts.schema()
	if err != nil {
		return nil, newError(Misconfigured, ErrMisconfigured.Msg, err)
	}
	xopts := opts.extractOptions(schema)

	if opts.HTML != "" {
		if opts.URL != "" {
			return nil, newError(InvalidInput, "must specify either url or html, not both", nil)
		}
		doc, err := parser.ParseString(opts.HTML)
		if err != nil {
			return nil, newError(InvalidInput, "unparsable html", err)
		}
		return extract.Extract(doc, xopts), nil
	}

	target, ok := normalizeURL(opts.URL)
	if !ok {
		return nil, newError(InvalidInput, "invalid url", nil)
	}
	if blacklisted(target, opts.Blacklist) {
		return nil, newError(Blacklisted, ErrBlacklisted.Msg, nil)
	}

	ctx, cancel := context.WithTimeout(ctx, opts.timeout())
	defer cancel()
	resp, err := s.client.Fetch(ctx, target, opts.Headers)
	if err != nil {
		return nil, classify(err)
	}
	s.obs.ObserveFetch(resp.StatusCode, len(resp.Body), resp.Elapsed)

	doc, err := parsePage(bytes.NewReader(resp.Body), resp.ContentType, opts)
	if err != nil {
		return nil, err
	}
	res := extract.Extract(doc, xopts)
	res.RequestURL = resp.FinalURL
	if opts.WithCharset {
		res.Charset = doc.Charset()
	}
	return res, nil
}

// parsePage decodes and parses a fetched body. Every failure at this stage
// is a DecodingFailure.
func parsePage(body io.Reader, contentType string, opts Options) (*parser.Document, error) {
	p := &parser.Parser{PeekSize: opts.PeekSize}
	doc, err := p.Parse(body, contentType, opts.Encoding)
	if err != nil {
		return nil, newError(DecodingFailure, ErrDecodingFailure.Msg, err)
	}
	return doc, nil
}

var defaultScraper = sync.OnceValue(func() *Scraper { return New() })

// Scrape runs opts through a shared default Scraper.
func Scrape(ctx context.Context, opts Options) (*Result, error) {
	return defaultScraper().Scrape(ctx, opts)
}

// ExtractHTML extracts metadata from inline markup; no request is made.
func ExtractHTML(html string, opts Options) (*Result, error) {
	opts.URL = ""
	opts.HTML = html
	if html == "" {
		return nil, newError(InvalidInput, "empty html", nil)
	}
	return defaultScraper().Scrape(context.Background(), opts)
}
