// Package batch turns scrapes into output records and runs many of them
// with bounded concurrency. Both the CLI and the server go through it.
package batch

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"og-scraper/internal/classifier"
	"og-scraper/internal/models"
	"og-scraper/pkg/ogscraper"
)

const DefaultTopics = 15

type Runner struct {
	Scraper     *ogscraper.Scraper
	Classifier  *classifier.Classifier
	Concurrency int
	Topics      int
}

func New(s *ogscraper.Scraper, concurrency int) *Runner {
	return &Runner{
		Scraper:     s,
		Classifier:  classifier.New(),
		Concurrency: concurrency,
		Topics:      DefaultTopics,
	}
}

// Record scrapes once. Failures are reported in the record, never returned.
func (r *Runner) Record(ctx context.Context, opts ogscraper.Options) models.ScrapeRecord {
	start := time.Now()
	res, err := r.Scraper.Scrape(ctx, opts)
	rec := models.ScrapeRecord{
		SourceURL: opts.URL,
		FetchMs:   time.Since(start).Milliseconds(),
	}
	if err != nil {
		rec.Error = err.Error()
		rec.ErrorKind = ogscraper.KindOf(err).String()
		rec.Topics = []string{}
		return rec
	}
	rec.Result = res
	rec.Class = r.Classifier.Classify(res)
	rec.Topics = r.Classifier.TopTopics(classifier.Text(res), r.Topics)
	return rec
}

// Run scrapes every url and returns the records in input order. It stops
// starting new scrapes once ctx is done and returns ctx's error.
func (r *Runner) Run(ctx context.Context, urls []string, options func(string) ogscraper.Options) ([]models.ScrapeRecord, error) {
	out := make([]models.ScrapeRecord, len(urls))
	err := r.each(ctx, urls, func(i int, u string) error {
		out[i] = r.Record(ctx, options(u))
		return nil
	})
	return out, err
}

// Stream scrapes every url and hands each record to emit as it completes.
// emit is never called concurrently; its first error aborts the batch.
func (r *Runner) Stream(ctx context.Context, urls []string, options func(string) ogscraper.Options, emit func(models.ScrapeRecord) error) error {
	var mu sync.Mutex
	return r.each(ctx, urls, func(_ int, u string) error {
		rec := r.Record(ctx, options(u))
		mu.Lock()
		defer mu.Unlock()
		return emit(rec)
	})
}

func (r *Runner) each(ctx context.Context, urls []string, fn func(int, string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(r.Concurrency, 1))
	for i, u := range urls {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i, u)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
