package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"og-scraper/internal/batch"
	"og-scraper/internal/ioformats"
	"og-scraper/pkg/ogscraper"
)

func newBatchCmd(rf *rootFlags) *cobra.Command {
	var (
		ef          extractFlags
		input       string
		output      string
		format      string
		concurrency int
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Scrape every URL in a CSV, NDJSON or text file",
		Long: `Batch reads a URL list (CSV with a "url" column, NDJSON objects with a
"url" key, or one URL per line) and writes one record per URL, in input
order, as NDJSON or as an XLSX sheet.

Examples:
  og-scrape batch --input urls.csv
  og-scrape batch --input urls.txt --output out.xlsx --concurrency 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(cmd, rf)
			if err != nil {
				return err
			}
			urls, err := ioformats.ReadURLs(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			if len(urls) == 0 {
				return errors.New("no urls in input")
			}
			if format == "" {
				format = "ndjson"
				if strings.EqualFold(filepath.Ext(output), ".xlsx") {
					format = "xlsx"
				}
			}
			if concurrency <= 0 {
				concurrency = e.cfg.Server.Concurrency
			}

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				out = f
			}
			w, err := ioformats.NewWriter(format, out)
			if err != nil {
				return err
			}

			options := func(u string) ogscraper.Options {
				opts := e.cfg.ScrapeOptions(u)
				ef.apply(cmd, &opts)
				return opts
			}
			start := time.Now()
			recs, err := batch.New(e.scraper, concurrency).Run(cmd.Context(), urls, options)
			if err != nil {
				return err
			}
			failed := 0
			for _, rec := range recs {
				if rec.Error != "" {
					failed++
				}
				if err := w.Write(rec); err != nil {
					return fmt.Errorf("write record: %w", err)
				}
			}
			if err := w.Close(); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			e.log.Info("batch done", "urls", len(urls), "failed", failed, "elapsed", time.Since(start))
			return nil
		},
	}
	ef.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&input, "input", "", "URL list (csv, ndjson, jsonl or txt)")
	fs.StringVar(&output, "output", "", "Output file (default stdout)")
	fs.StringVar(&format, "format", "", "Output format: ndjson or xlsx (default from --output extension)")
	fs.IntVar(&concurrency, "concurrency", 0, "Concurrent scrapes (default server.concurrency)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
