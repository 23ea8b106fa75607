package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"og-scraper/internal/batch"
	"og-scraper/pkg/ogscraper"
)

// extractFlags override the config file per invocation; only flags the
// user set are applied.
type extractFlags struct {
	timeout           time.Duration
	onlyOG            bool
	noImageFallback   bool
	fixArticleSection bool
	withCharset       bool
	encoding          string
	headers           map[string]string
}

func (f *extractFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.DurationVar(&f.timeout, "timeout", 0, "Per-page timeout (default from config, 2s)")
	fs.BoolVar(&f.onlyOG, "only-og", false, "Return Open Graph fields only, no fallbacks")
	fs.BoolVar(&f.noImageFallback, "no-image-fallback", false, "Do not derive ogImage from <img> tags")
	fs.BoolVar(&f.fixArticleSection, "fix-article-section", false, "Map article:section to articleSection")
	fs.BoolVar(&f.withCharset, "with-charset", false, "Include the detected charset in the result")
	fs.StringVar(&f.encoding, "encoding", "", "Force the page encoding instead of sniffing it")
	fs.StringToStringVar(&f.headers, "header", nil, "Extra request header as name=value (repeatable)")
}

func (f *extractFlags) apply(cmd *cobra.Command, opts *ogscraper.Options) {
	fs := cmd.Flags()
	if fs.Changed("timeout") {
		opts.Timeout = f.timeout
	}
	if fs.Changed("only-og") {
		opts.OnlyGetOpenGraphInfo = f.onlyOG
	}
	if fs.Changed("no-image-fallback") {
		enabled := !f.noImageFallback
		opts.OGImageFallback = &enabled
	}
	if fs.Changed("fix-article-section") {
		opts.FixArticleSection = f.fixArticleSection
	}
	if fs.Changed("with-charset") {
		opts.WithCharset = f.withCharset
	}
	if fs.Changed("encoding") {
		opts.Encoding = f.encoding
	}
	if len(f.headers) > 0 {
		opts.Headers = f.headers
	}
}

func newScrapeCmd(rf *rootFlags) *cobra.Command {
	var (
		ef       extractFlags
		htmlFile string
		pretty   bool
	)
	cmd := &cobra.Command{
		Use:   "scrape [url]",
		Short: "Scrape one URL, or a local HTML file",
		Long: `Scrape fetches a single page and prints one JSON record with the
extracted metadata, its classification and top topics.

Examples:
  og-scrape scrape https://example.com
  og-scrape scrape example.com --timeout 5s --with-charset
  og-scrape scrape --html-file page.html --only-og`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 0) == (htmlFile == "") {
				return errors.New("give either a url or --html-file")
			}
			e, err := setup(cmd, rf)
			if err != nil {
				return err
			}
			var opts ogscraper.Options
			if htmlFile != "" {
				data, err := os.ReadFile(htmlFile)
				if err != nil {
					return fmt.Errorf("read html: %w", err)
				}
				opts = e.cfg.ScrapeOptions("")
				opts.HTML = string(data)
			} else {
				opts = e.cfg.ScrapeOptions(args[0])
			}
			ef.apply(cmd, &opts)

			rec := batch.New(e.scraper, 1).Record(cmd.Context(), opts)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetEscapeHTML(false)
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(rec); err != nil {
				return err
			}
			if rec.Error != "" {
				return fmt.Errorf("scrape failed (%s)", rec.ErrorKind)
			}
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVar(&htmlFile, "html-file", "", "Read HTML from a file instead of fetching")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}
