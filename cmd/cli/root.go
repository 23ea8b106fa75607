package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"og-scraper/internal/config"
	"og-scraper/internal/crawler"
	"og-scraper/pkg/logger"
	"og-scraper/pkg/ogscraper"
)

type rootFlags struct {
	config   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:   "og-scrape",
		Short: "og-scrape extracts Open Graph and Twitter Card metadata",
		Long: `og-scrape fetches web pages, or reads local HTML, and prints the
Open Graph, Twitter Card and related meta tags as JSON.

Usage:
  og-scrape scrape <url> [flags]
  og-scrape batch --input urls.csv [flags]`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&rf.config, "config", "", "YAML config file")
	root.PersistentFlags().StringVar(&rf.logLevel, "log-level", "", "Override log.level (debug, info, warn, error)")

	root.AddCommand(newScrapeCmd(&rf), newBatchCmd(&rf))
	return root
}

// env is what every subcommand needs once flags are parsed.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	scraper *ogscraper.Scraper
}

func setup(cmd *cobra.Command, rf *rootFlags) (*env, error) {
	cfg, err := config.Load(rf.config)
	if err != nil {
		return nil, err
	}
	if rf.logLevel != "" {
		cfg.Log.Level = rf.logLevel
	}
	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, err
	}
	client, err := crawler.NewHTTPClient(cfg.Fetch.ClientConfig(log))
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	s := ogscraper.New(ogscraper.WithClient(client), ogscraper.WithLogger(log))
	return &env{cfg: cfg, log: log, scraper: s}, nil
}
