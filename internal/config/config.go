// Package config loads the YAML configuration shared by the CLI and the
// server. ${VAR} references are expanded from the environment before
// parsing; unset keys take the defaults below.
package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"og-scraper/internal/crawler"
	"og-scraper/internal/fields"
	"og-scraper/pkg/logger"
	"og-scraper/pkg/ogscraper"
)

type Config struct {
	Fetch   FetchConfig   `yaml:"fetch"`
	Extract ExtractConfig `yaml:"extract"`
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
}

type FetchConfig struct {
	Timeout      time.Duration     `yaml:"timeout"`
	DialTimeout  time.Duration     `yaml:"dial_timeout"`
	MaxBodyBytes int64             `yaml:"max_body_bytes"`
	UserAgent    string            `yaml:"user_agent"`
	MaxRedirects int               `yaml:"max_redirects"`
	Retries      int               `yaml:"retries"`
	Headers      map[string]string `yaml:"headers"`
	Blacklist    []string          `yaml:"blacklist"`
	CookieJar    bool              `yaml:"cookie_jar"`
	Encoding     string            `yaml:"encoding"`
	// RateLimit is requests per second across all fetches; zero disables it.
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

type ExtractConfig struct {
	OnlyOpenGraph     bool           `yaml:"only_open_graph"`
	ImageFallback     *bool          `yaml:"image_fallback"`
	FixArticleSection bool           `yaml:"fix_article_section"`
	WithCharset       bool           `yaml:"with_charset"`
	PeekSize          int            `yaml:"peek_size"`
	ExtraFields       []fields.Field `yaml:"extra_fields"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	MaxBatch        int           `yaml:"max_batch"`
	Concurrency     int           `yaml:"concurrency"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads a YAML file. An empty path returns Default().
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

func LoadFromReader(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return LoadFromBytes(data)
}

func LoadFromBytes(data []byte) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(strings.NewReader(os.ExpandEnv(string(data))))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&c)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &c, nil
}

func applyDefaults(c *Config) {
	def := crawler.DefaultConfig()
	if c.Fetch.Timeout == 0 {
		c.Fetch.Timeout = ogscraper.DefaultTimeout
	}
	if c.Fetch.DialTimeout == 0 {
		c.Fetch.DialTimeout = def.DialTimeout
	}
	if c.Fetch.MaxBodyBytes == 0 {
		c.Fetch.MaxBodyBytes = def.MaxBodyBytes
	}
	if c.Fetch.UserAgent == "" {
		c.Fetch.UserAgent = def.UserAgent
	}
	if c.Fetch.MaxRedirects == 0 {
		c.Fetch.MaxRedirects = def.MaxRedirects
	}
	if c.Fetch.RateLimit > 0 && c.Fetch.RateBurst == 0 {
		c.Fetch.RateBurst = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Server.MaxBatch == 0 {
		c.Server.MaxBatch = 100
	}
	if c.Server.Concurrency == 0 {
		c.Server.Concurrency = 8
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// ValidationError names the offending key.
type ValidationError struct {
	Path    string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Validate reports every invalid key at once.
func (c *Config) Validate() error {
	var errs []error
	add := func(path, msg string) {
		errs = append(errs, ValidationError{Path: path, Message: msg})
	}
	if c.Fetch.Timeout < 0 {
		add("fetch.timeout", "must not be negative")
	}
	if c.Fetch.DialTimeout < 0 {
		add("fetch.dial_timeout", "must not be negative")
	}
	if c.Fetch.MaxBodyBytes < 0 {
		add("fetch.max_body_bytes", "must not be negative")
	}
	if c.Fetch.MaxRedirects < 0 {
		add("fetch.max_redirects", "must not be negative")
	}
	if c.Fetch.Retries < 0 || c.Fetch.Retries > 10 {
		add("fetch.retries", "must be between 0 and 10")
	}
	if c.Fetch.RateLimit < 0 {
		add("fetch.rate_limit", "must not be negative")
	}
	if c.Fetch.RateBurst < 0 {
		add("fetch.rate_burst", "must not be negative")
	}
	if c.Extract.PeekSize < 0 {
		add("extract.peek_size", "must not be negative")
	}
	if _, err := c.Schema(); err != nil {
		add("extract.extra_fields", err.Error())
	}
	if c.Server.MaxBatch < 1 {
		add("server.max_batch", "must be at least 1")
	}
	if c.Server.Concurrency < 1 {
		add("server.concurrency", "must be at least 1")
	}
	if _, err := logger.ParseLevel(c.Log.Level); err != nil {
		add("log.level", err.Error())
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		add("log.format", fmt.Sprintf("unknown format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Schema returns the field table the extract section selects.
func (c *Config) Schema() (*fields.Schema, error) {
	base := fields.Default()
	if c.Extract.FixArticleSection {
		base = fields.Corrected()
	}
	return base.Extend(c.Extract.ExtraFields)
}

// Limiter builds the shared outbound limiter, or nil when unlimited.
func (c FetchConfig) Limiter() *rate.Limiter {
	if c.RateLimit <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(c.RateLimit), max(c.RateBurst, 1))
}

// ClientConfig converts the fetch section for crawler.NewHTTPClient.
func (c FetchConfig) ClientConfig(log *slog.Logger) crawler.Config {
	return crawler.Config{
		Timeout:      c.Timeout + c.DialTimeout,
		DialTimeout:  c.DialTimeout,
		MaxBodyBytes: c.MaxBodyBytes,
		UserAgent:    c.UserAgent,
		Headers:      c.Headers,
		MaxRedirects: c.MaxRedirects,
		Retries:      c.Retries,
		CookieJar:    c.CookieJar,
		Limiter:      c.Limiter(),
		Logger:       log,
	}
}

// ScrapeOptions returns the per-call options for url.
func (c *Config) ScrapeOptions(url string) ogscraper.Options {
	return ogscraper.Options{
		URL:                  url,
		Timeout:              c.Fetch.Timeout,
		Blacklist:            c.Fetch.Blacklist,
		Encoding:             c.Fetch.Encoding,
		PeekSize:             c.Extract.PeekSize,
		WithCharset:          c.Extract.WithCharset,
		OnlyGetOpenGraphInfo: c.Extract.OnlyOpenGraph,
		OGImageFallback:      c.Extract.ImageFallback,
		FixArticleSection:    c.Extract.FixArticleSection,
		ExtraFields:          c.Extract.ExtraFields,
	}
}
