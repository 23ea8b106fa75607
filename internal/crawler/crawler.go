package crawler

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"
	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent    = "og-scraper/1.0 (+https://github.com/og-scraper)"
	DefaultMaxRedirects = 20
	DefaultMaxBodyBytes = 5 << 20
)

// HTTPError is returned for responses with a 4xx or 5xx status.
type HTTPError struct {
	URL        string
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d fetching %s", e.StatusCode, e.URL)
}

var (
	// ErrTooManyRedirects is returned once a redirect chain exceeds MaxRedirects.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrRateLimited means the limiter could not grant a slot before the
	// context ended.
	ErrRateLimited = errors.New("rate limited")
)

type Config struct {
	Timeout      time.Duration
	DialTimeout  time.Duration
	MaxBodyBytes int64
	UserAgent    string
	Headers      map[string]string
	MaxRedirects int
	// Retries is the number of extra attempts for transient failures.
	Retries   int
	CookieJar bool
	// Limiter, when set, gates every outbound attempt.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func DefaultConfig() Config {
	return Config{
		Timeout:      10 * time.Second,
		DialTimeout:  5 * time.Second,
		MaxBodyBytes: DefaultMaxBodyBytes,
		UserAgent:    DefaultUserAgent,
		MaxRedirects: DefaultMaxRedirects,
	}
}

// Response is a fully read page.
type Response struct {
	Body        []byte
	FinalURL    string
	ContentType string
	StatusCode  int
	Elapsed     time.Duration
}

type HTTPClient struct {
	client  *http.Client
	cfg     Config
	limiter *rate.Limiter
	log     *slog.Logger
}

func NewHTTPClient(cfg Config) (*HTTPClient, error) {
	def := DefaultConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = def.DialTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = def.MaxBodyBytes
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = def.MaxRedirects
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.DialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}
	client := &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) > cfg.MaxRedirects {
				return fmt.Errorf("%w: stopped after %d", ErrTooManyRedirects, cfg.MaxRedirects)
			}
			return nil
		},
	}
	if cfg.CookieJar {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("cookie jar: %w", err)
		}
		client.Jar = jar
	}
	return &HTTPClient{client: client, cfg: cfg, limiter: cfg.Limiter, log: logger}, nil
}

// Fetch GETs rawURL and reads the (possibly gzipped) body up to the size
// cap. headers are applied last and override the configured ones.
// Transient failures are retried when Config.Retries is positive.
func (h *HTTPClient) Fetch(ctx context.Context, rawURL string, headers map[string]string) (*Response, error) {
	start := time.Now()
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid url %q", rawURL)
	}

	resp, err := retry.DoWithData(
		func() (*Response, error) {
			if h.limiter != nil {
				if err := h.limiter.Wait(ctx); err != nil {
					return nil, fmt.Errorf("%w: %v", ErrRateLimited, err)
				}
			}
			return h.do(ctx, u.String(), headers)
		},
		retry.Context(ctx),
		retry.Attempts(uint(max(h.cfg.Retries, 0)+1)),
		retry.Delay(200*time.Millisecond),
		retry.MaxJitter(100*time.Millisecond),
		retry.RetryIf(isRetryableError),
		retry.OnRetry(func(n uint, err error) {
			h.log.Debug("retrying fetch", "attempt", n+1, "url", rawURL, "error", err)
		}),
	)
	if err != nil {
		return nil, err
	}
	resp.Elapsed = time.Since(start)
	h.log.Debug("fetched", "url", rawURL, "final_url", resp.FinalURL, "status", resp.StatusCode,
		"bytes", len(resp.Body), "elapsed", resp.Elapsed)
	return resp, nil
}

func (h *HTTPClient) do(ctx context.Context, target string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("User-Agent", h.cfg.UserAgent)
	for k, v := range h.cfg.Headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	final := resp.Request.URL.String()
	if resp.StatusCode >= 400 && resp.StatusCode < 600 {
		return nil, &HTTPError{URL: final, StatusCode: resp.StatusCode}
	}

	var body io.Reader = resp.Body
	if strings.EqualFold(resp.Header.Get("Content-Encoding"), "gzip") {
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip body: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	data, err := io.ReadAll(io.LimitReader(body, h.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return &Response{
		Body:        data,
		FinalURL:    final,
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}, nil
}

// isRetryableError reports whether an attempt failed for a transient reason.
func isRetryableError(err error) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		switch httpErr.StatusCode {
		case http.StatusTooManyRequests,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
		return false
	}
	if errors.Is(err, ErrTooManyRedirects) || errors.Is(err, ErrRateLimited) || errors.Is(err, context.Canceled) {
		return false
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
		return false
	}
	return true
}
