package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"og-scraper/internal/batch"
	"og-scraper/internal/config"
	"og-scraper/internal/crawler"
	"og-scraper/internal/ioformats"
	"og-scraper/internal/metrics"
	"og-scraper/internal/models"
	"og-scraper/pkg/ogscraper"
)

const maxUploadBytes = 32 << 20

type server struct {
	cfg     *config.Config
	log     *slog.Logger
	runner  *batch.Runner
	metrics *metrics.Recorder
}

func newServer(cfg *config.Config, l *slog.Logger) (*server, error) {
	rec := metrics.New(metrics.Options{RuntimeCollectors: true})
	client, err := crawler.NewHTTPClient(cfg.Fetch.ClientConfig(l))
	if err != nil {
		return nil, fmt.Errorf("http client: %w", err)
	}
	s := ogscraper.New(
		ogscraper.WithClient(client),
		ogscraper.WithLogger(l),
		ogscraper.WithObserver(rec),
	)
	return &server{
		cfg:     cfg,
		log:     l,
		runner:  batch.New(s, cfg.Server.Concurrency),
		metrics: rec,
	}, nil
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.requestID, s.instrument)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/scrape", s.scrape).Methods(http.MethodPost)
	r.HandleFunc("/scrape/batch", s.scrapeBatch).Methods(http.MethodPost)
	r.HandleFunc("/scrape/upload", s.scrapeUpload).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return r
}

// requestOptions are the per-request overrides of the configured extract
// and fetch options. Unset fields keep the configured value.
type requestOptions struct {
	// Timeout is in milliseconds; a non-numeric value is ignored.
	Timeout              any               `json:"timeout"`
	Blacklist            []string          `json:"blacklist"`
	Headers              map[string]string `json:"headers"`
	Encoding             string            `json:"encoding"`
	PeekSize             int               `json:"peekSize"`
	WithCharset          *bool             `json:"withCharset"`
	OnlyGetOpenGraphInfo *bool             `json:"onlyGetOpenGraphInfo"`
	OGImageFallback      *bool             `json:"ogImageFallback"`
	FixArticleSection    *bool             `json:"fixArticleSection"`
}

func (o *requestOptions) apply(opts *ogscraper.Options) {
	if o == nil {
		return
	}
	if ms, ok := o.Timeout.(float64); ok && ms > 0 {
		opts.Timeout = time.Duration(ms * float64(time.Millisecond))
	}
	opts.Blacklist = append(append([]string(nil), opts.Blacklist...), o.Blacklist...)
	if len(o.Headers) > 0 {
		opts.Headers = o.Headers
	}
	if o.Encoding != "" {
		opts.Encoding = o.Encoding
	}
	if o.PeekSize > 0 {
		opts.PeekSize = o.PeekSize
	}
	if o.WithCharset != nil {
		opts.WithCharset = *o.WithCharset
	}
	if o.OnlyGetOpenGraphInfo != nil {
		opts.OnlyGetOpenGraphInfo = *o.OnlyGetOpenGraphInfo
	}
	if o.OGImageFallback != nil {
		opts.OGImageFallback = o.OGImageFallback
	}
	if o.FixArticleSection != nil {
		opts.FixArticleSection = *o.FixArticleSection
	}
}

type scrapeReq struct {
	URL     string          `json:"url"`
	HTML    string          `json:"html"`
	Options *requestOptions `json:"options"`
}

type batchReq struct {
	URLs    []string        `json:"urls"`
	Options *requestOptions `json:"options"`
}

func (s *server) options(o *requestOptions) func(string) ogscraper.Options {
	return func(u string) ogscraper.Options {
		opts := s.cfg.ScrapeOptions(u)
		o.apply(&opts)
		return opts
	}
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// POST /scrape  {"url": "..."} or {"html": "..."}
func (s *server) scrape(w http.ResponseWriter, r *http.Request) {
	var req scrapeReq
	if err := decodeBody(w, r, s.cfg.Fetch.MaxBodyBytes+(64<<10), &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	opts := s.options(req.Options)(req.URL)
	opts.HTML = req.HTML

	rec := s.runner.Record(r.Context(), opts)
	status := http.StatusOK
	if rec.Error != "" {
		status = statusFor(ogscraper.ParseKind(rec.ErrorKind))
	}
	writeJSON(w, status, rec)
}

// POST /scrape/batch  {"urls": ["...", "..."]}
func (s *server) scrapeBatch(w http.ResponseWriter, r *http.Request) {
	var req batchReq
	if err := decodeBody(w, r, 1<<20, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.URLs) == 0 {
		writeError(w, http.StatusBadRequest, "urls required")
		return
	}
	if len(req.URLs) > s.cfg.Server.MaxBatch {
		writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("at most %d urls per batch", s.cfg.Server.MaxBatch))
		return
	}
	recs, err := s.runner.Run(r.Context(), req.URLs, s.options(req.Options))
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, recs)
}

// POST /scrape/upload (multipart file=...) streams NDJSON records in
// completion order.
func (s *server) scrapeUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "multipart parse error")
		return
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file part 'file' required")
		return
	}
	defer f.Close()

	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(hdr.Filename)), ".")
	urls, err := ioformats.DecodeURLs(f, format)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)
	out := ioformats.NewNDJSONWriter(w)
	err = s.runner.Stream(r.Context(), urls, s.options(nil), func(rec models.ScrapeRecord) error {
		if err := out.Write(rec); err != nil {
			return err
		}
		if flusher != nil {
			flusher.Flush()
		}
		return nil
	})
	if err != nil {
		s.log.Warn("upload stream aborted", "request_id", requestIDFrom(r.Context()), "error", err)
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return fmt.Errorf("payload larger than %d bytes", tooBig.Limit)
		}
		return errors.New("invalid payload")
	}
	return nil
}

// statusFor maps a scrape failure to the response status.
func statusFor(k ogscraper.Kind) int {
	switch k {
	case ogscraper.InvalidInput, ogscraper.Misconfigured:
		return http.StatusBadRequest
	case ogscraper.Blacklisted:
		return http.StatusForbidden
	case ogscraper.NotFound:
		return http.StatusNotFound
	case ogscraper.Timeout:
		return http.StatusGatewayTimeout
	case ogscraper.ServerError:
		return http.StatusBadGateway
	case ogscraper.DecodingFailure:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
