package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "og_scraper"

// Recorder owns a private registry so tests and embedders never collide on
// the global one. It satisfies ogscraper.Observer.
type Recorder struct {
	reg *prometheus.Registry

	scrapes        *prometheus.CounterVec
	scrapeDuration *prometheus.HistogramVec
	fetchStatus    *prometheus.CounterVec
	fetchBytes     prometheus.Histogram
	fetchDuration  prometheus.Histogram
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	inFlight       prometheus.Gauge
}

type Options struct {
	// RuntimeCollectors adds the Go and process collectors.
	RuntimeCollectors bool
}

func New(opts Options) *Recorder {
	reg := prometheus.NewRegistry()
	if opts.RuntimeCollectors {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		scrapes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scrapes_total",
			Help:      "Scrape calls by outcome (ok or error kind).",
		}, []string{"outcome"}),
		scrapeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scrape_duration_seconds",
			Help:      "End-to-end scrape latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"outcome"}),
		fetchStatus: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "responses_total",
			Help:      "Successful fetches by HTTP status code.",
		}, []string{"code"}),
		fetchBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "body_bytes",
			Help:      "Size of fetched bodies after decompression.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}),
		fetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Fetch latency including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "API requests by route, method and status.",
		}, []string{"route", "method", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "API request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "API requests currently being served.",
		}),
	}
}

func (r *Recorder) ObserveScrape(outcome string, d time.Duration) {
	r.scrapes.WithLabelValues(outcome).Inc()
	r.scrapeDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (r *Recorder) ObserveFetch(status, bytes int, d time.Duration) {
	r.fetchStatus.WithLabelValues(strconv.Itoa(status)).Inc()
	r.fetchBytes.Observe(float64(bytes))
	r.fetchDuration.Observe(d.Seconds())
}

// ObserveHTTP records one served API request.
func (r *Recorder) ObserveHTTP(route, method string, code int, d time.Duration) {
	r.httpRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	r.httpDuration.WithLabelValues(route).Observe(d.Seconds())
}

// InFlight tracks a request until the returned func is called.
func (r *Recorder) InFlight() func() {
	r.inFlight.Inc()
	return r.inFlight.Dec
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}
