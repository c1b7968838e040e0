// Package metrics implements the observability hooks with Prometheus
// collectors.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/modgraph/pkg/errors"
	"github.com/matzehuels/modgraph/pkg/observability"
)

const namespace = "modgraph"

// Hooks records render, cache and HTTP events as Prometheus metrics.
type Hooks struct {
	gatherer prometheus.Gatherer

	probes         *prometheus.CounterVec
	buildNodes     prometheus.Histogram
	buildDuration  prometheus.Histogram
	renders        *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec
	cacheEvents    *prometheus.CounterVec
	cacheBytes     *prometheus.CounterVec
	requests       *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
	inFlight       prometheus.Gauge
}

// New registers the collectors with reg and serves them from Handler.
func New(reg *prometheus.Registry) *Hooks {
	f := promauto.With(reg)
	return &Hooks{
		gatherer: reg,

		probes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engine",
			Name:      "probes_total",
			Help:      "Graphviz availability probes by engine and result",
		}, []string{"engine", "status"}),

		buildNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "nodes",
			Help:      "Number of nodes per built graph",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),

		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "duration_seconds",
			Help:      "Time to build a graph description",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),

		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "total",
			Help:      "Renders by engine, format and error code",
		}, []string{"engine", "format", "code"}),

		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "duration_seconds",
			Help:      "Graphviz render latency",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"engine", "format"}),

		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "render",
			Name:      "output_bytes",
			Help:      "Size of rendered output",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),

		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "events_total",
			Help:      "Cache hits, misses and writes",
		}, []string{"key_type", "event"}),

		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache",
		}, []string{"key_type"}),

		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		requestLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),

		inFlight: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Requests currently being served",
		}),
	}
}

// Register installs h as the global render, cache and HTTP hooks.
func (h *Hooks) Register() {
	observability.SetRenderHooks(h)
	observability.SetCacheHooks(h)
	observability.SetHTTPHooks(h)
}

// Handler serves the registry in the Prometheus exposition format.
func (h *Hooks) Handler() http.Handler {
	return promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})
}

func (h *Hooks) OnProbe(_ context.Context, engine string, err error) {
	h.probes.WithLabelValues(engine, status(err)).Inc()
}

func (h *Hooks) OnBuild(_ context.Context, nodes, edges int, d time.Duration) {
	h.buildNodes.Observe(float64(nodes))
	h.buildDuration.Observe(d.Seconds())
}

func (h *Hooks) OnRenderStart(context.Context, string, string) {}

func (h *Hooks) OnRenderComplete(_ context.Context, engine, format string, size int, d time.Duration, err error) {
	h.renders.WithLabelValues(engine, format, status(err)).Inc()
	if err != nil {
		return
	}
	h.renderDuration.WithLabelValues(engine, format).Observe(d.Seconds())
	h.renderBytes.WithLabelValues(format).Observe(float64(size))
}

func (h *Hooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *Hooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *Hooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *Hooks) OnRequest(context.Context, string, string) {
	h.inFlight.Inc()
}

func (h *Hooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.inFlight.Dec()
	h.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestLatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// status labels an outcome by its error code.
func status(err error) string {
	if err == nil {
		return "ok"
	}
	if code := errors.GetCode(err); code != "" {
		return string(code)
	}
	return "error"
}

var (
	_ observability.RenderHooks = (*Hooks)(nil)
	_ observability.CacheHooks  = (*Hooks)(nil)
	_ observability.HTTPHooks   = (*Hooks)(nil)
)
