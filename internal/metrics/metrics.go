package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cv_parser"

// Request outcomes.
const (
	StatusOK          = "ok"
	StatusClientError = "client_error"
	StatusServerError = "server_error"
)

// Metrics holds the service collectors on a private registry so tests can
// build as many instances as they need.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	stageDuration   *prometheus.HistogramVec
	skillsExtracted prometheus.Histogram
	draftCache      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "requests_total",
				Help:      "Total number of processed CV uploads by outcome",
			},
			[]string{"status"},
		),
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of each processing stage in seconds",
				Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		skillsExtracted: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "skills_extracted",
				Help:      "Number of skills in each finalized record",
				Buckets:   []float64{0, 5, 10, 20, 40, 80},
			},
		),
		draftCache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "draft_cache_total",
				Help:      "Draft cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) Request(status string) {
	m.requests.WithLabelValues(status).Inc()
}

func (m *Metrics) Stage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (m *Metrics) SkillsExtracted(n int) {
	m.skillsExtracted.Observe(float64(n))
}

// CacheResult counts a draft cache lookup.
func (m *Metrics) CacheResult(result string) {
	m.draftCache.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
