package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge

	SubmissionsTotal *prometheus.CounterVec
	PollsTotal       *prometheus.CounterVec

	GenerationsTotal    *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	GenerationsInFlight prometheus.Gauge

	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
}

// New registers the collectors on reg. Pass prometheus.NewRegistry() in tests,
// the default registerer panics on duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexra_gpt_requests_total",
				Help: "Total number of chat requests processed",
			},
			[]string{"type", "status"},
		),
		RequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexra_gpt_request_duration_seconds",
				Help:    "Chat request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"type"},
		),
		RequestsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nexra_gpt_requests_in_flight",
				Help: "Number of chat requests currently being processed",
			},
		),

		SubmissionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexra_gpt_task_submissions_total",
				Help: "Total number of task submissions",
			},
			[]string{"status"},
		),
		PollsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexra_gpt_task_polls_total",
				Help: "Total number of task status requests by outcome",
			},
			[]string{"outcome"},
		),

		GenerationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexra_gpt_generations_total",
				Help: "Total number of generate calls",
			},
			[]string{"model", "status"},
		),
		GenerationDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexra_gpt_generation_duration_seconds",
				Help:    "Generate call duration in seconds, submission through last poll",
				Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"model"},
		),
		GenerationsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "nexra_gpt_generations_in_flight",
				Help: "Number of generate calls waiting on a task",
			},
		),

		CacheHitsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "nexra_gpt_cache_hits_total",
				Help: "Total number of response cache hits",
			},
		),
		CacheMissesTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "nexra_gpt_cache_misses_total",
				Help: "Total number of response cache misses",
			},
		),
	}

	return m
}

func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordRequest(reqType, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(reqType, status).Inc()
	m.RequestDuration.WithLabelValues(reqType).Observe(duration.Seconds())
}

func (m *Metrics) RecordSubmission(status string) {
	m.SubmissionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordPoll(outcome string) {
	m.PollsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordGeneration(model, status string, duration time.Duration) {
	m.GenerationsTotal.WithLabelValues(model, status).Inc()
	m.GenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (m *Metrics) RecordCacheHit() {
	m.CacheHitsTotal.Inc()
}

func (m *Metrics) RecordCacheMiss() {
	m.CacheMissesTotal.Inc()
}

func (m *Metrics) IncRequestsInFlight() {
	m.RequestsInFlight.Inc()
}

func (m *Metrics) DecRequestsInFlight() {
	m.RequestsInFlight.Dec()
}

func (m *Metrics) IncGenerationsInFlight() {
	m.GenerationsInFlight.Inc()
}

func (m *Metrics) DecGenerationsInFlight() {
	m.GenerationsInFlight.Dec()
}
