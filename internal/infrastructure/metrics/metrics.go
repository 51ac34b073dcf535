package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the service. It also acts as
// the store observer.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	snapshotsTotal   *prometheus.CounterVec
	snapshotDuration prometheus.Histogram
	generationsTotal *prometheus.CounterVec
	generationTime   prometheus.Histogram
	professors       prometheus.Gauge
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		snapshotsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_snapshots_total",
				Help: "Data file writes by result",
			},
			[]string{"result"},
		),
		snapshotDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "store_snapshot_duration_seconds",
				Help:    "Time spent writing the data file",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
			},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "description_generations_total",
				Help: "Description generator calls by result",
			},
			[]string{"result"},
		),
		generationTime: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "description_generation_duration_seconds",
				Help:    "Time spent waiting on the description generator",
				Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
			},
		),
		professors: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "store_professors",
				Help: "Number of professors held in memory",
			},
		),
	}

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.snapshotsTotal,
		m.snapshotDuration,
		m.generationsTotal,
		m.generationTime,
		m.professors,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware counts and times every request by route.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			}

			m.requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			m.requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

func (m *Metrics) ObserveSnapshot(duration time.Duration, err error) {
	m.snapshotsTotal.WithLabelValues(result(err)).Inc()
	m.snapshotDuration.Observe(duration.Seconds())
}

func (m *Metrics) ObserveGeneration(duration time.Duration, err error) {
	m.generationsTotal.WithLabelValues(result(err)).Inc()
	m.generationTime.Observe(duration.Seconds())
}

func (m *Metrics) SetProfessorCount(n int) {
	m.professors.Set(float64(n))
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
