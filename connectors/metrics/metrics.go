package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "geoeconomia"

// Metrics owns a private registry so tests and several servers in one
// process never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	render   *prometheus.HistogramVec
	rows     *prometheus.GaugeVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
		render: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "dashboard",
			Name:      "render_duration_seconds",
			Help:      "Time spent computing one view.",
			Buckets:   []float64{.001, .0025, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"page", "metric"}),
		rows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "dataset",
			Name:      "rows",
			Help:      "Rows loaded per fact table.",
		}, []string{"table"}),
	}
	m.registry.MustRegister(
		m.requests,
		m.render,
		m.rows,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
	)
	return m
}

func (m *Metrics) Request(method, route string, code int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

func (m *Metrics) Render(page, metric string, d time.Duration) {
	m.render.WithLabelValues(page, metric).Observe(d.Seconds())
}

func (m *Metrics) DatasetRows(table string, n int) {
	m.rows.WithLabelValues(table).Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
