package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "throughput"

// Metrics mirrors counter activity as Prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	HitsTotal    prometheus.Counter
	PushesTotal  *prometheus.CounterVec
	ResetsTotal  prometheus.Counter
	LastInterval prometheus.Gauge
}

// New registers the instruments on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total number of requests to the hit endpoint",
		}),
		PushesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pushes_total",
			Help:      "Total number of throughput events pushed to observers",
		}, []string{"result"}),
		ResetsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "resets_total",
			Help:      "Total number of counter resets",
		}),
		LastInterval: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_interval",
			Help:      "Hits counted during the last completed interval",
		}),
	}
}

// ObserveHit records one hit.
func (m *Metrics) ObserveHit() {
	m.HitsTotal.Inc()
}

// ObservePush records one push and whether it reached the observer.
func (m *Metrics) ObservePush(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.PushesTotal.WithLabelValues(result).Inc()
}

// ObserveReset records the value drained at the end of an interval.
func (m *Metrics) ObserveReset(throughput int64) {
	m.ResetsTotal.Inc()
	m.LastInterval.Set(float64(throughput))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
