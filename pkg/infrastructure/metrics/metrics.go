package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mrp"

// Recorder collects planning run metrics on its own registry
type Recorder struct {
	registry      *prometheus.Registry
	runs          prometheus.Counter
	ordersPlanned prometheus.Counter
	orderFailures *prometheus.CounterVec
	demandLines   prometheus.Counter
	shortageItems prometheus.Gauge
	nettedItems   prometheus.Gauge
	runDuration   prometheus.Histogram
}

// NewRecorder creates a Recorder with all collectors registered
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Completed planning runs.",
		}),
		ordersPlanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_exploded_total",
			Help:      "Production orders exploded successfully.",
		}),
		orderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_failures_total",
			Help:      "Production orders rejected during explosion, by reason.",
		}, []string{"reason"}),
		demandLines: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "demand_lines_total",
			Help:      "Demand lines produced by explosion.",
		}),
		shortageItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "shortage_items",
			Help:      "Items with a shortage in the last run.",
		}),
		nettedItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "netted_items",
			Help:      "Items with a requirement in the last run.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of planning runs.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	r.registry.MustRegister(
		r.runs,
		r.ordersPlanned,
		r.orderFailures,
		r.demandLines,
		r.shortageItems,
		r.nettedItems,
		r.runDuration,
	)
	return r
}

// Registry exposes the underlying registry
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// OrderFailed counts a rejected order
func (r *Recorder) OrderFailed(reason string) {
	r.orderFailures.WithLabelValues(reason).Inc()
}

// ObserveRun records the outcome of a completed run
func (r *Recorder) ObserveRun(exploded, demandLines, netted, shortages int, elapsed time.Duration) {
	r.runs.Inc()
	r.ordersPlanned.Add(float64(exploded))
	r.demandLines.Add(float64(demandLines))
	r.nettedItems.Set(float64(netted))
	r.shortageItems.Set(float64(shortages))
	r.runDuration.Observe(elapsed.Seconds())
}

// WriteTextfile writes the registry in the node_exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics.WriteTextfile: %w", err)
	}
	return nil
}
