// Package metrics records store operation counts and latencies in a
// dedicated prometheus registry. A nil *Recorder is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/mesh-intelligence/workledger/pkg/types"
)

const namespace = "workledger"

// OutcomeOK labels operations that returned no error.
const OutcomeOK = "ok"

// Recorder holds the store's collectors.
type Recorder struct {
	registry      *prometheus.Registry
	operations    *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	migrated      prometheus.Counter
	fallbackReads prometheus.Counter
	ready         prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "operations_total",
				Help:      "Record store operations by name and outcome",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "operation_duration_seconds",
				Help:      "Time taken by record store operations",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		migrated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "legacy_records_migrated_total",
			Help:      "Legacy cache entries migrated into the store",
		}),
		fallbackReads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_reads_total",
			Help:      "Reads answered from the legacy cache because the store failed",
		}),
		ready: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "store_ready",
			Help:      "1 when the store is open and schema-verified",
		}),
	}
	r.registry.MustRegister(r.operations, r.duration, r.migrated, r.fallbackReads, r.ready)
	return r
}

// Registry returns the registry holding every collector.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Observe counts one operation and its latency. The outcome label is "ok" or
// the error kind name.
func (r *Recorder) Observe(op string, start time.Time, err error) {
	if r == nil {
		return
	}
	outcome := OutcomeOK
	if err != nil {
		outcome = types.KindOf(err).String()
	}
	r.operations.WithLabelValues(op, outcome).Inc()
	r.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Migrated adds n migrated entries.
func (r *Recorder) Migrated(n int) {
	if r == nil || n <= 0 {
		return
	}
	r.migrated.Add(float64(n))
}

// FallbackRead counts one read served from the legacy cache.
func (r *Recorder) FallbackRead() {
	if r == nil {
		return
	}
	r.fallbackReads.Inc()
}

// SetReady mirrors the store's readiness flag.
func (r *Recorder) SetReady(ready bool) {
	if r == nil {
		return
	}
	if ready {
		r.ready.Set(1)
		return
	}
	r.ready.Set(0)
}

// WriteTextfile writes every metric to path in the node-exporter textfile
// format. The write is atomic.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
