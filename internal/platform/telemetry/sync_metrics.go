package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SyncMetrics exports remote backup activity to Prometheus.
type SyncMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	dirty      prometheus.Gauge
}

// NewSyncMetrics creates the collectors and registers them with reg.
func NewSyncMetrics(reg prometheus.Registerer) (*SyncMetrics, error) {
	m := &SyncMetrics{
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "askadit",
			Subsystem: "sync",
			Name:      "operations_total",
			Help:      "Remote backup operations by outcome.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "askadit",
			Subsystem: "sync",
			Name:      "duration_seconds",
			Help:      "Duration of remote backup operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		dirty: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "askadit",
			Subsystem: "sync",
			Name:      "dirty",
			Help:      "1 when local content has changes the remote copy lacks.",
		}),
	}

	for _, c := range []prometheus.Collector{m.operations, m.duration, m.dirty} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

// ObserveSync records one finished operation.
func (m *SyncMetrics) ObserveSync(operation, result string, d time.Duration) {
	m.operations.WithLabelValues(operation, result).Inc()
	m.duration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetDirty sets the dirty gauge.
func (m *SyncMetrics) SetDirty(dirty bool) {
	if dirty {
		m.dirty.Set(1)
		return
	}

	m.dirty.Set(0)
}
