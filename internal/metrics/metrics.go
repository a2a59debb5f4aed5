package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ModerationMetrics holds the Prometheus metrics for the moderation
// pipeline.
type ModerationMetrics struct {
	SubmittedTotal  prometheus.Counter
	ApprovedTotal   prometheus.Counter
	RejectedTotal   prometheus.Counter
	ExpiredTotal    prometheus.Counter
	QueueDepth      prometheus.Gauge
	ValidationFails prometheus.Counter
}

// All mutators are nil-safe so tests can run services without touching
// the default registry.

func (m *ModerationMetrics) IncSubmitted() {
	if m != nil {
		m.SubmittedTotal.Inc()
	}
}

func (m *ModerationMetrics) IncApproved() {
	if m != nil {
		m.ApprovedTotal.Inc()
	}
}

func (m *ModerationMetrics) IncRejected() {
	if m != nil {
		m.RejectedTotal.Inc()
	}
}

func (m *ModerationMetrics) AddExpired(n int64) {
	if m != nil {
		m.ExpiredTotal.Add(float64(n))
	}
}

func (m *ModerationMetrics) SetQueueDepth(n int64) {
	if m != nil {
		m.QueueDepth.Set(float64(n))
	}
}

func (m *ModerationMetrics) IncValidationFail() {
	if m != nil {
		m.ValidationFails.Inc()
	}
}

// NewModerationMetrics initializes and registers the metrics on the
// default registry. Call it once per process.
func NewModerationMetrics() *ModerationMetrics {
	return &ModerationMetrics{
		SubmittedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "sa_es_map",
			Subsystem: "moderation",
			Name:      "submitted_total",
			Help:      "Total number of event submissions accepted into the queue.",
		}),
		ApprovedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "sa_es_map",
			Subsystem: "moderation",
			Name:      "approved_total",
			Help:      "Total number of queue events approved.",
		}),
		RejectedTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "sa_es_map",
			Subsystem: "moderation",
			Name:      "rejected_total",
			Help:      "Total number of queue events rejected.",
		}),
		ExpiredTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "sa_es_map",
			Subsystem: "sweep",
			Name:      "expired_deleted_total",
			Help:      "Total number of approved events removed by the expiry sweep.",
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "sa_es_map",
			Subsystem: "moderation",
			Name:      "queue_depth",
			Help:      "Current number of pending events awaiting moderation.",
		}),
		ValidationFails: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: "sa_es_map",
			Subsystem: "moderation",
			Name:      "validation_failures_total",
			Help:      "Total number of submissions refused by validation.",
		}),
	}
}
