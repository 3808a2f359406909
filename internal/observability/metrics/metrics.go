package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulingMetrics exposes counters/histograms for gesture flows.
type SchedulingMetrics struct {
	gesturesTotal  *prometheus.CounterVec
	conflictsTotal *prometheus.CounterVec
	rollbacksTotal *prometheus.CounterVec
	commitLatency  *prometheus.HistogramVec
}

func NewSchedulingMetrics(reg prometheus.Registerer) *SchedulingMetrics {
	m := &SchedulingMetrics{
		gesturesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "scheduling",
			Name:      "gestures_total",
			Help:      "Total drag/resize gestures by outcome",
		}, []string{"kind", "outcome"}),
		conflictsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "scheduling",
			Name:      "conflicts_total",
			Help:      "Total gestures aborted by a detected conflict",
		}, []string{"kind"}),
		rollbacksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinicdesk",
			Subsystem: "scheduling",
			Name:      "rollbacks_total",
			Help:      "Total optimistic mutations rolled back after a failed update",
		}, []string{"kind"}),
		commitLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinicdesk",
			Subsystem: "scheduling",
			Name:      "commit_seconds",
			Help:      "Latency of the conflict-check plus update sequence",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.gesturesTotal, m.conflictsTotal, m.rollbacksTotal, m.commitLatency)
	return m
}

func (m *SchedulingMetrics) ObserveGesture(kind, outcome string) {
	if m == nil {
		return
	}
	m.gesturesTotal.WithLabelValues(kind, outcome).Inc()
}

func (m *SchedulingMetrics) ObserveConflict(kind string) {
	if m == nil {
		return
	}
	m.conflictsTotal.WithLabelValues(kind).Inc()
}

func (m *SchedulingMetrics) ObserveRollback(kind string) {
	if m == nil {
		return
	}
	m.rollbacksTotal.WithLabelValues(kind).Inc()
}

func (m *SchedulingMetrics) ObserveCommitLatency(kind string, seconds float64) {
	if m == nil {
		return
	}
	m.commitLatency.WithLabelValues(kind).Observe(seconds)
}
