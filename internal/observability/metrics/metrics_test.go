package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestSchedulingMetricsObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewSchedulingMetrics(reg)
	m.ObserveGesture("drag", "committed")
	m.ObserveConflict("resize")
	m.ObserveRollback("drag")
	m.ObserveCommitLatency("drag", 0.25)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) != 4 {
		t.Fatalf("expected 4 metric families, got %d", len(families))
	}
}

func TestSchedulingMetricsNilSafe(t *testing.T) {
	var m *SchedulingMetrics
	m.ObserveGesture("drag", "committed")
	m.ObserveConflict("drag")
	m.ObserveRollback("resize")
	m.ObserveCommitLatency("resize", 0.1)
}
