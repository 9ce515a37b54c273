package authflow

import (
	"testing"
	"time"
)

func TestMetricsDisabledIsInert(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricSignInSuccess)
	m.Observe(MetricFlowLatency, time.Millisecond)

	if m.Enabled() {
		t.Fatal("expected disabled metrics")
	}
	if got := m.Value(MetricSignInSuccess); got != 0 {
		t.Fatalf("expected no counting while disabled, got %d", got)
	}

	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics

	m.Inc(MetricSignInSuccess)
	m.Observe(MetricFlowLatency, time.Millisecond)

	if m.Enabled() || m.Value(MetricSignInSuccess) != 0 {
		t.Fatal("expected nil metrics to be inert")
	}
}

func TestMetricsCounting(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignInSuccess)
	m.Inc(MetricSignOutSuccess)

	if got := m.Value(MetricSignInSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}

	snap := m.Snapshot()
	if snap.Counters[MetricSignInSuccess] != 2 || snap.Counters[MetricSignOutSuccess] != 1 {
		t.Fatalf("unexpected snapshot counters %+v", snap.Counters)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricFlowLatency, 3*time.Millisecond)
	m.Observe(MetricFlowLatency, 40*time.Millisecond)
	m.Observe(MetricFlowLatency, time.Second)

	buckets := m.Snapshot().Histograms[MetricFlowLatency]
	if len(buckets) != histBucketCount {
		t.Fatalf("expected %d buckets, got %d", histBucketCount, len(buckets))
	}
	if buckets[0] != 1 || buckets[3] != 1 || buckets[histBucketCount-1] != 1 {
		t.Fatalf("unexpected bucket distribution %v", buckets)
	}
}

func TestMetricsHistogramOnlyTracksFlowLatency(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricSignInSuccess, time.Millisecond)

	if _, ok := m.Snapshot().Histograms[MetricSignInSuccess]; ok {
		t.Fatal("expected counter metrics to reject observations")
	}
}
