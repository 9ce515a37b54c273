package authflow

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one flow counter.
type MetricID uint16

const (
	// MetricSignInSuccess counts successful password sign-ins.
	MetricSignInSuccess MetricID = iota
	// MetricSignInFailure counts failed password sign-ins.
	MetricSignInFailure
	// MetricProviderSignInSuccess counts successful OAuth sign-ins.
	MetricProviderSignInSuccess
	// MetricProviderSignInFailure counts failed OAuth sign-ins.
	MetricProviderSignInFailure
	// MetricPasskeySignInSuccess counts successful passkey sign-ins.
	MetricPasskeySignInSuccess
	// MetricPasskeySignInFailure counts failed passkey sign-ins.
	MetricPasskeySignInFailure
	// MetricSMSSendSuccess counts SMS codes accepted for delivery.
	MetricSMSSendSuccess
	// MetricSMSSendFailure counts refused SMS code sends.
	MetricSMSSendFailure
	// MetricSMSVerifySuccess counts successful SMS code verifications.
	MetricSMSVerifySuccess
	// MetricSMSVerifyFailure counts failed SMS code verifications.
	MetricSMSVerifyFailure
	// MetricTOTPSuccess counts successful authenticator verifications.
	MetricTOTPSuccess
	// MetricTOTPFailure counts failed authenticator verifications.
	MetricTOTPFailure
	// MetricSignUpSuccess counts completed sign-ups.
	MetricSignUpSuccess
	// MetricSignUpFailure counts refused sign-ups.
	MetricSignUpFailure
	// MetricPasskeyEnrollFailure counts sign-ups whose account was created
	// but whose passkey enrollment failed.
	MetricPasskeyEnrollFailure
	// MetricSignOutSuccess counts completed sign-outs.
	MetricSignOutSuccess
	// MetricSignOutFailure counts refused sign-outs.
	MetricSignOutFailure
	// MetricRefreshSuccess counts session rehydrations that found a user.
	MetricRefreshSuccess
	// MetricRefreshFailure counts session rehydrations that found none.
	MetricRefreshFailure
	// MetricValidationRejected counts flows rejected before any service
	// call by input validation.
	MetricValidationRejected
	// MetricUnexpectedFault counts service calls that returned a transport
	// or contract fault instead of a result envelope.
	MetricUnexpectedFault
	// MetricFlowLatency is the latency histogram covering full flow runs.
	MetricFlowLatency
	metricIDCount
)

const (
	histBucketCount = 8
	cacheLineSize   = 64
)

type metricHistogram struct {
	buckets [histBucketCount]uint64
}

// Counters are padded to a cache line each so hot flows on different
// cores do not false-share.
type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics holds in-process flow counters. All methods are safe on a nil
// receiver, which is how a metrics-disabled controller carries it.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]paddedCounter
	histograms    [metricIDCount]metricHistogram
}

// MetricsSnapshot is a point-in-time copy of all counters and histograms.
type MetricsSnapshot struct {
	Counters   map[MetricID]uint64
	Histograms map[MetricID][]uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enabled || !m.enableLatency || id >= metricIDCount {
		return
	}
	if id != MetricFlowLatency {
		return
	}

	b := bucketIndex(d)
	atomic.AddUint64(&m.histograms[id].buckets[b], 1)
}

func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}

	s := MetricsSnapshot{
		Counters:   make(map[MetricID]uint64, int(metricIDCount)),
		Histograms: make(map[MetricID][]uint64, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	if m.enableLatency {
		buckets := make([]uint64, histBucketCount)
		for i := 0; i < histBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.histograms[MetricFlowLatency].buckets[i])
		}
		s.Histograms[MetricFlowLatency] = buckets
	}

	return s
}

func bucketIndex(d time.Duration) int {
	ms := d.Milliseconds()

	switch {
	case ms <= 5:
		return 0
	case ms <= 10:
		return 1
	case ms <= 25:
		return 2
	case ms <= 50:
		return 3
	case ms <= 100:
		return 4
	case ms <= 250:
		return 5
	case ms <= 500:
		return 6
	default:
		return 7
	}
}
