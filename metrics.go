package goAquao

import (
	"sync/atomic"
	"time"
)

// MetricID identifies one in-process counter or histogram.
type MetricID uint16

const (
	// MetricWhoAmISuccess counts 2xx responses from the identity endpoint.
	MetricWhoAmISuccess MetricID = iota
	// MetricWhoAmIFailure counts failed identity calls.
	MetricWhoAmIFailure
	// MetricAuthenticateSuccess counts 2xx responses from the token authorization endpoint.
	MetricAuthenticateSuccess
	// MetricAuthenticateFailure counts failed token authorization calls.
	MetricAuthenticateFailure
	// MetricLogoutSuccess counts 2xx responses from the logout endpoint.
	MetricLogoutSuccess
	// MetricLogoutFailure counts failed logout calls.
	MetricLogoutFailure
	// MetricTokenIssued counts signed tokens.
	MetricTokenIssued
	// MetricTokenIssueFailure counts signing failures.
	MetricTokenIssueFailure
	// MetricSessionChanged counts responses that carried a session cookie.
	MetricSessionChanged
	// MetricSequenceCompleted counts runs that executed all five steps.
	MetricSequenceCompleted
	// MetricSequenceAborted counts runs stopped by an error.
	MetricSequenceAborted
	// MetricCallLatency is the per-call latency histogram.
	MetricCallLatency
	metricIDCount
)

// HistBucketCount is the number of latency buckets, the last one unbounded.
const HistBucketCount = 8

// HistogramBounds are the inclusive upper bounds of the first HistBucketCount-1 buckets.
var HistogramBounds = [HistBucketCount - 1]time.Duration{
	25 * time.Millisecond,
	50 * time.Millisecond,
	100 * time.Millisecond,
	250 * time.Millisecond,
	500 * time.Millisecond,
	time.Second,
	2500 * time.Millisecond,
}

type metricHistogram struct {
	buckets [HistBucketCount]uint64
	sumNano uint64
}

// Metrics holds lock-free counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	enabled       bool
	enableLatency bool
	counters      [metricIDCount]uint64
	latency       metricHistogram
}

// MetricsSnapshot is a point-in-time copy of every counter. Histograms holds
// non-cumulative bucket counts; HistogramSums holds the observed total.
type MetricsSnapshot struct {
	Counters      map[MetricID]uint64
	Histograms    map[MetricID][]uint64
	HistogramSums map[MetricID]time.Duration
}

// NewMetrics returns counters configured by cfg.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled:       cfg.Enabled,
		enableLatency: cfg.Enabled && cfg.EnableLatencyHistograms,
	}
}

// Enabled reports whether counters record.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// LatencyEnabled reports whether the latency histogram records.
func (m *Metrics) LatencyEnabled() bool {
	return m != nil && m.enableLatency
}

// Inc adds one to counter id.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id], 1)
}

// Observe records a call latency. Only [MetricCallLatency] is a histogram.
func (m *Metrics) Observe(id MetricID, d time.Duration) {
	if m == nil || !m.enableLatency || id != MetricCallLatency {
		return
	}
	if d < 0 {
		d = 0
	}
	atomic.AddUint64(&m.latency.buckets[bucketIndex(d)], 1)
	atomic.AddUint64(&m.latency.sumNano, uint64(d))
}

// Value returns the current value of counter id.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id])
}

// Snapshot copies every counter and, when enabled, the latency histogram.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{
			Counters:      map[MetricID]uint64{},
			Histograms:    map[MetricID][]uint64{},
			HistogramSums: map[MetricID]time.Duration{},
		}
	}

	s := MetricsSnapshot{
		Counters:      make(map[MetricID]uint64, int(metricIDCount)),
		Histograms:    make(map[MetricID][]uint64, 1),
		HistogramSums: make(map[MetricID]time.Duration, 1),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		if id == MetricCallLatency {
			continue
		}
		s.Counters[id] = atomic.LoadUint64(&m.counters[id])
	}

	if m.enableLatency {
		buckets := make([]uint64, HistBucketCount)
		for i := 0; i < HistBucketCount; i++ {
			buckets[i] = atomic.LoadUint64(&m.latency.buckets[i])
		}
		s.Histograms[MetricCallLatency] = buckets
		s.HistogramSums[MetricCallLatency] = time.Duration(atomic.LoadUint64(&m.latency.sumNano))
	}

	return s
}

func bucketIndex(d time.Duration) int {
	for i, bound := range HistogramBounds {
		if d <= bound {
			return i
		}
	}
	return HistBucketCount - 1
}
