package otel

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	goAquao "github.com/aquao/goAquao"
)

type fakeSource struct {
	mu       sync.RWMutex
	snapshot goAquao.MetricsSnapshot
}

func (f *fakeSource) MetricsSnapshot() goAquao.MetricsSnapshot {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := goAquao.MetricsSnapshot{
		Counters:      make(map[goAquao.MetricID]uint64, len(f.snapshot.Counters)),
		Histograms:    make(map[goAquao.MetricID][]uint64, len(f.snapshot.Histograms)),
		HistogramSums: make(map[goAquao.MetricID]time.Duration, len(f.snapshot.HistogramSums)),
	}
	for k, v := range f.snapshot.Counters {
		out.Counters[k] = v
	}
	for k, buckets := range f.snapshot.Histograms {
		out.Histograms[k] = append([]uint64(nil), buckets...)
	}
	for k, v := range f.snapshot.HistogramSums {
		out.HistogramSums[k] = v
	}
	return out
}

func newReader(t *testing.T) (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return reader, provider
}

func findMetric(rm metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}
	return metricdata.Metrics{}, false
}

func int64Value(t *testing.T, rm metricdata.ResourceMetrics, name string) int64 {
	t.Helper()
	m, ok := findMetric(rm, name)
	require.True(t, ok, "metric %s not collected", name)
	switch data := m.Data.(type) {
	case metricdata.Sum[int64]:
		require.Len(t, data.DataPoints, 1)
		return data.DataPoints[0].Value
	case metricdata.Gauge[int64]:
		require.Len(t, data.DataPoints, 1)
		return data.DataPoints[0].Value
	default:
		t.Fatalf("metric %s has unexpected data %T", name, m.Data)
		return 0
	}
}

func TestExporterRegistersAndCollects(t *testing.T) {
	reader, provider := newReader(t)

	src := &fakeSource{snapshot: goAquao.MetricsSnapshot{
		Counters: map[goAquao.MetricID]uint64{
			goAquao.MetricWhoAmISuccess: 3,
			goAquao.MetricTokenIssued:   1,
		},
		Histograms: map[goAquao.MetricID][]uint64{
			goAquao.MetricCallLatency: {1, 1, 1, 1, 1, 1, 1, 1},
		},
		HistogramSums: map[goAquao.MetricID]time.Duration{
			goAquao.MetricCallLatency: 2 * time.Second,
		},
	}}

	exp, err := NewExporterFromSource(provider.Meter("aquao-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	assert.Equal(t, int64(3), int64Value(t, rm, "aquao_whoami_success_total"))
	assert.Equal(t, int64(1), int64Value(t, rm, "aquao_token_issued_total"))
	assert.Equal(t, int64(0), int64Value(t, rm, "aquao_logout_failure_total"))
	assert.Equal(t, int64(1), int64Value(t, rm, "aquao_call_latency_seconds_bucket_le_0_025"))
	assert.Equal(t, int64(7), int64Value(t, rm, "aquao_call_latency_seconds_bucket_le_2_5"))
	assert.Equal(t, int64(8), int64Value(t, rm, "aquao_call_latency_seconds_bucket_le_inf"))
	assert.Equal(t, int64(8), int64Value(t, rm, "aquao_call_latency_seconds_count"))

	sum, ok := findMetric(rm, "aquao_call_latency_seconds_sum")
	require.True(t, ok)
	gauge, ok := sum.Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.InDelta(t, 2.0, gauge.DataPoints[0].Value, 1e-9)
}

func TestExporterRejectsNilArguments(t *testing.T) {
	_, provider := newReader(t)

	_, err := NewExporterFromSource(provider.Meter("aquao-test"), nil)
	assert.ErrorIs(t, err, ErrNilSource)

	_, err = NewExporterFromSource(nil, &fakeSource{})
	assert.ErrorIs(t, err, ErrNilMeter)

	_, err = NewExporter(provider.Meter("aquao-test"), nil)
	assert.ErrorIs(t, err, ErrNilSource)
}

func TestExporterFromClient(t *testing.T) {
	reader, provider := newReader(t)

	cfg := goAquao.DefaultConfig()
	cfg.Host = "http://localhost:8080"
	cfg.SessionName = "sid"
	client, err := goAquao.New().WithConfig(cfg).Build()
	require.NoError(t, err)

	exp, err := NewExporter(provider.Meter("aquao-test"), client)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	// no key configured: the failure is counted
	_, err = client.IssueToken(context.Background())
	require.Error(t, err)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	assert.Equal(t, int64(1), int64Value(t, rm, "aquao_token_issue_failure_total"))
}

func TestExporterConcurrentCollectNoPanic(t *testing.T) {
	reader, provider := newReader(t)

	src := &fakeSource{snapshot: goAquao.MetricsSnapshot{
		Counters: map[goAquao.MetricID]uint64{goAquao.MetricWhoAmISuccess: 1},
		Histograms: map[goAquao.MetricID][]uint64{
			goAquao.MetricCallLatency: {1, 0, 0, 0, 0, 0, 0, 0},
		},
	}}

	exp, err := NewExporterFromSource(provider.Meter("aquao-test"), src)
	require.NoError(t, err)
	defer func() { require.NoError(t, exp.Close()) }()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(v uint64) {
			defer wg.Done()
			src.mu.Lock()
			src.snapshot.Counters[goAquao.MetricWhoAmISuccess] = v
			src.mu.Unlock()

			var rm metricdata.ResourceMetrics
			_ = reader.Collect(context.Background(), &rm)
		}(uint64(i + 1))
	}
	wg.Wait()
}
