package prometheus

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goAquao "github.com/aquao/goAquao"
)

type fakeSource struct {
	snapshot goAquao.MetricsSnapshot
}

func (f fakeSource) MetricsSnapshot() goAquao.MetricsSnapshot { return f.snapshot }

func sampleSource() fakeSource {
	return fakeSource{snapshot: goAquao.MetricsSnapshot{
		Counters: map[goAquao.MetricID]uint64{
			goAquao.MetricWhoAmISuccess:     3,
			goAquao.MetricTokenIssued:       1,
			goAquao.MetricSequenceCompleted: 1,
		},
		Histograms: map[goAquao.MetricID][]uint64{
			goAquao.MetricCallLatency: {1, 2, 3, 4, 5, 6, 7, 8},
		},
		HistogramSums: map[goAquao.MetricID]time.Duration{
			goAquao.MetricCallLatency: 1500 * time.Millisecond,
		},
	}}
}

func TestCollectCounters(t *testing.T) {
	exp := NewExporterFromSource(sampleSource())

	expected := `
# HELP aquao_whoami_success_total Successful identity calls.
# TYPE aquao_whoami_success_total counter
aquao_whoami_success_total 3
# HELP aquao_token_issued_total Signed authorization tokens.
# TYPE aquao_token_issued_total counter
aquao_token_issued_total 1
# HELP aquao_logout_failure_total Failed logout calls.
# TYPE aquao_logout_failure_total counter
aquao_logout_failure_total 0
`
	err := testutil.CollectAndCompare(exp, strings.NewReader(expected),
		"aquao_whoami_success_total", "aquao_token_issued_total", "aquao_logout_failure_total")
	require.NoError(t, err)
}

func TestCollectHistogram(t *testing.T) {
	exp := NewExporterFromSource(sampleSource())

	expected := `
# HELP aquao_call_latency_seconds Latency of AquaO API calls.
# TYPE aquao_call_latency_seconds histogram
aquao_call_latency_seconds_bucket{le="0.025"} 1
aquao_call_latency_seconds_bucket{le="0.05"} 3
aquao_call_latency_seconds_bucket{le="0.1"} 6
aquao_call_latency_seconds_bucket{le="0.25"} 10
aquao_call_latency_seconds_bucket{le="0.5"} 15
aquao_call_latency_seconds_bucket{le="1"} 21
aquao_call_latency_seconds_bucket{le="2.5"} 28
aquao_call_latency_seconds_bucket{le="+Inf"} 36
aquao_call_latency_seconds_sum 1.5
aquao_call_latency_seconds_count 36
`
	err := testutil.CollectAndCompare(exp, strings.NewReader(expected), "aquao_call_latency_seconds")
	require.NoError(t, err)
}

func TestCollectNothingWhenMetricsDisabled(t *testing.T) {
	exp := NewExporterFromSource(fakeSource{snapshot: goAquao.MetricsSnapshot{
		Counters:   map[goAquao.MetricID]uint64{},
		Histograms: map[goAquao.MetricID][]uint64{},
	}})
	assert.Equal(t, 0, testutil.CollectAndCount(exp))
}

func TestHistogramSkippedWithoutLatency(t *testing.T) {
	src := sampleSource()
	delete(src.snapshot.Histograms, goAquao.MetricCallLatency)

	exp := NewExporterFromSource(src)
	assert.Equal(t, 0, testutil.CollectAndCount(exp, "aquao_call_latency_seconds"))
	assert.Equal(t, 1, testutil.CollectAndCount(exp, "aquao_token_issued_total"))
}

func TestHandlerServesExposition(t *testing.T) {
	h, err := NewExporterFromSource(sampleSource()).Handler()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "aquao_sequence_completed_total 1")
}

func TestWriteTextfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aquao.prom")
	require.NoError(t, WriteTextfile(path, sampleSource()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "aquao_whoami_success_total 3")
	assert.Contains(t, out, `aquao_call_latency_seconds_bucket{le="+Inf"} 36`)
}

func TestWriteTextfileFromClient(t *testing.T) {
	cfg := goAquao.DefaultConfig()
	cfg.Host = "http://localhost:8080"
	cfg.SessionName = "sid"
	client, err := goAquao.New().WithConfig(cfg).Build()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "client.prom")
	require.NoError(t, WriteTextfile(path, client))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "aquao_token_issued_total 0")
	assert.Contains(t, string(raw), `aquao_call_latency_seconds_bucket{le="+Inf"} 0`)
}

func TestWriteTextfileNilSource(t *testing.T) {
	assert.ErrorIs(t, WriteTextfile(filepath.Join(t.TempDir(), "x"), nil), ErrNilSource)
}
