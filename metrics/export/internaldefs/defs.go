package internaldefs

import (
	"strconv"
	"strings"

	goAquao "github.com/aquao/goAquao"
)

// CounterDef names one client counter for exporters.
type CounterDef struct {
	ID   goAquao.MetricID
	Name string
	Help string
}

// HistogramDef names one client histogram for exporters.
type HistogramDef struct {
	ID   goAquao.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a stable order.
var CounterDefs = []CounterDef{
	{ID: goAquao.MetricWhoAmISuccess, Name: "aquao_whoami_success_total", Help: "Successful identity calls."},
	{ID: goAquao.MetricWhoAmIFailure, Name: "aquao_whoami_failure_total", Help: "Failed identity calls."},
	{ID: goAquao.MetricAuthenticateSuccess, Name: "aquao_authenticate_success_total", Help: "Successful token authentications."},
	{ID: goAquao.MetricAuthenticateFailure, Name: "aquao_authenticate_failure_total", Help: "Failed token authentications."},
	{ID: goAquao.MetricLogoutSuccess, Name: "aquao_logout_success_total", Help: "Successful logout calls."},
	{ID: goAquao.MetricLogoutFailure, Name: "aquao_logout_failure_total", Help: "Failed logout calls."},
	{ID: goAquao.MetricTokenIssued, Name: "aquao_token_issued_total", Help: "Signed authorization tokens."},
	{ID: goAquao.MetricTokenIssueFailure, Name: "aquao_token_issue_failure_total", Help: "Token signing failures."},
	{ID: goAquao.MetricSessionChanged, Name: "aquao_session_changed_total", Help: "Responses that replaced the tracked session id."},
	{ID: goAquao.MetricSequenceCompleted, Name: "aquao_sequence_completed_total", Help: "Call sequences that ran to the end."},
	{ID: goAquao.MetricSequenceAborted, Name: "aquao_sequence_aborted_total", Help: "Call sequences stopped by an error."},
}

// HistogramDefs lists every exported histogram.
var HistogramDefs = []HistogramDef{
	{ID: goAquao.MetricCallLatency, Name: "aquao_call_latency_seconds", Help: "Latency of AquaO API calls."},
}

// UpperBounds are the finite bucket bounds in seconds, in order. The last client
// bucket has no finite bound and maps to +Inf.
var UpperBounds = func() []float64 {
	out := make([]float64, len(goAquao.HistogramBounds))
	for i, b := range goAquao.HistogramBounds {
		out[i] = b.Seconds()
	}
	return out
}()

// HistogramBounds are the "le" label values of every bucket, +Inf included.
var HistogramBounds = func() []string {
	out := make([]string, 0, goAquao.HistBucketCount)
	for _, b := range UpperBounds {
		out = append(out, strconv.FormatFloat(b, 'f', -1, 64))
	}
	return append(out, "+Inf")
}()

// HistogramBoundSuffix are metric-name-safe renderings of [HistogramBounds].
var HistogramBoundSuffix = func() []string {
	out := make([]string, 0, len(HistogramBounds))
	for _, le := range HistogramBounds {
		if le == "+Inf" {
			out = append(out, "inf")
			continue
		}
		out = append(out, strings.ReplaceAll(le, ".", "_"))
	}
	return out
}()

// NormalizeBuckets copies raw into a fixed array, padding missing buckets with zero.
func NormalizeBuckets(raw []uint64) [goAquao.HistBucketCount]uint64 {
	var out [goAquao.HistBucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets turns per-bucket counts into running totals; the last entry
// is the sample count.
func CumulativeBuckets(raw [goAquao.HistBucketCount]uint64) [goAquao.HistBucketCount]uint64 {
	var out [goAquao.HistBucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
