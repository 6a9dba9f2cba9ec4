// Package prometheus exposes client metrics through the Prometheus client library.
//
// [Exporter] is a prometheus.Collector built from a MetricsSnapshot source.
// Counters are named aquao_*_total; the call latency histogram is
// aquao_call_latency_seconds. [WriteTextfile] renders one scrape into a file for
// the node_exporter textfile collector, which suits a short-lived process.
//
// # What this package must NOT do
//
//   - Register metrics in the global Prometheus registry.
//   - Mutate client state.
package prometheus
