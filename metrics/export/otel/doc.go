// Package otel binds client counters and the call latency histogram to
// OpenTelemetry observable instruments.
//
// [NewExporter] registers one Int64ObservableCounter per client counter and, for the
// histogram, one Int64ObservableGauge per cumulative bucket plus count and sum
// gauges. A single callback reads [goAquao.Client.MetricsSnapshot] on each
// collection cycle.
//
// # What this package must NOT do
//
//   - Own the OTel MeterProvider; callers supply the Meter.
//   - Mutate client state.
package otel
