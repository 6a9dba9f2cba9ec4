// Package internaldefs holds the metric names and bucket boundaries shared by the
// exporter packages.
//
// Both the Prometheus and OTel exporters read these definitions, so a rename here
// changes every exporter at once. Bucket bounds are derived from
// goAquao.HistogramBounds.
//
// # What this package must NOT do
//
//   - Import any exporter package.
//   - Perform I/O.
package internaldefs
