package prometheus

import (
	"errors"
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	goAquao "github.com/aquao/goAquao"
	"github.com/aquao/goAquao/metrics/export/internaldefs"
)

// ErrNilSource is returned when no metrics source is given.
var ErrNilSource = errors.New("nil metrics source")

type metricsSource interface {
	MetricsSnapshot() goAquao.MetricsSnapshot
}

type histogramDesc struct {
	id   goAquao.MetricID
	desc *prom.Desc
}

type counterDesc struct {
	id   goAquao.MetricID
	desc *prom.Desc
}

// Exporter collects a fresh snapshot on every scrape.
type Exporter struct {
	source     metricsSource
	counters   []counterDesc
	histograms []histogramDesc
}

var _ prom.Collector = (*Exporter)(nil)

// NewExporter returns a collector reading from client.
func NewExporter(client *goAquao.Client) *Exporter {
	return NewExporterFromSource(client)
}

// NewExporterFromSource returns a collector reading from any snapshot source.
func NewExporterFromSource(source metricsSource) *Exporter {
	e := &Exporter{
		source:     source,
		counters:   make([]counterDesc, 0, len(internaldefs.CounterDefs)),
		histograms: make([]histogramDesc, 0, len(internaldefs.HistogramDefs)),
	}
	for _, def := range internaldefs.CounterDefs {
		e.counters = append(e.counters, counterDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	for _, def := range internaldefs.HistogramDefs {
		e.histograms = append(e.histograms, histogramDesc{id: def.ID, desc: prom.NewDesc(def.Name, def.Help, nil, nil)})
	}
	return e
}

// Describe implements prometheus.Collector.
func (e *Exporter) Describe(ch chan<- *prom.Desc) {
	for _, c := range e.counters {
		ch <- c.desc
	}
	for _, h := range e.histograms {
		ch <- h.desc
	}
}

// Collect implements prometheus.Collector. Nothing is emitted while the client
// runs with metrics disabled; histograms are skipped when latency tracking is off.
func (e *Exporter) Collect(ch chan<- prom.Metric) {
	if e == nil || e.source == nil {
		return
	}

	snapshot := e.source.MetricsSnapshot()
	if len(snapshot.Counters) == 0 && len(snapshot.Histograms) == 0 {
		return
	}

	for _, c := range e.counters {
		ch <- prom.MustNewConstMetric(c.desc, prom.CounterValue, float64(snapshot.Counters[c.id]))
	}

	for _, h := range e.histograms {
		raw, ok := snapshot.Histograms[h.id]
		if !ok {
			continue
		}
		cumulative := internaldefs.CumulativeBuckets(internaldefs.NormalizeBuckets(raw))
		buckets := make(map[float64]uint64, len(internaldefs.UpperBounds))
		for i, bound := range internaldefs.UpperBounds {
			buckets[bound] = cumulative[i]
		}
		count := cumulative[len(cumulative)-1]
		sum := snapshot.HistogramSums[h.id].Seconds()
		ch <- prom.MustNewConstHistogram(h.desc, count, sum, buckets)
	}
}

// Registry returns a fresh registry holding only this exporter.
func (e *Exporter) Registry() (*prom.Registry, error) {
	reg := prom.NewRegistry()
	if err := reg.Register(e); err != nil {
		return nil, err
	}
	return reg, nil
}

// Handler serves the exporter's metrics in the Prometheus exposition format.
func (e *Exporter) Handler() (http.Handler, error) {
	reg, err := e.Registry()
	if err != nil {
		return nil, err
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), nil
}

// WriteTextfile writes one scrape of source to path in the text exposition format.
// The file is replaced atomically.
func WriteTextfile(path string, source metricsSource) error {
	if source == nil {
		return ErrNilSource
	}
	reg, err := NewExporterFromSource(source).Registry()
	if err != nil {
		return err
	}
	return prom.WriteToTextfile(path, reg)
}
