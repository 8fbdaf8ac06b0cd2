// Package metrics wraps Prometheus instrumentation behind a small set
// of lazily-resolved meter interfaces. Callers obtain a meter by name
// before the process decides whether metrics are enabled at all; until
// InitializePrometheusMetrics is called, every meter is a no-op so
// instrumented code never has to branch on whether metrics are on.
package metrics

import "net/http"

// namespace prefixes every metric name this package registers.
const namespace = "globalstate_metrics"

// CountMeter accumulates a monotonically increasing count.
type CountMeter interface {
	Add(v int64)
}

// CountVecMeter accumulates a count across a set of label values.
type CountVecMeter interface {
	AddWithLabel(v int64, labels map[string]string)
}

// GaugeMeter tracks a value that can move up or down.
type GaugeMeter interface {
	Add(v int64)
}

// GaugeVecMeter tracks a gauge across a set of label values.
type GaugeVecMeter interface {
	AddWithLabel(v int64, labels map[string]string)
}

// HistogramMeter records observations into configured buckets.
type HistogramMeter interface {
	Observe(v int64)
}

// HistogramVecMeter records observations across a set of label values.
type HistogramVecMeter interface {
	ObserveWithLabels(v int64, labels map[string]string)
}

// registry is implemented by both the noop and prometheus backends.
type registry interface {
	counter(name string) CountMeter
	counterVec(name string, labels []string) CountVecMeter
	gauge(name string) GaugeMeter
	gaugeVec(name string, labels []string) GaugeVecMeter
	histogram(name string, buckets []float64) HistogramMeter
	histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter
	httpHandler() http.Handler
}

var metrics registry = defaultNoopMetrics()

// InitializePrometheusMetrics switches the package over to a real
// Prometheus-backed registry. It is idempotent-in-effect but not safe to
// call concurrently with metric access; call it once, early, at process
// startup.
func InitializePrometheusMetrics() {
	metrics = newPrometheusMetrics()
}

// Counter returns (creating if needed) the named counter.
func Counter(name string) CountMeter { return metrics.counter(name) }

// CounterVec returns the named labelled counter.
func CounterVec(name string, labels []string) CountVecMeter { return metrics.counterVec(name, labels) }

// Gauge returns the named gauge.
func Gauge(name string) GaugeMeter { return metrics.gauge(name) }

// GaugeVec returns the named labelled gauge.
func GaugeVec(name string, labels []string) GaugeVecMeter { return metrics.gaugeVec(name, labels) }

// Histogram returns the named histogram. A nil buckets slice uses the
// Prometheus default bucket ladder.
func Histogram(name string, buckets []float64) HistogramMeter { return metrics.histogram(name, buckets) }

// HistogramVec returns the named labelled histogram.
func HistogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	return metrics.histogramVec(name, labels, buckets)
}

// HTTPHandler exposes the metrics scrape endpoint, or a 404 handler
// while the noop backend is active.
func HTTPHandler() http.Handler { return metrics.httpHandler() }

// LazyLoadCounter defers the Counter(name) lookup to first call,
// letting a package-level var be declared before InitializePrometheusMetrics
// runs and still resolve to the real backend once it does.
func LazyLoadCounter(name string) func() CountMeter {
	return func() CountMeter { return Counter(name) }
}

// LazyLoadCounterVec is the CounterVec analogue of LazyLoadCounter.
func LazyLoadCounterVec(name string, labels []string) func() CountVecMeter {
	return func() CountVecMeter { return CounterVec(name, labels) }
}

// LazyLoadGauge is the Gauge analogue of LazyLoadCounter.
func LazyLoadGauge(name string) func() GaugeMeter {
	return func() GaugeMeter { return Gauge(name) }
}

// LazyLoadGaugeVec is the GaugeVec analogue of LazyLoadCounter.
func LazyLoadGaugeVec(name string, labels []string) func() GaugeVecMeter {
	return func() GaugeVecMeter { return GaugeVec(name, labels) }
}

// LazyLoadHistogram is the Histogram analogue of LazyLoadCounter.
func LazyLoadHistogram(name string, buckets []float64) func() HistogramMeter {
	return func() HistogramMeter { return Histogram(name, buckets) }
}

// LazyLoadHistogramVec is the HistogramVec analogue of LazyLoadCounter.
func LazyLoadHistogramVec(name string, labels []string, buckets []float64) func() HistogramVecMeter {
	return func() HistogramVecMeter { return HistogramVec(name, labels, buckets) }
}
