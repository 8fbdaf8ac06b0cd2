package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// promRegistry is the real backend, lazily instantiating and caching one
// collector per distinct metric name.
type promRegistry struct {
	mu            sync.Mutex
	counters      map[string]prometheus.Counter
	counterVecs   map[string]*prometheus.CounterVec
	gauges        map[string]prometheus.Gauge
	gaugeVecs     map[string]*prometheus.GaugeVec
	histograms    map[string]prometheus.Histogram
	histogramVecs map[string]*prometheus.HistogramVec
}

func newPrometheusMetrics() registry {
	return &promRegistry{
		counters:      make(map[string]prometheus.Counter),
		counterVecs:   make(map[string]*prometheus.CounterVec),
		gauges:        make(map[string]prometheus.Gauge),
		gaugeVecs:     make(map[string]*prometheus.GaugeVec),
		histograms:    make(map[string]prometheus.Histogram),
		histogramVecs: make(map[string]*prometheus.HistogramVec),
	}
}

func (r *promRegistry) counter(name string) CountMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	if !ok {
		c = registerOrReuse(prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name}))
		r.counters[name] = c
	}
	return promCountMeter{c}
}

func (r *promRegistry) counterVec(name string, labels []string) CountVecMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.counterVecs[name]
	if !ok {
		v = registerOrReuse(prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name}, labels))
		r.counterVecs[name] = v
	}
	return promCountVecMeter{v}
}

func (r *promRegistry) gauge(name string) GaugeMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.gauges[name]
	if !ok {
		g = registerOrReuse(prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name}))
		r.gauges[name] = g
	}
	return promGaugeMeter{g}
}

func (r *promRegistry) gaugeVec(name string, labels []string) GaugeVecMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.gaugeVecs[name]
	if !ok {
		v = registerOrReuse(prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: namespace, Name: name}, labels))
		r.gaugeVecs[name] = v
	}
	return promGaugeVecMeter{v}
}

func (r *promRegistry) histogram(name string, buckets []float64) HistogramMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.histograms[name]
	if !ok {
		h = registerOrReuse(prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: resolveBuckets(buckets)}))
		r.histograms[name] = h
	}
	return promHistogramMeter{h}
}

func (r *promRegistry) histogramVec(name string, labels []string, buckets []float64) HistogramVecMeter {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.histogramVecs[name]
	if !ok {
		v = registerOrReuse(prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: namespace, Name: name, Buckets: resolveBuckets(buckets)}, labels))
		r.histogramVecs[name] = v
	}
	return promHistogramVecMeter{v}
}

func (r *promRegistry) httpHandler() http.Handler {
	return promhttp.Handler()
}

func resolveBuckets(b []float64) []float64 {
	if b == nil {
		return prometheus.DefBuckets
	}
	return b
}

// registerOrReuse registers c with the default registry, or, if a
// collector under the same name/labels is already registered (e.g. a
// prior InitializePrometheusMetrics call in the same process), returns
// that existing collector instead of panicking.
func registerOrReuse[T prometheus.Collector](c T) T {
	if err := prometheus.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

type promCountMeter struct{ c prometheus.Counter }

func (m promCountMeter) Add(v int64) { m.c.Add(float64(v)) }

type promCountVecMeter struct{ v *prometheus.CounterVec }

func (m promCountVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(labels).Add(float64(v))
}

type promGaugeMeter struct{ g prometheus.Gauge }

func (m promGaugeMeter) Add(v int64) { m.g.Add(float64(v)) }

type promGaugeVecMeter struct{ v *prometheus.GaugeVec }

func (m promGaugeVecMeter) AddWithLabel(v int64, labels map[string]string) {
	m.v.With(labels).Add(float64(v))
}

type promHistogramMeter struct{ h prometheus.Histogram }

func (m promHistogramMeter) Observe(v int64) { m.h.Observe(float64(v)) }

type promHistogramVecMeter struct{ v *prometheus.HistogramVec }

func (m promHistogramVecMeter) ObserveWithLabels(v int64, labels map[string]string) {
	m.v.With(labels).Observe(float64(v))
}
