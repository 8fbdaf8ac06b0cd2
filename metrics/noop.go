package metrics

import "net/http"

// noopMeters satisfies every meter interface with methods that discard
// their input; it is the backend in effect before
// InitializePrometheusMetrics is called.
type noopMeters struct{}

func (noopMeters) Add(int64)                                  {}
func (noopMeters) AddWithLabel(int64, map[string]string)       {}
func (noopMeters) Observe(int64)                               {}
func (noopMeters) ObserveWithLabels(int64, map[string]string)  {}

type noopRegistry struct {
	m noopMeters
}

func defaultNoopMetrics() registry { return &noopRegistry{} }

func (r *noopRegistry) counter(string) CountMeter                             { return r.m }
func (r *noopRegistry) counterVec(string, []string) CountVecMeter             { return r.m }
func (r *noopRegistry) gauge(string) GaugeMeter                               { return r.m }
func (r *noopRegistry) gaugeVec(string, []string) GaugeVecMeter               { return r.m }
func (r *noopRegistry) histogram(string, []float64) HistogramMeter            { return r.m }
func (r *noopRegistry) histogramVec(string, []string, []float64) HistogramVecMeter {
	return r.m
}

// httpHandler reports 404 for the scrape endpoint: without a real
// backend there is nothing to scrape.
func (r *noopRegistry) httpHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.NotFound(w, nil)
	})
}
