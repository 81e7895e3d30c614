package observability

import "github.com/prometheus/client_golang/prometheus"

// PromMetrics publishes the pipeline counters to the default prometheus
// registry, scraped via /metrics.
type PromMetrics struct {
	cycles          prometheus.Counter
	workerFailures  prometheus.Counter
	fallbacks       prometheus.Counter
	anomalies       prometheus.Counter
	analysisLatency prometheus.Histogram
}

func NewPromMetrics() *PromMetrics {
	cycles := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_collection_cycles_total",
		Help: "Completed collection cycles, scheduled and manual.",
	})
	workerFailures := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_worker_failures_total",
		Help: "Inference worker invocations that exited non-zero, timed out, or produced unparsable output.",
	})
	fallbacks := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_fallback_results_total",
		Help: "Synthetic prediction results substituted for failed worker calls.",
	})
	anomalies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "monitor_anomalies_detected_total",
		Help: "Persisted predictions flagged anomalous.",
	})
	analysisLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "monitor_analysis_duration_seconds",
		Help:    "Latency of external generation calls for analysis requests.",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
	})

	prometheus.MustRegister(cycles, workerFailures, fallbacks, anomalies, analysisLatency)

	return &PromMetrics{
		cycles:          cycles,
		workerFailures:  workerFailures,
		fallbacks:       fallbacks,
		anomalies:       anomalies,
		analysisLatency: analysisLatency,
	}
}

func (m *PromMetrics) IncCollectionCycle() { m.cycles.Inc() }
func (m *PromMetrics) IncWorkerFailure()   { m.workerFailures.Inc() }
func (m *PromMetrics) IncFallbackResult()  { m.fallbacks.Inc() }
func (m *PromMetrics) IncAnomalyDetected() { m.anomalies.Inc() }
func (m *PromMetrics) ObserveAnalysisSeconds(seconds float64) {
	m.analysisLatency.Observe(seconds)
}

// Nop satisfies the usecase metrics surface where no registry is wanted,
// mainly in tests.
type Nop struct{}

func (Nop) IncCollectionCycle()                    {}
func (Nop) IncWorkerFailure()                      {}
func (Nop) IncFallbackResult()                     {}
func (Nop) IncAnomalyDetected()                    {}
func (Nop) ObserveAnalysisSeconds(seconds float64) {}
