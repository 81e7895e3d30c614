package usecase

// Metrics is the observability surface the usecases publish to.
type Metrics interface {
	IncCollectionCycle()
	IncWorkerFailure()
	IncFallbackResult()
	IncAnomalyDetected()
	ObserveAnalysisSeconds(seconds float64)
}
