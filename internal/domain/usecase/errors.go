package usecase

import "errors"

var (
	// ErrInvalidInterval rejects schedule reconfiguration below one second.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrMissingQuery rejects analysis requests with an empty query.
	ErrMissingQuery = errors.New("missing query")

	// ErrAnalysisFailed wraps generation endpoint failures.
	ErrAnalysisFailed = errors.New("analysis failed")
)
