package tone

import "errors"

// Reasons an analysis was served locally. None of them fail the analysis.
var (
	ErrBudgetExhausted    = errors.New("remote analysis budget exhausted")
	ErrRemoteUnavailable  = errors.New("remote analysis unavailable")
	ErrMalformedResponse  = errors.New("malformed remote analysis")
	ErrRemoteUnconfigured = errors.New("remote analysis not configured")
)
