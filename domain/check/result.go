package check

// Result is one recorded execution outcome of a check.
type Result struct {
	ID                  string  `json:"id"`
	CheckID             string  `json:"checkId,omitempty"`
	RunLocation         string  `json:"runLocation"`
	StartedAt           string  `json:"startedAt"`
	StoppedAt           string  `json:"stoppedAt"`
	ResponseTime        float64 `json:"responseTime"`
	HasFailures         bool    `json:"hasFailures"`
	HasErrors           bool    `json:"hasErrors"`
	IsDegraded          bool    `json:"isDegraded"`
	OverMaxResponseTime bool    `json:"overMaxResponseTime"`
}

// Passed reports whether the run had neither failures nor errors.
func (r Result) Passed() bool {
	return !r.HasFailures && !r.HasErrors
}

// ResultSummary is the projection of a Result returned to callers.
type ResultSummary struct {
	ID                  string  `json:"id"`
	RunLocation         string  `json:"run_location"`
	StartedAt           string  `json:"started_at"`
	StoppedAt           string  `json:"stopped_at"`
	ResponseTime        float64 `json:"response_time"`
	Passed              bool    `json:"passed"`
	IsDegraded          bool    `json:"is_degraded"`
	OverMaxResponseTime bool    `json:"over_max_response_time"`
}

// Summarize projects r for display.
func (r Result) Summarize() ResultSummary {
	return ResultSummary{
		ID:                  r.ID,
		RunLocation:         r.RunLocation,
		StartedAt:           r.StartedAt,
		StoppedAt:           r.StoppedAt,
		ResponseTime:        r.ResponseTime,
		Passed:              r.Passed(),
		IsDegraded:          r.IsDegraded,
		OverMaxResponseTime: r.OverMaxResponseTime,
	}
}
