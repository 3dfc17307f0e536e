// internal/metrics/types.go
package metrics

// RunningStat holds the necessary values for online calculation of mean,
// variance, and stddev using Welford's algorithm.
type RunningStat struct {
	Count int64   `json:"-"`
	Mean  float64 `json:"mean"`
	M2    float64 `json:"-"` // Sum of squares of differences from the current mean
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Distribution is the serialized summary of one metric across a model's runs.
type Distribution struct {
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	StdDev float64 `json:"stddev"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// RunObservation carries the measured values of a single timed run into the
// summarizer. Durations are milliseconds.
type RunObservation struct {
	TokensPerSecond     float64
	TTFTMillis          float64
	TotalDurationMillis float64
	InputTokens         int
	OutputTokens        int
}

// ModelSummary aggregates every observed metric for one benchmarked model.
type ModelSummary struct {
	Runs                int          `json:"runs"`
	TokensPerSecond     Distribution `json:"tokensPerSecond"`
	TTFTMillis          Distribution `json:"ttftMillis"`
	TotalDurationMillis Distribution `json:"totalDurationMillis"`
	InputTokens         Distribution `json:"inputTokens"`
	OutputTokens        Distribution `json:"outputTokens"`
}
