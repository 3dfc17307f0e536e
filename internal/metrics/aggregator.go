// internal/metrics/aggregator.go
// Package metrics computes throughput and latency summaries over benchmark runs.
package metrics

// Summarize condenses a model's run observations into per-metric
// distributions. Every observation contributes to every group, so each
// distribution reports over exactly len(observations) values.
func Summarize(observations []RunObservation) ModelSummary {
	tps := NewStatGroup()
	ttft := NewStatGroup()
	total := NewStatGroup()
	input := NewStatGroup()
	output := NewStatGroup()

	for _, obs := range observations {
		tps.Push(obs.TokensPerSecond)
		ttft.Push(obs.TTFTMillis)
		total.Push(obs.TotalDurationMillis)
		input.Push(float64(obs.InputTokens))
		output.Push(float64(obs.OutputTokens))
	}

	return ModelSummary{
		Runs:                len(observations),
		TokensPerSecond:     tps.Summary(),
		TTFTMillis:          ttft.Summary(),
		TotalDurationMillis: total.Summary(),
		InputTokens:         input.Summary(),
		OutputTokens:        output.Summary(),
	}
}
