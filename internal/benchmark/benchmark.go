// internal/benchmark/benchmark.go
// Package benchmark times streamed generation requests against a local
// inference host and aggregates throughput and latency per model.
package benchmark

import (
	"context"
	"fmt"
	"time"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/logging"
	"github.com/mwiater/lmbench/internal/metrics"
	"github.com/mwiater/lmbench/internal/providerfactory"
	"github.com/mwiater/lmbench/internal/providers"
	"github.com/mwiater/lmbench/internal/sysinfo"
)

var (
	newGenerateProvider = providerfactory.NewGenerateProvider
	collectSysinfo      = sysinfo.Collect
)

// Run benchmarks every configured model sequentially: installed-model check,
// readiness probe, warmup runs, then exactly cfg.BenchmarkRuns() timed runs.
// Any failed request aborts the whole run; a model missing from the host is
// the only non-fatal case and is recorded as skipped.
func Run(ctx context.Context, cfg *appconfig.Config, sink EventSink) (*RunDocument, error) {
	if cfg == nil {
		return nil, fmt.Errorf("benchmark requires a configuration")
	}
	if len(cfg.Models) == 0 {
		return nil, fmt.Errorf("benchmark requires at least one model (config models or --models)")
	}
	if sink == nil {
		sink = NopSink{}
	}

	provider, err := newGenerateProvider(cfg)
	if err != nil {
		return nil, err
	}
	defer provider.Close()

	runs := cfg.BenchmarkRuns()
	warmup := cfg.WarmupRuns()
	prompt := cfg.BenchmarkPrompt()

	doc := &RunDocument{
		Host:         cfg.Host,
		Prompt:       prompt,
		Runs:         runs,
		Warmup:       warmup,
		StartedAtUTC: time.Now().UTC(),
		System:       collectSysinfo(),
	}

	installed, err := provider.InstalledModels(ctx, cfg.Host)
	if err != nil {
		return nil, fmt.Errorf("listing models on host %s: %w", cfg.Host.URL, err)
	}
	installedSet := make(map[string]struct{}, len(installed))
	for _, name := range installed {
		installedSet[name] = struct{}{}
	}

	sink.BenchmarkStarted(cfg.Models, runs)

	for _, model := range cfg.Models {
		if _, ok := installedSet[model]; !ok {
			reason := "model not installed on host; model names may need the :latest tag"
			logging.LogEvent("Skipping %s: %s", model, reason)
			sink.ModelSkipped(model, reason)
			doc.Results = append(doc.Results, ModelResult{
				ModelName:  model,
				Skipped:    true,
				SkipReason: reason,
			})
			continue
		}

		sink.ModelStarted(model, runs)
		logging.LogEvent("Ensuring model %s is loaded on host %s...", model, cfg.Host.URL)
		if err := provider.EnsureModelReady(ctx, cfg.Host, model); err != nil {
			return nil, fmt.Errorf("ensuring model %s is ready: %w", model, err)
		}

		if warmup > 0 {
			sink.WarmupStarted(model, warmup)
			for i := 0; i < warmup; i++ {
				req := providers.GenerateRequest{Host: cfg.Host, Model: model, Prompt: prompt}
				if err := provider.Generate(ctx, req, providers.StreamCallbacks{}); err != nil {
					return nil, fmt.Errorf("warmup run %d for model %s: %w", i+1, model, err)
				}
			}
		}

		result := ModelResult{ModelName: model}
		observations := make([]metrics.RunObservation, 0, runs)
		var totalTPS float64

		for i := 0; i < runs; i++ {
			sample, err := measureRun(ctx, provider, cfg.Host, model, prompt, i+1)
			if err != nil {
				return nil, fmt.Errorf("run %d of %d for model %s: %w", i+1, runs, model, err)
			}

			result.Samples = append(result.Samples, sample)
			observations = append(observations, metrics.RunObservation{
				TokensPerSecond:     sample.TokensPerSecond,
				TTFTMillis:          float64(sample.TimeToFirstToken) / float64(time.Millisecond),
				TotalDurationMillis: float64(sample.TotalExecutionTime) / float64(time.Millisecond),
				InputTokens:         sample.InputTokenCount,
				OutputTokens:        sample.OutputTokenCount,
			})

			totalTPS += sample.TokensPerSecond
			sink.RunCompleted(model, sample, totalTPS/float64(i+1))

			logging.LogEvent("Run %d of %d for model %s complete:", i+1, runs, model)
			logging.LogEvent("  Total Execution Time: %s", sample.TotalExecutionTime)
			logging.LogEvent("  Time to First Token: %s", sample.TimeToFirstToken)
			logging.LogEvent("  Tokens per Second: %.2f", sample.TokensPerSecond)
			logging.LogEvent("  Input Tokens: %d", sample.InputTokenCount)
			logging.LogEvent("  Output Tokens: %d", sample.OutputTokenCount)
		}

		result.Summary = metrics.Summarize(observations)
		sink.ModelCompleted(model, result.Summary)
		doc.Results = append(doc.Results, result)
	}

	return doc, nil
}

// measureRun issues one streaming request and derives the sample from the
// stream timing and the host's own token accounting. When the host omits
// eval statistics the streamed chunk count over the generation window is
// used instead.
func measureRun(ctx context.Context, provider providers.GenerateProvider, host appconfig.Host, model, prompt string, run int) (RunSample, error) {
	start := time.Now()
	var timeToFirstToken time.Duration
	firstChunk := true
	var chunkCount int
	var meta providers.StreamMetadata

	req := providers.GenerateRequest{Host: host, Model: model, Prompt: prompt}
	callbacks := providers.StreamCallbacks{
		OnChunk: func(content string) error {
			if firstChunk {
				timeToFirstToken = time.Since(start)
				firstChunk = false
			}
			chunkCount++
			return nil
		},
		OnComplete: func(m providers.StreamMetadata) error {
			meta = m
			return nil
		},
	}

	if err := provider.Generate(ctx, req, callbacks); err != nil {
		return RunSample{}, err
	}
	totalExecutionTime := time.Since(start)

	outputTokens := meta.EvalCount
	if outputTokens == 0 {
		outputTokens = chunkCount
	}

	var tokensPerSecond float64
	switch {
	case meta.EvalDuration > 0:
		tokensPerSecond = float64(meta.EvalCount) / (float64(meta.EvalDuration) / 1e9)
	default:
		window := totalExecutionTime - timeToFirstToken
		if window <= 0 {
			window = totalExecutionTime
		}
		if window > 0 {
			tokensPerSecond = float64(outputTokens) / window.Seconds()
		}
	}

	return RunSample{
		Run:                run,
		TotalExecutionTime: totalExecutionTime,
		TimeToFirstToken:   timeToFirstToken,
		TokensPerSecond:    tokensPerSecond,
		InputTokenCount:    meta.PromptEvalCount,
		OutputTokenCount:   outputTokens,
	}, nil
}
