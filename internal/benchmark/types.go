// internal/benchmark/types.go
package benchmark

import (
	"time"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/metrics"
	"github.com/mwiater/lmbench/internal/sysinfo"
)

// RunSample contains the detailed performance measurements for one timed run.
type RunSample struct {
	Run                int           `json:"run"`
	TotalExecutionTime time.Duration `json:"totalExecutionTime"`
	TimeToFirstToken   time.Duration `json:"timeToFirstToken"`
	TokensPerSecond    float64       `json:"tokensPerSecond"`
	InputTokenCount    int           `json:"inputTokenCount"`
	OutputTokenCount   int           `json:"outputTokenCount"`
}

// ModelResult holds the samples and aggregated summary for a single model.
type ModelResult struct {
	ModelName  string               `json:"modelName"`
	Skipped    bool                 `json:"skipped,omitempty"`
	SkipReason string               `json:"skipReason,omitempty"`
	Samples    []RunSample          `json:"samples,omitempty"`
	Summary    metrics.ModelSummary `json:"summary"`
}

// RunDocument is the complete record of one benchmark invocation, written as
// a single JSON file under the results directory.
type RunDocument struct {
	Host         appconfig.Host   `json:"host"`
	Prompt       string           `json:"prompt"`
	Runs         int              `json:"runs"`
	Warmup       int              `json:"warmup"`
	StartedAtUTC time.Time        `json:"startedAtUtc"`
	System       sysinfo.Snapshot `json:"system"`
	Results      []ModelResult    `json:"results"`
}

// EventSink receives progress notifications from the benchmark loop so the
// rendering surface (log lines or the live TUI) stays out of the timing path.
type EventSink interface {
	BenchmarkStarted(models []string, runs int)
	ModelStarted(model string, runs int)
	ModelSkipped(model, reason string)
	WarmupStarted(model string, count int)
	RunCompleted(model string, sample RunSample, avgTokensPerSecond float64)
	ModelCompleted(model string, summary metrics.ModelSummary)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) BenchmarkStarted([]string, int)                  {}
func (NopSink) ModelStarted(string, int)                        {}
func (NopSink) ModelSkipped(string, string)                     {}
func (NopSink) WarmupStarted(string, int)                       {}
func (NopSink) RunCompleted(string, RunSample, float64)         {}
func (NopSink) ModelCompleted(string, metrics.ModelSummary)     {}
