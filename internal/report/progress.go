// internal/report/progress.go
package report

import (
	"github.com/fatih/color"

	"github.com/mwiater/lmbench/internal/benchmark"
	"github.com/mwiater/lmbench/internal/logging"
	"github.com/mwiater/lmbench/internal/metrics"
)

var (
	statusColor = color.New(color.FgCyan)
	skipColor   = color.New(color.FgYellow)
	doneColor   = color.New(color.FgGreen)
)

// PlainSink renders benchmark progress as colored log lines. It is the
// fallback surface when the live view is disabled or stdout is not a TTY.
type PlainSink struct{}

func (PlainSink) BenchmarkStarted(models []string, runs int) {
	statusColor.Printf("Benchmarking %d model(s), %d run(s) each\n", len(models), runs)
}

func (PlainSink) ModelStarted(model string, runs int) {
	statusColor.Printf("%s: starting...\n", model)
}

func (PlainSink) ModelSkipped(model, reason string) {
	skipColor.Printf("%s: skipped (%s)\n", model, reason)
}

func (PlainSink) WarmupStarted(model string, count int) {
	logging.LogEvent("%s: %d warmup run(s)", model, count)
}

func (PlainSink) RunCompleted(model string, sample benchmark.RunSample, avgTokensPerSecond float64) {
	statusColor.Printf("%s: run %d | %.2f tokens/sec | average: %.2f tokens/sec\n",
		model, sample.Run, sample.TokensPerSecond, avgTokensPerSecond)
}

func (PlainSink) ModelCompleted(model string, summary metrics.ModelSummary) {
	doneColor.Printf("%s: %d/%d runs | average: %.2f tokens/sec\n",
		model, summary.Runs, summary.Runs, summary.TokensPerSecond.Mean)
}
