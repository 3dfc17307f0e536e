// internal/report/report.go
// Package report renders benchmark run documents for the console and for
// markdown export.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mwiater/lmbench/internal/benchmark"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	skipStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
)

const tableFormat = "%-28s %6s %12s %12s %12s %12s %12s"

// RenderTable renders the per-model summary table for a single run document.
func RenderTable(doc *benchmark.RunDocument) string {
	var b strings.Builder

	host := doc.Host.Name
	if host == "" {
		host = doc.Host.URL
	}
	b.WriteString(titleStyle.Render(fmt.Sprintf("Benchmark: %s (%d runs, prompt %q)", host, doc.Runs, doc.Prompt)))
	b.WriteString("\n\n")

	header := fmt.Sprintf(tableFormat,
		"MODEL", "RUNS", "TOK/S MEAN", "TOK/S MIN", "TOK/S MAX", "TTFT MS", "TTFT P95")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	for _, result := range doc.Results {
		if result.Skipped {
			b.WriteString(skipStyle.Render(fmt.Sprintf("%-28s %s", result.ModelName, result.SkipReason)))
			b.WriteString("\n")
			continue
		}
		s := result.Summary
		b.WriteString(fmt.Sprintf(tableFormat,
			result.ModelName,
			fmt.Sprintf("%d", s.Runs),
			fmt.Sprintf("%.2f", s.TokensPerSecond.Mean),
			fmt.Sprintf("%.2f", s.TokensPerSecond.Min),
			fmt.Sprintf("%.2f", s.TokensPerSecond.Max),
			fmt.Sprintf("%.0f", s.TTFTMillis.Mean),
			fmt.Sprintf("%.0f", s.TTFTMillis.P95)))
		b.WriteString("\n")
	}

	return b.String()
}

// WriteMarkdown writes the run document as a markdown table, mirroring the
// console report for sharing outside the terminal.
func WriteMarkdown(doc *benchmark.RunDocument, path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("markdown export path is empty")
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create markdown export directory: %w", err)
		}
	}

	var b strings.Builder
	host := doc.Host.Name
	if host == "" {
		host = doc.Host.URL
	}
	fmt.Fprintf(&b, "# Benchmark: %s\n\n", host)
	fmt.Fprintf(&b, "- Runs per model: %d\n", doc.Runs)
	fmt.Fprintf(&b, "- Prompt: %q\n", doc.Prompt)
	fmt.Fprintf(&b, "- Started: %s\n", doc.StartedAtUTC.Format("2006-01-02 15:04:05 UTC"))
	if doc.System.CPUModel != "" {
		fmt.Fprintf(&b, "- CPU: %s (%d cores)\n", doc.System.CPUModel, doc.System.LogicalCores)
	}
	b.WriteString("\n")

	b.WriteString("| Model | Runs | Tok/s mean | Tok/s min | Tok/s max | TTFT ms | TTFT p95 ms |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: | ---: | ---: |\n")
	for _, result := range doc.Results {
		if result.Skipped {
			fmt.Fprintf(&b, "| %s | skipped | %s | | | | |\n", result.ModelName, result.SkipReason)
			continue
		}
		s := result.Summary
		fmt.Fprintf(&b, "| %s | %d | %.2f | %.2f | %.2f | %.0f | %.0f |\n",
			result.ModelName, s.Runs,
			s.TokensPerSecond.Mean, s.TokensPerSecond.Min, s.TokensPerSecond.Max,
			s.TTFTMillis.Mean, s.TTFTMillis.P95)
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write markdown export: %w", err)
	}
	return nil
}
