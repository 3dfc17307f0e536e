// internal/commands/run.go
package lmbench

import (
	"fmt"
	"strings"

	"github.com/mwiater/lmbench/internal/benchmark"
	"github.com/mwiater/lmbench/internal/report"
	"github.com/mwiater/lmbench/internal/tui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runCmd executes the benchmark: every configured model is exercised with the
// configured prompt for the configured number of runs, and the aggregated
// results are printed and written to disk.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Benchmark the configured models",
	Long: `The 'run' command streams the benchmark prompt to each configured model and
measures tokens per second and time to first token across repeated runs.
Models that are not installed on the host are skipped. Results are printed as
a summary table and written as a JSON document under the output directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		ctx := cmd.Context()
		var doc *benchmark.RunDocument
		var err error
		if cfg.Plain {
			doc, err = benchmark.Run(ctx, cfg, report.PlainSink{})
		} else {
			doc, err = tui.Run(ctx, cfg)
		}
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, report.RenderTable(doc))

		path, err := benchmark.WriteResults(doc, cfg.ResultsDir(), cfg.ExportPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nResults written to %s\n", path)

		if md := strings.TrimSpace(cfg.ExportMarkdown); md != "" {
			if err := report.WriteMarkdown(doc, md); err != nil {
				return err
			}
			fmt.Fprintf(out, "Markdown summary written to %s\n", md)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceP("models", "m", nil, "models to benchmark (overrides config)")
	runCmd.Flags().StringP("prompt", "p", "", "generation prompt (overrides config)")
	runCmd.Flags().IntP("runs", "n", 0, "timed runs per model (overrides config)")
	runCmd.Flags().Int("warmup", 0, "untimed warmup runs per model (-1 disables)")

	_ = viper.BindPFlag("models", runCmd.Flags().Lookup("models"))
	_ = viper.BindPFlag("prompt", runCmd.Flags().Lookup("prompt"))
	_ = viper.BindPFlag("runs", runCmd.Flags().Lookup("runs"))
	_ = viper.BindPFlag("warmup", runCmd.Flags().Lookup("warmup"))
}
