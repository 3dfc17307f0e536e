// internal/commands/analyze.go
package lmbench

import (
	"fmt"
	"strings"

	"github.com/mwiater/lmbench/internal/report"
	"github.com/spf13/cobra"
)

var analyzeDir string

// analyzeCmd loads previously written result documents and renders their
// summary tables side by side, oldest first.
var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compare saved benchmark results",
	Long: `The 'analyze' command reads every result document in the output directory,
validates each against the result schema, and prints their summary tables in
chronological order. Invalid documents are skipped.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}

		dir := strings.TrimSpace(analyzeDir)
		if dir == "" {
			dir = cfg.ResultsDir()
		}

		docs, err := report.LoadDocuments(dir)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), report.RenderComparison(docs))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&analyzeDir, "dir", "", "directory of result documents (defaults to the output directory)")
}
