// internal/commands/models.go
package lmbench

import (
	"fmt"

	"github.com/mwiater/lmbench/internal/models"
	"github.com/spf13/cobra"
)

// modelsCmd groups model inventory commands.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Inspect models on the configured host",
}

// listModelsCmd enumerates every model installed on the configured host.
var listModelsCmd = &cobra.Command{
	Use:   "list",
	Short: "List all models installed on the host",
	Long:  `The 'list' subcommand lists every model installed on the host specified in the configuration file (default: config/config.json).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}
		return models.ListInstalled(cmd.Context(), cfg)
	},
}

// loadedModelsCmd shows which models are currently resident in memory.
var loadedModelsCmd = &cobra.Command{
	Use:   "loaded",
	Short: "List models currently loaded on the host",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}
		return models.ListLoaded(cmd.Context(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(listModelsCmd)
	modelsCmd.AddCommand(loadedModelsCmd)
}
