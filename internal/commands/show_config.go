// internal/commands/show_config.go
package lmbench

import (
	"fmt"

	"github.com/mwiater/lmbench/internal/models"
	"github.com/spf13/cobra"
)

// configCmd groups configuration inspection commands.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

// showConfigCmd displays the merged configuration after flags override file values.
var showConfigCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the merged configuration",
	Long:  `Show the configuration after the JSON config file is loaded and overridden by flags.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if cfg == nil {
			return fmt.Errorf("configuration is not initialized")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", cfg.ConfigPath)
		models.ShowConfig(cfg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(showConfigCmd)
}
