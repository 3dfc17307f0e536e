// internal/models/models.go
// Package models surfaces host model inventory for the CLI commands.
package models

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/k0kubun/pp"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/providerfactory"
)

var nodeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

// ListInstalled prints the models available on the configured host.
func ListInstalled(ctx context.Context, cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}

	provider, err := providerfactory.NewGenerateProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	names, err := provider.InstalledModels(ctx, cfg.Host)
	if err != nil {
		return fmt.Errorf("listing models on %s: %w", cfg.Host.URL, err)
	}

	printModelList(cfg.Host, names, "no models installed")
	return nil
}

// ListLoaded prints the models currently resident in memory on the host.
func ListLoaded(ctx context.Context, cfg *appconfig.Config) error {
	if cfg == nil {
		return fmt.Errorf("configuration is not initialized")
	}

	provider, err := providerfactory.NewGenerateProvider(cfg)
	if err != nil {
		return err
	}
	defer provider.Close()

	names, err := provider.LoadedModels(ctx, cfg.Host)
	if err != nil {
		return fmt.Errorf("listing loaded models on %s: %w", cfg.Host.URL, err)
	}

	printModelList(cfg.Host, names, "no models loaded")
	return nil
}

// ShowConfig pretty-prints the merged configuration.
func ShowConfig(cfg *appconfig.Config) {
	pp.Println(cfg)
}

func printModelList(host appconfig.Host, names []string, emptyNotice string) {
	label := host.Name
	if label == "" {
		label = host.URL
	}
	fmt.Println(nodeStyle.Render(fmt.Sprintf("%s:", label)))
	if len(names) == 0 {
		fmt.Println("  " + emptyNotice)
		return
	}
	for _, name := range names {
		fmt.Println("  >>> " + name)
	}
	fmt.Println()
}
