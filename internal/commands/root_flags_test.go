// internal/commands/root_flags_test.go
package lmbench

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mwiater/lmbench/internal/logging"
	"github.com/spf13/viper"
)

func resetFlag(cmdFlag string) {
	flag := rootCmd.PersistentFlags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func resetRunFlag(cmdFlag string) {
	flag := runCmd.Flags().Lookup(cmdFlag)
	if flag == nil {
		return
	}
	_ = flag.Value.Set(flag.DefValue)
	flag.Changed = false
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestPersistentPreRunEUsesFlagValues(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "lmbench.log")
	configPath := writeTempConfig(t, `{"host": {"name": "local", "url": "http://localhost:11434"}}`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "plain", "export", "exportMarkdown", "logFile"} {
		resetFlag(name)
	}
	_ = rootCmd.PersistentFlags().Set("debug", "true")
	_ = rootCmd.PersistentFlags().Set("plain", "true")
	_ = rootCmd.PersistentFlags().Set("export", "out.json")
	_ = rootCmd.PersistentFlags().Set("exportMarkdown", "out.md")
	_ = rootCmd.PersistentFlags().Set("logFile", logPath)

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil || currentConfig.ConfigPath != configPath {
		t.Fatalf("expected config loaded with path %s", configPath)
	}
	if !currentConfig.Debug || !currentConfig.Plain {
		t.Fatalf("expected flag values to flow into config: %+v", currentConfig)
	}
	if currentConfig.ExportPath != "out.json" {
		t.Fatalf("expected export set, got %s", currentConfig.ExportPath)
	}
	if currentConfig.ExportMarkdown != "out.md" {
		t.Fatalf("expected exportMarkdown set, got %s", currentConfig.ExportMarkdown)
	}
	if currentConfig.Host.URL != "http://localhost:11434" {
		t.Fatalf("expected host url from config file, got %s", currentConfig.Host.URL)
	}
}

func TestPersistentPreRunEPrefersConfigWhenFlagsUnchanged(t *testing.T) {
	configPath := writeTempConfig(t, `{
        "host": {"name": "local", "url": "http://localhost:11434"},
        "models": ["llama3.2:latest"],
        "prompt": "Explain recursion.",
        "runs": 5,
        "plain": true
    }`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "plain", "export", "exportMarkdown", "logFile"} {
		resetFlag(name)
	}
	for _, name := range []string{"models", "prompt", "runs", "warmup"} {
		resetRunFlag(name)
	}

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if currentConfig == nil {
		t.Fatal("expected config loaded")
	}
	if len(currentConfig.Models) != 1 || currentConfig.Models[0] != "llama3.2:latest" {
		t.Fatalf("expected models from config file, got %v", currentConfig.Models)
	}
	if currentConfig.Prompt != "Explain recursion." {
		t.Fatalf("expected prompt from config file, got %s", currentConfig.Prompt)
	}
	if currentConfig.Runs != 5 {
		t.Fatalf("expected runs from config file, got %d", currentConfig.Runs)
	}
	if !currentConfig.Plain {
		t.Fatalf("expected plain from config file: %+v", currentConfig)
	}
}

func TestRunFlagsOverrideConfig(t *testing.T) {
	configPath := writeTempConfig(t, `{
        "host": {"name": "local", "url": "http://localhost:11434"},
        "models": ["llama3.2:latest"],
        "runs": 5
    }`)

	prevCfgFile := cfgFile
	cfgFile = configPath
	viper.SetConfigFile(configPath)
	t.Cleanup(func() {
		cfgFile = prevCfgFile
		viper.SetConfigFile(prevCfgFile)
	})
	t.Cleanup(func() { _ = logging.Close() })

	for _, name := range []string{"debug", "plain", "export", "exportMarkdown", "logFile"} {
		resetFlag(name)
	}
	for _, name := range []string{"models", "prompt", "runs", "warmup"} {
		resetRunFlag(name)
	}
	_ = runCmd.Flags().Set("models", "qwen2.5:3b,gemma3:4b")
	_ = runCmd.Flags().Set("runs", "3")
	_ = runCmd.Flags().Set("prompt", "Why is the sky blue?")
	t.Cleanup(func() {
		for _, name := range []string{"models", "prompt", "runs", "warmup"} {
			resetRunFlag(name)
		}
	})

	if err := rootCmd.PersistentPreRunE(rootCmd, []string{}); err != nil {
		t.Fatalf("PersistentPreRunE error: %v", err)
	}

	if len(currentConfig.Models) != 2 || currentConfig.Models[0] != "qwen2.5:3b" {
		t.Fatalf("expected flag models to win, got %v", currentConfig.Models)
	}
	if currentConfig.Runs != 3 {
		t.Fatalf("expected flag runs to win, got %d", currentConfig.Runs)
	}
	if currentConfig.Prompt != "Why is the sky blue?" {
		t.Fatalf("expected flag prompt to win, got %s", currentConfig.Prompt)
	}
}
