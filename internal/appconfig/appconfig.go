// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRequestTimeout is the default timeout for HTTP requests.
	defaultRequestTimeout = 600 * time.Second
	// DefaultPrompt is used for benchmark generation when the config and flags omit one.
	DefaultPrompt = "Why is the sky blue?"
	// defaultRuns is the number of timed runs per model when unspecified.
	defaultRuns = 1
	// defaultWarmup is the number of untimed warmup runs per model.
	defaultWarmup = 1
	// defaultOutputDir is where benchmark result documents are written.
	defaultOutputDir = "lmbenchData/benchmarks"
)

// Config represents the top-level application configuration.
type Config struct {
	Host           Host     `json:"host" mapstructure:"host"`
	Models         []string `json:"models" mapstructure:"models"`
	Prompt         string   `json:"prompt,omitempty" mapstructure:"prompt"`
	Runs           int      `json:"runs,omitempty" mapstructure:"runs"`
	Warmup         int      `json:"warmup" mapstructure:"warmup"`
	TimeoutSeconds int      `json:"timeout,omitempty" mapstructure:"timeout"`
	OutputDir      string   `json:"outputDir,omitempty" mapstructure:"outputDir"`
	ExportPath     string   `json:"export,omitempty" mapstructure:"export"`
	ExportMarkdown string   `json:"exportMarkdown,omitempty" mapstructure:"exportMarkdown"`
	LogFile        string   `json:"logFile,omitempty" mapstructure:"logFile"`
	Debug          bool     `json:"debug" mapstructure:"debug"`
	Plain          bool     `json:"plain" mapstructure:"plain"`
	ConfigPath     string   `json:"-" mapstructure:"-"`
}

// Host represents the inference runtime the benchmarks are issued against.
type Host struct {
	Name string `json:"name" mapstructure:"name"`
	URL  string `json:"url" mapstructure:"url"`
	Type string `json:"type" mapstructure:"type"`
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BenchmarkRuns returns the number of timed runs per model, applying the default if not set.
func (c Config) BenchmarkRuns() int {
	if c.Runs <= 0 {
		return defaultRuns
	}
	return c.Runs
}

// WarmupRuns returns the number of untimed warmup runs per model.
// A negative value disables warmup entirely.
func (c Config) WarmupRuns() int {
	if c.Warmup < 0 {
		return 0
	}
	if c.Warmup == 0 {
		return defaultWarmup
	}
	return c.Warmup
}

// BenchmarkPrompt returns the generation prompt, applying the default if not set.
func (c Config) BenchmarkPrompt() string {
	if strings.TrimSpace(c.Prompt) == "" {
		return DefaultPrompt
	}
	return c.Prompt
}

// ResultsDir returns the directory benchmark result documents are written to.
func (c Config) ResultsDir() string {
	if dir := strings.TrimSpace(c.OutputDir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "lmbench.log"
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err == nil {
		if strings.TrimSpace(config.Host.URL) == "" {
			return Config{}, errors.New("config must declare a host url")
		}
		config.ConfigPath = path
		return config, nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q", path)
	}

	return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.TimeoutSeconds <= 0 {
		config.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}
	if strings.TrimSpace(config.Host.Type) == "" {
		config.Host.Type = "ollama"
	}

	return config, nil
}
