// internal/providerfactory/factory.go
package providerfactory

import (
	"fmt"
	"strings"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/providers"
	"github.com/mwiater/lmbench/internal/providers/llamacpp"
	"github.com/mwiater/lmbench/internal/providers/ollama"
)

// NewGenerateProvider selects and configures the provider matching the
// configured host type. An empty type defaults to Ollama.
func NewGenerateProvider(cfg *appconfig.Config) (providers.GenerateProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("nil config provided to provider factory")
	}

	switch normalizeHostType(cfg.Host.Type) {
	case "ollama":
		return ollama.New(cfg), nil
	case "llama.cpp":
		return llamacpp.New(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported host type %q", cfg.Host.Type)
	}
}

func normalizeHostType(hostType string) string {
	switch strings.ToLower(strings.TrimSpace(hostType)) {
	case "", "ollama":
		return "ollama"
	case "llamacpp", "llama.cpp":
		return "llama.cpp"
	default:
		return strings.ToLower(strings.TrimSpace(hostType))
	}
}
