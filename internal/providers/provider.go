// internal/providers/provider.go

// Package providers defines the interfaces for interacting with different
// local inference runtimes. It provides a common abstraction for issuing
// generation requests, handling streamed responses, and enumerating models,
// regardless of the underlying runtime (e.g., Ollama, llama.cpp).
package providers

import (
	"context"
	"time"

	"github.com/mwiater/lmbench/internal/appconfig"
)

// StreamMetadata contains metadata about a completed generation stream,
// including the runtime's own timing and token accounting when it reports
// them. Durations are nanoseconds, mirroring the Ollama wire format.
type StreamMetadata struct {
	Model              string
	CreatedAt          time.Time
	Done               bool
	TotalDuration      int64
	LoadDuration       int64
	PromptEvalCount    int
	PromptEvalDuration int64
	EvalCount          int
	EvalDuration       int64
}

// GenerateRequest encapsulates a single prompt-to-completion request.
type GenerateRequest struct {
	Host   appconfig.Host
	Model  string
	Prompt string
}

// StreamCallbacks defines the callback functions invoked during a generation
// stream. OnChunk is called for each content chunk received, and OnComplete
// is called once when the stream finishes.
type StreamCallbacks struct {
	OnChunk    func(content string) error
	OnComplete func(StreamMetadata) error
}

// GenerateProvider is the interface every inference runtime adapter must
// implement. Benchmarks only depend on this interface.
type GenerateProvider interface {
	// InstalledModels returns the models available on the host.
	InstalledModels(ctx context.Context, host appconfig.Host) ([]string, error)
	// LoadedModels returns the models currently resident in memory on the host.
	LoadedModels(ctx context.Context, host appconfig.Host) ([]string, error)
	// EnsureModelReady loads the model if necessary so timed runs do not pay the load cost.
	EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error
	// Generate issues a streaming generation request, forwarding output to the callbacks.
	Generate(ctx context.Context, req GenerateRequest, callbacks StreamCallbacks) error
	// Close cleans up any resources used by the provider.
	Close() error
}
