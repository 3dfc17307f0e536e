// internal/providers/llamacpp/provider_test.go
package llamacpp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/providers"
)

// TestProviderGenerateStreaming verifies SSE parsing, chunk forwarding, and
// extraction of token counts from the trailing timings payload.
func TestProviderGenerateStreaming(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/completions" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"model\":\"test-model\",\"choices\":[{\"text\":\"Hello\"}]}\n\n"))
		_, _ = w.Write([]byte("data: {\"model\":\"test-model\",\"choices\":[{\"text\":\" world\"}]}\n\n"))
		_, _ = w.Write([]byte("data: {\"model\":\"test-model\",\"choices\":[{\"text\":\"\",\"finish_reason\":\"stop\"}],\"usage\":{\"prompt_tokens\":5,\"completion_tokens\":12},\"timings\":{\"prompt_n\":5,\"prompt_ms\":40.0,\"predicted_n\":12,\"predicted_ms\":600.0}}\n\n"))
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	provider := New(cfg)

	var chunks []string
	var meta providers.StreamMetadata
	err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:   appconfig.Host{Name: "test", URL: server.URL},
		Model:  "test-model",
		Prompt: "hi",
	}, providers.StreamCallbacks{
		OnChunk: func(content string) error {
			chunks = append(chunks, content)
			return nil
		},
		OnComplete: func(m providers.StreamMetadata) error {
			meta = m
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if strings.Join(chunks, "") != "Hello world" {
		t.Fatalf("unexpected chunks: %+v", chunks)
	}
	if meta.EvalCount != 12 {
		t.Fatalf("expected 12 generated tokens, got %d", meta.EvalCount)
	}
	if meta.EvalDuration != int64(600*1e6) {
		t.Fatalf("unexpected eval duration: %d", meta.EvalDuration)
	}
	if meta.PromptEvalCount != 5 {
		t.Fatalf("unexpected prompt token count: %d", meta.PromptEvalCount)
	}
	if !meta.Done {
		t.Fatalf("expected completed metadata: %+v", meta)
	}
}

// TestProviderGenerateUnterminatedFinalLine verifies a final data line with no
// trailing newline is still parsed, so a closing timings payload is not lost.
func TestProviderGenerateUnterminatedFinalLine(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("data: {\"model\":\"test-model\",\"choices\":[{\"text\":\"Hi\"}]}\n\n"))
		_, _ = w.Write([]byte("data: {\"model\":\"test-model\",\"choices\":[],\"usage\":{\"prompt_tokens\":3,\"completion_tokens\":7},\"timings\":{\"prompt_n\":3,\"prompt_ms\":20.0,\"predicted_n\":7,\"predicted_ms\":350.0}}"))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	provider := New(cfg)

	var meta providers.StreamMetadata
	err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:   appconfig.Host{URL: server.URL},
		Model:  "test-model",
		Prompt: "hi",
	}, providers.StreamCallbacks{
		OnComplete: func(m providers.StreamMetadata) error {
			meta = m
			return nil
		},
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if meta.EvalCount != 7 {
		t.Fatalf("expected 7 generated tokens from final line, got %d", meta.EvalCount)
	}
	if meta.EvalDuration != int64(350*1e6) {
		t.Fatalf("unexpected eval duration: %d", meta.EvalDuration)
	}
	if meta.PromptEvalCount != 3 {
		t.Fatalf("unexpected prompt token count: %d", meta.PromptEvalCount)
	}
}

// TestProviderInstalledModels verifies /v1/models parsing for both the data
// and models response shapes.
func TestProviderInstalledModels(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/models" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"qwen2.5-7b"},{"name":"phi-4"}]}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	provider := New(cfg)

	models, err := provider.InstalledModels(context.Background(), appconfig.Host{URL: server.URL})
	if err != nil {
		t.Fatalf("InstalledModels: %v", err)
	}
	if len(models) != 2 || models[0] != "qwen2.5-7b" || models[1] != "phi-4" {
		t.Fatalf("unexpected models: %+v", models)
	}
}

// TestProviderLoadedModelsStatusFilter verifies router-style status filtering.
func TestProviderLoadedModelsStatusFilter(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"loaded-model","status":"loaded"},{"name":"idle-model","status":"unloaded"}]}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	provider := New(cfg)

	loaded, err := provider.LoadedModels(context.Background(), appconfig.Host{URL: server.URL})
	if err != nil {
		t.Fatalf("LoadedModels: %v", err)
	}
	if len(loaded) != 1 || loaded[0] != "loaded-model" {
		t.Fatalf("unexpected loaded models: %+v", loaded)
	}
}

// TestProviderGenerateErrorStatus verifies non-200 responses become errors.
func TestProviderGenerateErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"loading model"}`))
	}))
	defer server.Close()

	cfg := &appconfig.Config{TimeoutSeconds: 5}
	provider := New(cfg)

	err := provider.Generate(context.Background(), providers.GenerateRequest{
		Host:   appconfig.Host{URL: server.URL},
		Model:  "test-model",
		Prompt: "hi",
	}, providers.StreamCallbacks{})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "loading model") {
		t.Fatalf("expected server message in error, got: %v", err)
	}
}
