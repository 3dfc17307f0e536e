// internal/providers/ollama/provider.go
// Package ollama provides a GenerateProvider backed by Ollama-compatible HTTP endpoints.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/lmbench/internal/appconfig"
	"github.com/mwiater/lmbench/internal/logging"
	"github.com/mwiater/lmbench/internal/providers"
)

// Provider implements the providers.GenerateProvider interface using Ollama HTTP APIs.
type Provider struct {
	client  *http.Client
	timeout time.Duration
	debug   bool
}

// New constructs a Provider configured with the application's request timeout.
func New(cfg *appconfig.Config) *Provider {
	timeout := cfg.RequestTimeout()
	return &Provider{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout: timeout,
		debug:   cfg.Debug,
	}
}

// ollamaTagsResponse defines the structure of the response from the /api/tags endpoint.
type ollamaTagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// ollamaPsResponse defines the structure of the response from the /api/ps endpoint.
type ollamaPsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// streamChunk defines the structure of a single chunk in a streaming /api/generate response.
type streamChunk struct {
	Model              string `json:"model"`
	Response           string `json:"response"`
	Done               bool   `json:"done"`
	TotalDuration      int64  `json:"total_duration"`
	LoadDuration       int64  `json:"load_duration"`
	PromptEvalCount    int    `json:"prompt_eval_count"`
	PromptEvalDuration int64  `json:"prompt_eval_duration"`
	EvalCount          int    `json:"eval_count"`
	EvalDuration       int64  `json:"eval_duration"`
}

// InstalledModels returns the models available on the host via /api/tags.
func (p *Provider) InstalledModels(ctx context.Context, host appconfig.Host) ([]string, error) {
	body, err := p.get(ctx, host, "/api/tags")
	if err != nil {
		return nil, err
	}

	var tags ollamaTagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, err
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// LoadedModels returns the models currently loaded in memory on the host via /api/ps.
func (p *Provider) LoadedModels(ctx context.Context, host appconfig.Host) ([]string, error) {
	body, err := p.get(ctx, host, "/api/ps")
	if err != nil {
		return nil, err
	}

	var ps ollamaPsResponse
	if err := json.Unmarshal(body, &ps); err != nil {
		return nil, err
	}

	names := make([]string, len(ps.Models))
	for i, m := range ps.Models {
		names[i] = m.Name
	}
	return names, nil
}

func (p *Provider) get(ctx context.Context, host appconfig.Host, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := host.URL + path
	logging.LogRequest("LMBENCH->LLM", hostIdentifier(host), "", map[string]string{"method": http.MethodGet, "url": endpoint})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ollama: %s returned %s", path, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("LLM->LMBENCH", hostIdentifier(host), "", body)
	return body, nil
}

// EnsureModelReady triggers a bare generate request to make sure the model is loaded.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	payload := map[string]any{
		"model": model,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	logging.LogRequest("LMBENCH->LLM", hostIdentifier(host), model, body)

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, host.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	logging.LogRequest("LLM->LMBENCH", hostIdentifier(host), model, respBody)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama: /api/generate returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}

	return nil
}

// Generate issues a streaming generate request and forwards output to the provided callbacks.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest, callbacks providers.StreamCallbacks) error {
	hostID := hostIdentifier(req.Host)

	payload := map[string]any{
		"model":  req.Model,
		"prompt": req.Prompt,
		"stream": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	logging.LogRequest("LMBENCH->LLM", hostID, req.Model, body)

	streamCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodPost, req.Host.URL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logging.LogRequest("LLM->LMBENCH", hostID, req.Model, raw)
		return fmt.Errorf("ollama: /api/generate returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	decoder := json.NewDecoder(resp.Body)
	var final streamChunk
	for {
		var chunk streamChunk
		if err := decoder.Decode(&chunk); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if p.debug {
			if data, err := json.Marshal(chunk); err == nil {
				logging.LogRequest("LLM->LMBENCH", hostID, req.Model, data)
			}
		}

		if callbacks.OnChunk != nil && chunk.Response != "" {
			if err := callbacks.OnChunk(chunk.Response); err != nil {
				return err
			}
		}

		if chunk.Done {
			final = chunk
			break
		}
	}

	if callbacks.OnComplete != nil {
		modelName := final.Model
		if modelName == "" {
			modelName = req.Model
		}
		meta := providers.StreamMetadata{
			Model:              modelName,
			CreatedAt:          time.Now(),
			Done:               final.Done,
			TotalDuration:      final.TotalDuration,
			LoadDuration:       final.LoadDuration,
			PromptEvalCount:    final.PromptEvalCount,
			PromptEvalDuration: final.PromptEvalDuration,
			EvalCount:          final.EvalCount,
			EvalDuration:       final.EvalDuration,
		}
		if err := callbacks.OnComplete(meta); err != nil {
			return err
		}
	}

	return nil
}

// Close releases any resources held by the provider.
func (p *Provider) Close() error {
	return nil
}

func hostIdentifier(host appconfig.Host) string {
	if strings.TrimSpace(host.Name) != "" {
		return host.Name
	}
	return host.URL
}
