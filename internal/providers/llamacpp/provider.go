// internal/providers/llamacpp/provider.go
// Package llamacpp provides a GenerateProvider backed by llama.cpp's OpenAI-compatible HTTP API.
package llamacpp

import (
	"bufio"
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

// Provider implements the providers.GenerateProvider interface using llama.cpp HTTP APIs.
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

type modelsResponse struct {
	Data   []llamaModel `json:"data"`
	Models []llamaModel `json:"models"`
}

type llamaModel struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Model  string `json:"model"`
	Status string `json:"status"`
}

// completionStreamChunk is a single SSE payload from /v1/completions.
// llama.cpp appends a timings object the OpenAI schema does not have; when
// present it carries the server-side token accounting.
type completionStreamChunk struct {
	Model   string `json:"model"`
	Choices []struct {
		Text         string `json:"text"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage,omitempty"`
	Timings *struct {
		PromptN     int     `json:"prompt_n"`
		PromptMS    float64 `json:"prompt_ms"`
		PredictedN  int     `json:"predicted_n"`
		PredictedMS float64 `json:"predicted_ms"`
	} `json:"timings,omitempty"`
}

// InstalledModels returns the models known to the host via /v1/models.
func (p *Provider) InstalledModels(ctx context.Context, host appconfig.Host) ([]string, error) {
	models, err := p.fetchModels(ctx, host)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, model := range models {
		if name := modelDisplayName(model); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

// LoadedModels returns the models currently loaded in memory on the host.
// Plain llama.cpp servers report every model as loaded; router builds expose
// a status field which is honored when present.
func (p *Provider) LoadedModels(ctx context.Context, host appconfig.Host) ([]string, error) {
	models, err := p.fetchModels(ctx, host)
	if err != nil {
		return nil, err
	}

	var loaded []string
	for _, model := range models {
		status := strings.TrimSpace(model.Status)
		if status != "" && !strings.EqualFold(status, "loaded") {
			continue
		}
		if name := modelDisplayName(model); name != "" {
			loaded = append(loaded, name)
		}
	}
	return loaded, nil
}

func (p *Provider) fetchModels(ctx context.Context, host appconfig.Host) ([]llamaModel, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := host.URL + "/v1/models"
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
		return nil, fmt.Errorf("llama.cpp: /v1/models returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("LLM->LMBENCH", hostIdentifier(host), "", body)

	var parsed modelsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, err
	}
	if len(parsed.Data) > 0 {
		return parsed.Data, nil
	}
	return parsed.Models, nil
}

// EnsureModelReady issues a single-token completion so the first timed run
// does not pay the model load cost.
func (p *Provider) EnsureModelReady(ctx context.Context, host appconfig.Host, model string) error {
	payload := map[string]any{
		"model":      model,
		"prompt":     "ready",
		"max_tokens": 1,
		"stream":     false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := host.URL + "/v1/completions"
	logging.LogRequest("LMBENCH->LLM", hostIdentifier(host), model, body)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
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
		return fmt.Errorf("llama.cpp: /v1/completions returned %s: %s", resp.Status, strings.TrimSpace(string(respBody)))
	}
	return nil
}

// Generate issues a streaming completion request and forwards output to the provided callbacks.
func (p *Provider) Generate(ctx context.Context, req providers.GenerateRequest, callbacks providers.StreamCallbacks) error {
	payload := map[string]any{
		"model":  req.Model,
		"prompt": req.Prompt,
		"stream": true,
		"stream_options": map[string]any{
			"include_usage": true,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	hostID := hostIdentifier(req.Host)
	logging.LogRequest("LMBENCH->LLM", hostID, req.Model, body)

	streamCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	endpoint := req.Host.URL + "/v1/completions"
	httpReq, err := http.NewRequestWithContext(streamCtx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		logging.LogRequest("LLM->LMBENCH", hostID, req.Model, raw)
		return fmt.Errorf("llama.cpp: /v1/completions returned %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	return p.handleStreaming(resp, req, callbacks)
}

func (p *Provider) handleStreaming(resp *http.Response, req providers.GenerateRequest, callbacks providers.StreamCallbacks) error {
	reader := bufio.NewReader(resp.Body)
	hostID := hostIdentifier(req.Host)

	var finalModel string
	meta := providers.StreamMetadata{Model: req.Model}

	for {
		// A stream may end without a trailing newline; ReadString then hands
		// back the partial line together with io.EOF, so process the line
		// before acting on the read error.
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return readErr
		}
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "data:") {
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "[DONE]" {
				break
			}
			if p.debug {
				logging.LogRequest("LLM->LMBENCH", hostID, req.Model, data)
			}

			var chunk completionStreamChunk
			if err := json.Unmarshal([]byte(data), &chunk); err != nil {
				return err
			}
			if chunk.Model != "" {
				finalModel = chunk.Model
			}
			if chunk.Usage != nil {
				meta.PromptEvalCount = chunk.Usage.PromptTokens
				meta.EvalCount = chunk.Usage.CompletionTokens
			}
			if chunk.Timings != nil {
				meta.PromptEvalCount = chunk.Timings.PromptN
				meta.PromptEvalDuration = int64(chunk.Timings.PromptMS * 1e6)
				meta.EvalCount = chunk.Timings.PredictedN
				meta.EvalDuration = int64(chunk.Timings.PredictedMS * 1e6)
			}
			if len(chunk.Choices) > 0 {
				content := chunk.Choices[0].Text
				if callbacks.OnChunk != nil && content != "" {
					if err := callbacks.OnChunk(content); err != nil {
						return err
					}
				}
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
	}

	if callbacks.OnComplete != nil {
		if finalModel != "" {
			meta.Model = finalModel
		}
		meta.CreatedAt = time.Now()
		meta.Done = true
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

func modelDisplayName(model llamaModel) string {
	for _, candidate := range []string{model.Name, model.ID, model.Model} {
		if name := strings.TrimSpace(candidate); name != "" {
			return name
		}
	}
	return ""
}

func hostIdentifier(host appconfig.Host) string {
	if strings.TrimSpace(host.Name) != "" {
		return host.Name
	}
	return host.URL
}
