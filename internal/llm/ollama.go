package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/config"
	"github.com/huimingz/commitflow/internal/log"
)

// ollamaAPIKey is a placeholder, Ollama does not check credentials
const ollamaAPIKey = "ollama"

// OllamaProvider implements Provider for a local Ollama server.
// Generation goes through Ollama's OpenAI-compatible endpoint under /v1.
type OllamaProvider struct {
	model    string
	baseURL  string
	client   *http.Client
	sampling sampling
	opts     providerOptions
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(modelName string, settings config.LocalProvider, temperature *float64, maxTokens int, opts ...Option) *OllamaProvider {
	baseURL := strings.TrimRight(settings.BaseURL, "/")
	if baseURL == "" {
		baseURL = config.OllamaDefaultBaseURL
	}
	// Accept a base URL that already points at the OpenAI-compatible API
	baseURL = strings.TrimSuffix(baseURL, "/v1")

	return &OllamaProvider{
		model:    modelName,
		baseURL:  baseURL,
		client:   http.DefaultClient,
		sampling: sampling{temperature: temperature, maxTokens: maxTokens},
		opts:     buildOptions(opts),
	}
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model returns the model identifier
func (p *OllamaProvider) Model() string {
	return p.model
}

// ollamaTags is the response of GET /api/tags
type ollamaTags struct {
	Models []struct {
		Name  string `json:"name"`
		Model string `json:"model"`
	} `json:"models"`
}

// ValidateConfig verifies that the server answers and has the model pulled
func (p *OllamaProvider) ValidateConfig(ctx context.Context) error {
	callCtx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	models, err := p.listModels(callCtx)
	if err != nil {
		return err
	}
	for _, name := range models {
		if sameOllamaModel(name, p.model) {
			return nil
		}
	}
	log.Debug("Ollama models available: %v", models)
	return &ProviderError{
		Kind:     ErrorModelNotFound,
		Provider: p.Name(),
		Err:      fmt.Errorf("model %s is not installed on %s", p.model, p.baseURL),
	}
}

// GenerateText verifies the model and then sends messages to it
func (p *OllamaProvider) GenerateText(ctx context.Context, messages []*schema.Message, opts GenerateOptions) (string, error) {
	if err := p.ValidateConfig(ctx); err != nil {
		return "", err
	}
	return generate(ctx, p.Name(), p.opts.timeout, p.createChatModel, messages, p.sampling.merge(opts))
}

func (p *OllamaProvider) createChatModel(ctx context.Context) (model.ChatModel, error) {
	return newOpenAIChatModel(ctx, ollamaAPIKey, p.model, p.baseURL+"/v1")
}

func (p *OllamaProvider) listModels(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return nil, &ProviderError{Kind: ErrorUnreachable, Provider: p.Name(), Err: err}
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, &ProviderError{Kind: ErrorTimeout, Provider: p.Name(), Err: err}
		}
		return nil, &ProviderError{Kind: ErrorUnreachable, Provider: p.Name(), Err: fmt.Errorf("cannot connect to %s: %w", p.baseURL, err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		kind := classifyHTTPStatus(resp.StatusCode, resp.Status)
		if kind == ErrorUnknown || kind == ErrorModelNotFound {
			kind = ErrorUnreachable
		}
		return nil, &ProviderError{Kind: kind, Provider: p.Name(), Err: fmt.Errorf("GET /api/tags: %s", resp.Status)}
	}

	var tags ollamaTags
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return nil, &ProviderError{Kind: ErrorUnreachable, Provider: p.Name(), Err: fmt.Errorf("invalid /api/tags response: %w", err)}
	}

	names := make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		if m.Name != "" {
			names = append(names, m.Name)
		} else if m.Model != "" {
			names = append(names, m.Model)
		}
	}
	return names, nil
}

// sameOllamaModel compares model names, treating a missing tag as ":latest"
func sameOllamaModel(installed, wanted string) bool {
	return withDefaultTag(installed) == withDefaultTag(wanted)
}

func withDefaultTag(name string) string {
	if !strings.Contains(name, ":") {
		return name + ":latest"
	}
	return name
}
