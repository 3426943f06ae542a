package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"github.com/huimingz/commitflow/internal/config"
)

// GeminiProvider implements Provider for Google Gemini
type GeminiProvider struct {
	model    string
	settings config.RemoteProvider
	sampling sampling
	opts     providerOptions
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(modelName string, settings config.RemoteProvider, temperature *float64, maxTokens int, opts ...Option) *GeminiProvider {
	return &GeminiProvider{
		model:    modelName,
		settings: settings,
		sampling: sampling{temperature: temperature, maxTokens: maxTokens},
		opts:     buildOptions(opts),
	}
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// Model returns the model identifier
func (p *GeminiProvider) Model() string {
	return p.model
}

// ValidateConfig looks the model up through the Gemini API
func (p *GeminiProvider) ValidateConfig(ctx context.Context) error {
	if p.settings.APIKey == "" {
		return &ProviderError{Kind: ErrorAuth, Provider: p.Name(), Err: errors.New("api key is empty")}
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.timeout)
	defer cancel()

	client, err := p.newClient(callCtx)
	if err != nil {
		return Classify(p.Name(), err)
	}
	if _, err := client.Models.Get(callCtx, p.model, nil); err != nil {
		return Classify(p.Name(), fmt.Errorf("model %s: %w", p.model, err))
	}
	return nil
}

// GenerateText sends messages to Gemini
func (p *GeminiProvider) GenerateText(ctx context.Context, messages []*schema.Message, opts GenerateOptions) (string, error) {
	if p.settings.APIKey == "" {
		return "", &ProviderError{Kind: ErrorAuth, Provider: p.Name(), Err: errors.New("api key is empty")}
	}
	return generate(ctx, p.Name(), p.opts.timeout, p.createChatModel, messages, p.sampling.merge(opts))
}

func (p *GeminiProvider) newClient(ctx context.Context) (*genai.Client, error) {
	cc := &genai.ClientConfig{
		APIKey:  p.settings.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if p.settings.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: p.settings.BaseURL}
	}
	return genai.NewClient(ctx, cc)
}

func (p *GeminiProvider) createChatModel(ctx context.Context) (model.ChatModel, error) {
	client, err := p.newClient(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &gemini.Config{
		Client: client,
		Model:  p.model,
	}

	return gemini.NewChatModel(ctx, cfg)
}
