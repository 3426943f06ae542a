package llm

import (
	"context"
	"errors"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/config"
)

// RemoteProvider implements Provider for hosted OpenAI-compatible APIs
// (openai and deepseek). The credential is sent as a bearer token.
type RemoteProvider struct {
	name     string
	model    string
	settings config.RemoteProvider
	sampling sampling
	opts     providerOptions
}

// NewRemoteProvider creates a provider for an OpenAI-compatible backend
func NewRemoteProvider(name, modelName string, settings config.RemoteProvider, temperature *float64, maxTokens int, opts ...Option) *RemoteProvider {
	if name == "" {
		name = settings.Kind
	}
	return &RemoteProvider{
		name:     name,
		model:    modelName,
		settings: settings,
		sampling: sampling{temperature: temperature, maxTokens: maxTokens},
		opts:     buildOptions(opts),
	}
}

// Name returns the provider name
func (p *RemoteProvider) Name() string {
	return p.name
}

// Model returns the model identifier
func (p *RemoteProvider) Model() string {
	return p.model
}

// ValidateConfig checks that a credential is present. Hosted backends are
// not contacted, so a bad key surfaces on the first call as an auth error.
func (p *RemoteProvider) ValidateConfig(ctx context.Context) error {
	if p.settings.APIKey == "" {
		return &ProviderError{Kind: ErrorAuth, Provider: p.name, Err: errors.New("api key is empty")}
	}
	if p.model == "" {
		return &ProviderError{Kind: ErrorModelNotFound, Provider: p.name, Err: errors.New("model is empty")}
	}
	return nil
}

// GenerateText sends messages to the chat completions endpoint
func (p *RemoteProvider) GenerateText(ctx context.Context, messages []*schema.Message, opts GenerateOptions) (string, error) {
	if err := p.ValidateConfig(ctx); err != nil {
		return "", err
	}
	return generate(ctx, p.name, p.opts.timeout, p.createChatModel, messages, p.sampling.merge(opts))
}

func (p *RemoteProvider) createChatModel(ctx context.Context) (model.ChatModel, error) {
	return newOpenAIChatModel(ctx, p.settings.APIKey, p.model, p.settings.BaseURL)
}

// newOpenAIChatModel creates an eino ChatModel for any OpenAI-compatible endpoint
func newOpenAIChatModel(ctx context.Context, apiKey, modelName, baseURL string) (model.ChatModel, error) {
	cfg := &openai.ChatModelConfig{
		APIKey:  apiKey,
		Model:   modelName,
		BaseURL: baseURL,
	}
	return openai.NewChatModel(ctx, cfg)
}
