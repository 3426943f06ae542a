package llm

import (
	"fmt"

	"github.com/huimingz/commitflow/internal/config"
)

// NewProvider creates a Provider from a resolved model
func NewProvider(m *config.ResolvedModel, opts ...Option) (Provider, error) {
	if m == nil {
		return nil, fmt.Errorf("no model configured")
	}

	switch s := m.Settings.(type) {
	case config.LocalProvider:
		return NewOllamaProvider(m.Model, s, m.Temperature, m.MaxTokens, opts...), nil
	case config.RemoteProvider:
		switch s.Kind {
		case "gemini":
			return NewGeminiProvider(m.Model, s, m.Temperature, m.MaxTokens, opts...), nil
		case "openai", "deepseek":
			return NewRemoteProvider(s.Kind, m.Model, s, m.Temperature, m.MaxTokens, opts...), nil
		default:
			return nil, fmt.Errorf("unsupported provider: %s", s.Kind)
		}
	default:
		return nil, fmt.Errorf("model '%s' has no provider settings", m.Name)
	}
}

// NewProviderFromConfig resolves modelName in cfg and creates its provider
func NewProviderFromConfig(cfg *config.Config, modelName string, opts ...Option) (Provider, error) {
	resolved, err := cfg.ResolveModel(modelName)
	if err != nil {
		return nil, err
	}
	return NewProvider(resolved, opts...)
}

// NewFallbackFromConfig creates the fallback provider, or returns nil when none is configured
func NewFallbackFromConfig(cfg *config.Config, opts ...Option) (Provider, error) {
	resolved, err := cfg.ResolveFallback()
	if err != nil {
		return nil, fmt.Errorf("fallback model: %w", err)
	}
	if resolved == nil {
		return nil, nil
	}
	return NewProvider(resolved, opts...)
}
