package config

import (
	"fmt"
	"os"
	"strings"
)

// ProviderSettings is the connection information of one backend. It is
// implemented only by LocalProvider and RemoteProvider.
type ProviderSettings interface {
	providerSettings()
}

// LocalProvider is a backend running on the developer's machine
type LocalProvider struct {
	BaseURL string
}

// RemoteProvider is a hosted backend that requires a credential
type RemoteProvider struct {
	Kind    string // openai, deepseek or gemini
	APIKey  string
	BaseURL string
}

func (LocalProvider) providerSettings()  {}
func (RemoteProvider) providerSettings() {}

// Default endpoints
const (
	OllamaDefaultBaseURL   = "http://localhost:11434"
	DeepseekDefaultBaseURL = "https://api.deepseek.com/v1"
)

// GenericAPIKeyEnv is consulted for any remote provider without a provider-specific variable set
const GenericAPIKeyEnv = "COMMITFLOW_API_KEY"

// apiKeyEnv lists the environment variables holding credentials per provider
var apiKeyEnv = map[string][]string{
	"openai":   {"OPENAI_API_KEY"},
	"deepseek": {"DEEPSEEK_API_KEY"},
	"gemini":   {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// ResolvedModel is a validated model ready to build a provider from
type ResolvedModel struct {
	Name        string
	Provider    string
	Model       string
	Settings    ProviderSettings
	Temperature *float64
	MaxTokens   int
}

// SelectModelName picks the model key to use
// Priority: parameter > env variable (COMMITFLOW_MODEL) > activeModel
func (c *Config) SelectModelName(modelName string) string {
	if modelName != "" {
		return modelName
	}
	if env := os.Getenv("COMMITFLOW_MODEL"); env != "" {
		return env
	}
	return c.ActiveModel
}

// ResolveModel converts a configured model into its closed provider
// settings, resolving credentials from the environment first.
func (c *Config) ResolveModel(modelName string) (*ResolvedModel, error) {
	name := c.SelectModelName(modelName)
	if name == "" {
		return nil, fmt.Errorf("no model specified and no active model configured")
	}

	m, ok := c.lookupModel(name)
	if !ok {
		return nil, fmt.Errorf("model '%s' not found in configuration", name)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid model '%s': %w", name, err)
	}

	resolved := &ResolvedModel{
		Name:        name,
		Provider:    m.Provider,
		Model:       m.Model,
		Temperature: m.Temperature,
		MaxTokens:   m.MaxTokens,
	}
	if resolved.Temperature == nil {
		resolved.Temperature = c.Temperature
	}
	if resolved.MaxTokens == 0 {
		resolved.MaxTokens = c.MaxTokens
	}

	switch m.Provider {
	case "ollama":
		baseURL := m.BaseURL
		if baseURL == "" {
			baseURL = OllamaDefaultBaseURL
		}
		resolved.Settings = LocalProvider{BaseURL: strings.TrimRight(baseURL, "/")}
	default:
		apiKey := ResolveAPIKey(m.Provider, m.APIKey)
		if apiKey == "" {
			return nil, fmt.Errorf("model '%s': api key is required for provider %s (set apiKey or %s)",
				name, m.Provider, strings.Join(append(apiKeyEnv[m.Provider], GenericAPIKeyEnv), ", "))
		}
		baseURL := m.BaseURL
		if baseURL == "" && m.Provider == "deepseek" {
			baseURL = DeepseekDefaultBaseURL
		}
		resolved.Settings = RemoteProvider{Kind: m.Provider, APIKey: apiKey, BaseURL: baseURL}
	}

	return resolved, nil
}

// ResolveFallback resolves the fallback model, or returns nil when none is configured
func (c *Config) ResolveFallback() (*ResolvedModel, error) {
	if c.FallbackModel == "" {
		return nil, nil
	}
	return c.ResolveModel(c.FallbackModel)
}

// ResolveAPIKey returns the credential for provider. Environment variables
// override the stored key, which may itself reference a variable.
func ResolveAPIKey(provider, stored string) string {
	for _, env := range apiKeyEnv[provider] {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	if v := os.Getenv(GenericAPIKeyEnv); v != "" {
		return v
	}
	return expandEnv(stored)
}

// expandEnv expands environment variables in the format ${VAR} or $VAR
func expandEnv(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}
	if strings.HasPrefix(s, "$") {
		return os.Getenv(s[1:])
	}
	return s
}
