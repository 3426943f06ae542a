package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/viper"

	"github.com/huimingz/commitflow/pkg/lang"
)

// FileName is the configuration file looked up in the working and home directories
const FileName = ".commitflow.json"

// ErrNoConfig is returned when no configuration file can be found
var ErrNoConfig = errors.New("no configuration file found, run 'commitflow init' to create one")

// Supported providers
var supportedProviders = map[string]bool{
	"openai":   true,
	"deepseek": true,
	"ollama":   true,
	"gemini":   true,
}

// SupportedProviders returns a sorted list of supported providers
func SupportedProviders() []string {
	providers := make([]string, 0, len(supportedProviders))
	for p := range supportedProviders {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// Config represents the application configuration
type Config struct {
	ActiveModel   string                 `json:"activeModel" yaml:"activeModel" mapstructure:"activeModel"`
	Models        map[string]ModelConfig `json:"models" yaml:"models" mapstructure:"models"`
	FallbackModel string                 `json:"fallbackModel,omitempty" yaml:"fallbackModel,omitempty" mapstructure:"fallbackModel"`
	Temperature   *float64               `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens     int                    `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty" mapstructure:"maxTokens"`
	Language      string                 `json:"language,omitempty" yaml:"language,omitempty" mapstructure:"language"`
	Emoji         bool                   `json:"emoji" yaml:"emoji" mapstructure:"emoji"`
	Checks        map[string]CheckConfig `json:"checks,omitempty" yaml:"checks,omitempty" mapstructure:"checks"`
	Prompts       PromptsConfig          `json:"prompts" yaml:"prompts" mapstructure:"prompts"`
	Workflow      []string               `json:"workflow,omitempty" yaml:"workflow,omitempty" mapstructure:"workflow"`
	Workflows     map[string][]string    `json:"workflows,omitempty" yaml:"workflows,omitempty" mapstructure:"workflows"`
	History       HistoryConfig          `json:"history" yaml:"history" mapstructure:"history"`
	UI            UIConfig               `json:"ui" yaml:"ui" mapstructure:"ui"`
}

// ModelConfig represents a single model configuration
type ModelConfig struct {
	Provider    string   `json:"provider" yaml:"provider" mapstructure:"provider"`
	Model       string   `json:"model" yaml:"model" mapstructure:"model"`
	BaseURL     string   `json:"baseUrl,omitempty" yaml:"baseUrl,omitempty" mapstructure:"baseUrl"`
	APIKey      string   `json:"apiKey,omitempty" yaml:"apiKey,omitempty" mapstructure:"apiKey"`
	Temperature *float64 `json:"temperature,omitempty" yaml:"temperature,omitempty" mapstructure:"temperature"`
	MaxTokens   int      `json:"maxTokens,omitempty" yaml:"maxTokens,omitempty" mapstructure:"maxTokens"`
}

// Validate validates the model configuration. Credentials are checked when
// the model is resolved, since they may come from the environment.
func (m *ModelConfig) Validate() error {
	if m.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if !supportedProviders[m.Provider] {
		return fmt.Errorf("unsupported provider: %s", m.Provider)
	}
	if m.Model == "" {
		return fmt.Errorf("model is required")
	}
	if m.Temperature != nil && (*m.Temperature < 0 || *m.Temperature > 2) {
		return fmt.Errorf("temperature must be between 0 and 2")
	}
	if m.MaxTokens < 0 {
		return fmt.Errorf("maxTokens must be non-negative")
	}
	return nil
}

// CheckConfig describes one verification command
type CheckConfig struct {
	Command  string `json:"command" yaml:"command" mapstructure:"command"`
	Blocking *bool  `json:"blocking,omitempty" yaml:"blocking,omitempty" mapstructure:"blocking"` // default true
	Timeout  int    `json:"timeout,omitempty" yaml:"timeout,omitempty" mapstructure:"timeout"`    // in seconds
	Autofix  string `json:"autofix,omitempty" yaml:"autofix,omitempty" mapstructure:"autofix"`
	Enabled  *bool  `json:"enabled,omitempty" yaml:"enabled,omitempty" mapstructure:"enabled"` // default true
}

// IsBlocking reports whether a failure of this check stops the workflow
func (c CheckConfig) IsBlocking() bool {
	return c.Blocking == nil || *c.Blocking
}

// IsEnabled reports whether the check runs at all
func (c CheckConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// PromptsConfig controls interactive behavior
type PromptsConfig struct {
	ConfirmStage   bool `json:"confirmStage" yaml:"confirmStage" mapstructure:"confirmStage"`
	ConfirmCommit  bool `json:"confirmCommit" yaml:"confirmCommit" mapstructure:"confirmCommit"`
	ConfirmPush    bool `json:"confirmPush" yaml:"confirmPush" mapstructure:"confirmPush"`
	SimilarCommits int  `json:"similarCommits" yaml:"similarCommits" mapstructure:"similarCommits"` // 0 disables history lookup
	MaxRetries     int  `json:"maxRetries" yaml:"maxRetries" mapstructure:"maxRetries"`
}

// HistoryConfig selects where commit history is read from
type HistoryConfig struct {
	Backend    string `json:"backend" yaml:"backend" mapstructure:"backend"` // "git" or "gogit"
	MaxCommits int    `json:"maxCommits" yaml:"maxCommits" mapstructure:"maxCommits"`
}

// History backends
const (
	HistoryBackendGit   = "git"
	HistoryBackendGoGit = "gogit"
)

// UIConfig represents terminal presentation settings
type UIConfig struct {
	Theme   string `json:"theme" yaml:"theme" mapstructure:"theme"`
	Color   bool   `json:"color" yaml:"color" mapstructure:"color"`
	Spinner bool   `json:"spinner" yaml:"spinner" mapstructure:"spinner"`
}

// setDefaults registers the default value of every optional key
func setDefaults(v *viper.Viper) {
	v.SetDefault("maxTokens", 500)
	v.SetDefault("language", string(lang.DefaultLanguage()))
	v.SetDefault("emoji", false)
	v.SetDefault("prompts.confirmStage", true)
	v.SetDefault("prompts.confirmCommit", true)
	v.SetDefault("prompts.confirmPush", true)
	v.SetDefault("prompts.similarCommits", 5)
	v.SetDefault("prompts.maxRetries", 5)
	v.SetDefault("history.backend", HistoryBackendGit)
	v.SetDefault("history.maxCommits", 200)
	v.SetDefault("ui.theme", "default")
	v.SetDefault("ui.color", true)
	v.SetDefault("ui.spinner", true)
}

// Validate validates the entire configuration
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}
	if c.ActiveModel == "" {
		return fmt.Errorf("activeModel is required")
	}
	if _, ok := c.lookupModel(c.ActiveModel); !ok {
		return fmt.Errorf("active model '%s' not found in models configuration", c.ActiveModel)
	}
	if c.FallbackModel != "" {
		if _, ok := c.lookupModel(c.FallbackModel); !ok {
			return fmt.Errorf("fallback model '%s' not found in models configuration", c.FallbackModel)
		}
	}

	for name, model := range c.Models {
		if err := model.Validate(); err != nil {
			return fmt.Errorf("invalid model '%s': %w", name, err)
		}
	}

	if c.Language != "" && !lang.Language(c.Language).IsValid() {
		return fmt.Errorf("unsupported language: %s", c.Language)
	}

	for name, check := range c.Checks {
		if strings.TrimSpace(check.Command) == "" {
			return fmt.Errorf("check '%s': command is required", name)
		}
		if check.Timeout < 0 {
			return fmt.Errorf("check '%s': timeout must be non-negative", name)
		}
	}

	switch c.History.Backend {
	case "", HistoryBackendGit, HistoryBackendGoGit:
	default:
		return fmt.Errorf("unsupported history backend: %s", c.History.Backend)
	}

	return nil
}

// lookupModel finds a model by key. Keys are matched case-insensitively
// since viper lowercases map keys.
func (c *Config) lookupModel(name string) (ModelConfig, bool) {
	if m, ok := c.Models[name]; ok {
		return m, true
	}
	for key, m := range c.Models {
		if strings.EqualFold(key, name) {
			return m, true
		}
	}
	return ModelConfig{}, false
}

// ModelNames returns the configured model keys, sorted
func (c *Config) ModelNames() []string {
	names := make([]string, 0, len(c.Models))
	for name := range c.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetLanguage returns the language to use
// Priority: parameter > env variable (COMMITFLOW_LANG) > config file > default (en)
func (c *Config) GetLanguage(langParam string) string {
	if langParam != "" {
		return langParam
	}
	if envLang := os.Getenv("COMMITFLOW_LANG"); envLang != "" {
		return envLang
	}
	if c.Language != "" {
		return c.Language
	}
	return lang.DefaultLanguage().String()
}

// CheckNames returns the configured check names, sorted
func (c *Config) CheckNames() []string {
	names := make([]string, 0, len(c.Checks))
	for name := range c.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Redacted returns a copy with every stored API key masked
func (c *Config) Redacted() *Config {
	out := *c
	out.Models = make(map[string]ModelConfig, len(c.Models))
	for name, m := range c.Models {
		m.APIKey = MaskSecret(m.APIKey)
		out.Models[name] = m
	}
	return &out
}

// MaskSecret hides all but the last four characters of a secret.
// Environment references are shown as is.
func MaskSecret(s string) string {
	if s == "" || strings.HasPrefix(s, "$") {
		return s
	}
	if len(s) <= 8 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// LoadFromFile loads configuration from a JSON file
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration %s: %w", path, err)
	}

	return &cfg, nil
}

// Load loads configuration with the following priority:
// 1. Custom path if provided
// 2. Current directory .commitflow.json
// 3. Home directory ~/.commitflow.json
func Load(customPath string) (*Config, error) {
	path, err := Locate(customPath)
	if err != nil {
		return nil, err
	}
	return LoadFromFile(path)
}

// Locate returns the path of the configuration file Load would read
func Locate(customPath string) (string, error) {
	if customPath != "" {
		return customPath, nil
	}

	candidates := []string{FileName}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, FileName))
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", ErrNoConfig
}
