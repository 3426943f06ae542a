package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/log"
)

// DefaultTimeout bounds a single model call
const DefaultTimeout = 60 * time.Second

// GenerateOptions overrides the sampling settings of one call
type GenerateOptions struct {
	Temperature *float64
	MaxTokens   int
}

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Model returns the model identifier sent to the backend
	Model() string

	// GenerateText sends messages to the model and returns the reply text
	GenerateText(ctx context.Context, messages []*schema.Message, opts GenerateOptions) (string, error)

	// ValidateConfig checks that the backend is reachable and usable
	ValidateConfig(ctx context.Context) error
}

// Option configures a provider
type Option func(*providerOptions)

type providerOptions struct {
	timeout time.Duration
}

// WithTimeout overrides DefaultTimeout
func WithTimeout(d time.Duration) Option {
	return func(o *providerOptions) {
		if d > 0 {
			o.timeout = d
		}
	}
}

func buildOptions(opts []Option) providerOptions {
	o := providerOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// chatModelFactory creates the eino chat model used for one call
type chatModelFactory func(ctx context.Context) (model.ChatModel, error)

// sampling holds the configured defaults of a provider
type sampling struct {
	temperature *float64
	maxTokens   int
}

// merge returns the eino call options, preferring per-call overrides
func (s sampling) merge(opts GenerateOptions) []model.Option {
	var out []model.Option
	temp := s.temperature
	if opts.Temperature != nil {
		temp = opts.Temperature
	}
	if temp != nil {
		out = append(out, model.WithTemperature(float32(*temp)))
	}
	maxTokens := s.maxTokens
	if opts.MaxTokens > 0 {
		maxTokens = opts.MaxTokens
	}
	if maxTokens > 0 {
		out = append(out, model.WithMaxTokens(maxTokens))
	}
	return out
}

// generate runs one bounded chat completion and classifies any failure
func generate(ctx context.Context, provider string, timeout time.Duration, newModel chatModelFactory, messages []*schema.Message, callOpts []model.Option) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	chatModel, err := newModel(callCtx)
	if err != nil {
		return "", Classify(provider, fmt.Errorf("failed to create chat model: %w", err))
	}
	if chatModel == nil {
		return "", &ProviderError{Kind: ErrorUnknown, Provider: provider, Err: errors.New("chat model is nil")}
	}

	log.DebugPrompt(fmt.Sprintf("%s request", provider), messages)
	start := time.Now()
	resp, err := chatModel.Generate(callCtx, messages, callOpts...)
	log.DebugDuration(fmt.Sprintf("%s generate", provider), time.Since(start))
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &ProviderError{Kind: ErrorTimeout, Provider: provider, Err: fmt.Errorf("no response within %s", timeout)}
		}
		return "", Classify(provider, err)
	}

	if resp != nil && resp.ResponseMeta != nil && resp.ResponseMeta.Usage != nil {
		usage := resp.ResponseMeta.Usage
		log.DebugTokenUsage(usage.PromptTokens, usage.CompletionTokens, usage.TotalTokens)
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", &ProviderError{Kind: ErrorEmptyResponse, Provider: provider}
	}
	return resp.Content, nil
}
