package workflow

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/huimingz/commitflow/internal/llm"
	"github.com/huimingz/commitflow/internal/log"
)

// Generator calls the primary provider and falls back to a second one on error
type Generator struct {
	primary  llm.Provider
	fallback llm.Provider
}

// NewGenerator creates a Generator. fallback may be nil.
func NewGenerator(primary, fallback llm.Provider) *Generator {
	return &Generator{primary: primary, fallback: fallback}
}

// GenerateText returns the primary provider's text, or the fallback's when the
// primary fails. Without a fallback the primary error is returned unchanged;
// when both fail the result is a *llm.FallbackError naming both errors.
func (g *Generator) GenerateText(ctx context.Context, messages []*schema.Message, opts llm.GenerateOptions) (string, error) {
	text, err := g.primary.GenerateText(ctx, messages, opts)
	if err == nil {
		return text, nil
	}
	if g.fallback == nil || ctx.Err() != nil {
		return "", err
	}

	log.Warn("%s (%s) failed: %v", g.primary.Name(), g.primary.Model(), err)
	log.Info("Trying fallback model %s (%s)...", g.fallback.Name(), g.fallback.Model())

	text, fallbackErr := g.fallback.GenerateText(ctx, messages, opts)
	if fallbackErr != nil {
		return "", &llm.FallbackError{Primary: err, Fallback: fallbackErr}
	}

	log.Info("Fallback model %s (%s) succeeded", g.fallback.Name(), g.fallback.Model())
	return text, nil
}

// HasFallback reports whether a fallback provider is configured
func (g *Generator) HasFallback() bool {
	return g.fallback != nil
}
