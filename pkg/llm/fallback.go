package llm

import (
	"context"
	"fmt"
)

// Fallback chains providers in priority order. Each call walks the chain
// until one provider answers; the last error surfaces if all fail.
type Fallback struct {
	providers []LLMProvider
}

var _ LLMProvider = &Fallback{}

func NewFallback(providers ...LLMProvider) *Fallback {
	return &Fallback{providers: providers}
}

func (f *Fallback) Chat(ctx context.Context, history []Message, options ...Option) (string, error) {
	var lastErr error
	for _, p := range f.providers {
		response, err := p.Chat(ctx, history, options...)
		if err == nil {
			return response, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
	}
	if lastErr == nil {
		return "", fmt.Errorf("no providers configured")
	}
	return "", fmt.Errorf("all providers failed: %w", lastErr)
}

func (f *Fallback) Generate(ctx context.Context, prompt string, options ...Option) (string, error) {
	return f.Chat(ctx, []Message{{Role: "user", Content: prompt}}, options...)
}
