package catalog

import (
	"context"
	"log"
)

// FallbackProvider tries the primary provider (vector search) and falls
// back to the secondary (the local Scanner) when the primary errors.
// Both sides honor the same Filters predicate, so callers see identical
// filter semantics either way.
type FallbackProvider struct {
	primary   SearchProvider
	secondary SearchProvider
	logger    *log.Logger
}

var _ SearchProvider = &FallbackProvider{}

func NewFallbackProvider(primary, secondary SearchProvider, logger *log.Logger) *FallbackProvider {
	return &FallbackProvider{
		primary:   primary,
		secondary: secondary,
		logger:    logger,
	}
}

func (f *FallbackProvider) Search(ctx context.Context, query string, limit int, filters Filters) ([]Product, error) {
	products, err := f.primary.Search(ctx, query, limit, filters)
	if err == nil {
		return products, nil
	}
	f.logger.Printf("[CATALOG] Primary provider failed, using local scan: %v", err)
	return f.secondary.Search(ctx, query, limit, filters)
}
