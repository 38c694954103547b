package catalog

import "context"

// SearchProvider combines free-text relevance with exact-match/range
// metadata filtering. An empty result is a valid outcome, not an error.
type SearchProvider interface {
	Search(ctx context.Context, query string, limit int, filters Filters) ([]Product, error)
}
