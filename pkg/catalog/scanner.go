package catalog

import (
	"context"
	"sort"
	"strings"
)

// Scanner is the synchronous in-memory fallback provider. It applies the
// exact same Filters predicate as the vector provider, with free-text
// relevance reduced to title/description substring matching.
type Scanner struct {
	products []Product
}

// Ensure Scanner satisfies the provider contract
var _ SearchProvider = &Scanner{}

func NewScanner(products []Product) *Scanner {
	return &Scanner{products: products}
}

// Search scans the catalog snapshot. Results carry synthetic decreasing
// similarity scores so downstream ranking stays consistent with the
// vector path.
func (s *Scanner) Search(ctx context.Context, query string, limit int, filters Filters) ([]Product, error) {
	if limit <= 0 {
		limit = 10
	}
	queryLower := strings.ToLower(strings.TrimSpace(query))

	results := make([]Product, 0, limit)
	for i := range s.products {
		p := s.products[i]
		if !filters.Match(&p) {
			continue
		}
		if queryLower != "" {
			title := strings.ToLower(p.Title)
			description := strings.ToLower(p.Description)
			if !strings.Contains(title, queryLower) && !strings.Contains(description, queryLower) &&
				!tokenOverlap(queryLower, title, description) {
				continue
			}
		}
		p.SimilarityScore = 1.0 - float64(len(results))*0.1
		if p.SimilarityScore < 0 {
			p.SimilarityScore = 0
		}
		results = append(results, p)
		if len(results) >= limit {
			break
		}
	}
	return results, nil
}

// tokenOverlap accepts a product when any query token of length >= 3
// appears in the title or description. Keeps multi-word queries like
// "samsung phones" from missing "Samsung Galaxy S24".
func tokenOverlap(queryLower, title, description string) bool {
	for _, tok := range strings.Fields(queryLower) {
		if len(tok) < 3 {
			continue
		}
		if strings.Contains(title, tok) || strings.Contains(description, tok) {
			return true
		}
	}
	return false
}

// Featured returns the highest-rated products, cheaper first on ties.
func (s *Scanner) Featured(limit int) []Product {
	if limit <= 0 {
		limit = 6
	}
	featured := make([]Product, len(s.products))
	copy(featured, s.products)
	sort.SliceStable(featured, func(i, j int) bool {
		if featured[i].Rating != featured[j].Rating {
			return featured[i].Rating > featured[j].Rating
		}
		return featured[i].Price < featured[j].Price
	})
	if len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// Products exposes the underlying snapshot (read-only use).
func (s *Scanner) Products() []Product {
	return s.products
}
