// Package engine is the search-and-refinement core: it turns an enhanced
// classification plus session state into a filtered, capped, optionally
// reranked product set, with a staged fallback when the primary query
// comes back empty.
package engine

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"

	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/heuristics"
	"ecommerce-chatbot-be/pkg/intent"
	"ecommerce-chatbot-be/pkg/session"
)

const (
	// Candidates requested from the provider before capping for display.
	primaryQueryLimit = 20

	// Products surfaced per reply.
	displayCap = 3

	// Prior results must be at least this large, and unanimous, before a
	// brand filter is inherited from them.
	brandLockMinResults = 2

	// "Higher rating" bumps the floor past the best prior rating by this
	// much, capped at 5.0.
	ratingBump = 0.1

	// Price-widening step used in no-result suggestions.
	suggestionPriceStep = 100
)

// Outcome is one search turn's result. FollowUpItem is set instead of
// Products when the turn resolved to a detail view of a prior result.
type Outcome struct {
	Products     []catalog.Product
	Suggestions  []string
	FollowUpItem *catalog.Product
	Query        string
	Filters      catalog.Filters
}

// Engine coordinates session state, filter merging and the provider
// cascade for SEARCH turns.
type Engine struct {
	provider catalog.SearchProvider
	sessions session.Store
	heur     heuristics.Heuristics
	reranker *Reranker
	logger   *log.Logger
}

func New(provider catalog.SearchProvider, sessions session.Store, heur heuristics.Heuristics, reranker *Reranker, logger *log.Logger) *Engine {
	return &Engine{
		provider: provider,
		sessions: sessions,
		heur:     heur,
		reranker: reranker,
		logger:   logger,
	}
}

// Search runs one SEARCH turn. It never returns an error: provider and
// session failures degrade to empty results and fresh-session behavior.
func (e *Engine) Search(ctx context.Context, message string, res *intent.Result, sessionID string) Outcome {
	sc, err := e.sessions.GetContext(ctx, sessionID)
	if err != nil {
		e.logger.Printf("[ENGINE] Session read failed for %s, treating as fresh: %v", sessionID, err)
		sc = session.Context{}
	}

	if item := e.resolveFollowUp(message, res, &sc); item != nil {
		return Outcome{FollowUpItem: item, Products: []catalog.Product{*item}}
	}

	query := e.buildQuery(message, res)
	filters := filtersFromResult(res)

	refining := res.IsRefine && sc.LastQuery != ""
	if refining {
		query = e.mergeRefinement(query, res, &sc, &filters)
	}

	candidates := e.queryProvider(ctx, query, filters)

	// Fallback cascade, only meaningful when narrowing a previous search.
	if refining && len(candidates) == 0 {
		candidates = e.fallbackCascade(ctx, &sc, filters)
	}

	e.reranker.Score(candidates, filters)

	final := candidates
	if len(final) > displayCap {
		final = final[:displayCap]
	}

	if len(final) > 0 {
		sc.LastResults = final
		sc.LastQuery = query
		sc.ActiveFilters = filters
		sc.UpdateBaseline(candidates)
		if err := e.sessions.SaveContext(ctx, sessionID, sc); err != nil {
			e.logger.Printf("[ENGINE] Session write failed for %s: %v", sessionID, err)
		}
	}

	out := Outcome{Products: final, Query: query, Filters: filters}
	if len(final) == 0 {
		out.Suggestions = e.noResultSuggestions(filters)
	}
	return out
}

// Featured returns the top-rated products, cheapest first on rating
// ties. The provider's empty-query path supplies the ordering; explicit
// constraints extracted from the message still narrow the set.
func (e *Engine) Featured(ctx context.Context, res *intent.Result, limit int) []catalog.Product {
	if limit <= 0 {
		limit = displayCap
	}
	filters := catalog.Filters{}
	if res != nil {
		filters = filtersFromResult(res)
	}
	products, err := e.provider.Search(ctx, "", limit, filters)
	if err != nil {
		e.logger.Printf("[ENGINE] Featured query failed: %v", err)
		return nil
	}
	if len(products) > limit {
		products = products[:limit]
	}
	return products
}

// resolveFollowUp short-circuits "tell me about the second one" turns to
// a detail view of a prior result, skipping search entirely.
func (e *Engine) resolveFollowUp(message string, res *intent.Result, sc *session.Context) *catalog.Product {
	lower := strings.ToLower(message)
	triggered := res.IsFollowup
	if !triggered {
		for _, phrase := range e.heur.Phrases.FollowUp {
			if strings.Contains(lower, phrase) {
				triggered = true
				break
			}
		}
	}
	if !triggered || len(sc.LastResults) == 0 {
		return nil
	}

	idx := 0
	switch res.ReferencedItem {
	case intent.RefFirst:
		idx = 0
	case intent.RefSecond:
		idx = 1
	case intent.RefThird:
		idx = 2
	default:
		switch {
		case strings.Contains(lower, "third"):
			idx = 2
		case strings.Contains(lower, "second"):
			idx = 1
		}
	}
	if idx >= len(sc.LastResults) {
		return nil
	}
	item := sc.LastResults[idx]
	return &item
}

// buildQuery prefers extracted key terms over the conversational message.
func (e *Engine) buildQuery(message string, res *intent.Result) string {
	if len(res.KeyTerms) > 0 {
		return strings.Join(res.KeyTerms, " ")
	}
	if res.CorrectedQuery != "" {
		return res.CorrectedQuery
	}
	return message
}

// mergeRefinement folds prior-turn state into this turn's filters and
// returns the effective query text.
func (e *Engine) mergeRefinement(query string, res *intent.Result, sc *session.Context, filters *catalog.Filters) string {
	// "cheaper", "under", "only"-style turns carry no search subject of
	// their own; the previous query stays the base.
	if e.allTermsGeneric(res.KeyTerms) {
		query = sc.LastQuery
	}

	if res.HasHint(intent.RefinePriceCheaper) && !res.HasExplicitPrice() {
		if min, ok := sc.MinPrice(); ok && min > 0 {
			filters.PriceMax = &min
		}
	}

	if res.HasHint(intent.RefineRatingHigher) {
		if res.RatingMin == nil {
			if max, ok := sc.MaxRating(); ok {
				bumped := math.Round((max+ratingBump)*10) / 10
				if bumped > 5.0 {
					bumped = 5.0
				}
				filters.RatingMin = &bumped
			}
		}
		// A stale price ceiling would hide the better-rated options the
		// user just asked for.
		if !res.HasExplicitPrice() {
			filters.PriceMin = nil
			filters.PriceMax = nil
		}
	}

	if res.HasHint(intent.RefineInStock) && res.InStock == nil {
		t := true
		filters.InStock = &t
	}

	if filters.Brand == nil {
		if brand, ok := sc.SharedBrand(brandLockMinResults); ok {
			filters.Brand = &brand
		}
	}

	return query
}

func (e *Engine) allTermsGeneric(terms []string) bool {
	if len(terms) == 0 {
		return false
	}
	generic := make(map[string]bool, len(e.heur.RefineGenericTerms))
	for _, t := range e.heur.RefineGenericTerms {
		generic[t] = true
	}
	for _, t := range terms {
		if !generic[strings.ToLower(strings.TrimSpace(t))] {
			return false
		}
	}
	return true
}

// queryProvider treats provider errors as empty results; the cascade
// decides what happens next.
func (e *Engine) queryProvider(ctx context.Context, query string, filters catalog.Filters) []catalog.Product {
	products, err := e.provider.Search(ctx, query, primaryQueryLimit, filters)
	if err != nil {
		e.logger.Printf("[ENGINE] Provider query failed: %v", err)
		return nil
	}
	return products
}

// fallbackCascade recovers from an empty refined query. Stage one filters
// the session's broadest seen result set in memory; stage two re-queries
// with only the dominant category and the structured filters, dropping
// text relevance.
func (e *Engine) fallbackCascade(ctx context.Context, sc *session.Context, filters catalog.Filters) []catalog.Product {
	pool := sc.Baseline
	if len(pool) == 0 {
		pool = sc.LastResults
	}
	if len(pool) == 0 {
		return nil
	}

	if filtered := filters.Apply(pool); len(filtered) > 0 {
		e.logger.Printf("[ENGINE] Fallback stage 1: %d of %d baseline items match", len(filtered), len(pool))
		return filtered
	}

	category, ok := dominantCategory(pool)
	if !ok {
		return nil
	}
	refetch := filters
	refetch.Category = &category
	e.logger.Printf("[ENGINE] Fallback stage 2: category-constrained re-query for %q", category)
	return e.queryProvider(ctx, "", refetch)
}

// dominantCategory returns the single category shared by every product,
// if there is one.
func dominantCategory(products []catalog.Product) (string, bool) {
	if len(products) == 0 {
		return "", false
	}
	category := products[0].Category
	if category == "" {
		return "", false
	}
	for _, p := range products[1:] {
		if !strings.EqualFold(p.Category, category) {
			return "", false
		}
	}
	return category, true
}

func (e *Engine) noResultSuggestions(filters catalog.Filters) []string {
	var suggestions []string
	if filters.PriceMax != nil || filters.PriceMin != nil {
		suggestions = append(suggestions, "Try removing the price filter")
	}
	if filters.PriceMax != nil {
		suggestions = append(suggestions, fmt.Sprintf("Try under $%.0f", *filters.PriceMax+suggestionPriceStep))
	}
	if filters.PriceMin != nil {
		widened := *filters.PriceMin - suggestionPriceStep
		if widened < 0 {
			widened = 0
		}
		suggestions = append(suggestions, fmt.Sprintf("Try over $%.0f", widened))
	}
	suggestions = append(suggestions, "Browse smartphones", "Show me trending")
	return suggestions
}

// filtersFromResult copies the extracted constraints into the provider's
// filter surface.
func filtersFromResult(res *intent.Result) catalog.Filters {
	f := catalog.Filters{
		PriceMin:    res.PriceMin,
		PriceMax:    res.PriceMax,
		RatingMin:   res.RatingMin,
		InStock:     res.InStock,
		DiscountMin: res.DiscountMin,
		Tags:        res.Tags,
	}
	if res.Brand != "" {
		brand := res.Brand
		f.Brand = &brand
	}
	if res.Entities.ProductType != "" {
		category := res.Entities.ProductType
		f.Category = &category
	}
	return f
}
