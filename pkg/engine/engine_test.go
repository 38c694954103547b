package engine

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"testing"

	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/heuristics"
	"ecommerce-chatbot-be/pkg/intent"
	"ecommerce-chatbot-be/pkg/session"
)

type providerCall struct {
	query   string
	limit   int
	filters catalog.Filters
}

type fakeProvider struct {
	results [][]catalog.Product
	errs    []error
	calls   []providerCall
}

func (f *fakeProvider) Search(ctx context.Context, query string, limit int, filters catalog.Filters) ([]catalog.Product, error) {
	f.calls = append(f.calls, providerCall{query: query, limit: limit, filters: filters})
	i := len(f.calls) - 1
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	var out []catalog.Product
	if i < len(f.results) {
		out = f.results[i]
	}
	return out, err
}

func newTestEngine(provider catalog.SearchProvider, store session.Store) *Engine {
	return New(provider, store, heuristics.Defaults(), NewReranker(false), log.New(io.Discard, "", 0))
}

func samsungSet() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Title: "Samsung Galaxy S24", Brand: "Samsung", Category: "smartphones", Price: 899, Rating: 4.6, SimilarityScore: 0.9},
		{ID: "2", Title: "Samsung Galaxy A54", Brand: "Samsung", Category: "smartphones", Price: 449, Rating: 4.2, SimilarityScore: 0.8},
		{ID: "3", Title: "Samsung Galaxy M14", Brand: "Samsung", Category: "smartphones", Price: 199, Rating: 4.0, SimilarityScore: 0.7},
	}
}

func searchResult(keyTerms ...string) *intent.Result {
	return &intent.Result{Intent: intent.IntentSearch, KeyTerms: keyTerms}
}

func TestFreshSearchStoresSession(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()}}
	e := newTestEngine(provider, store)
	ctx := context.Background()

	res := searchResult("samsung", "phones")
	out := e.Search(ctx, "show me samsung phones", res, "s1")

	if len(out.Products) != 3 {
		t.Fatalf("got %d products, want 3", len(out.Products))
	}
	if out.Query != "samsung phones" {
		t.Errorf("Query = %q, want key terms joined", out.Query)
	}
	if len(out.Suggestions) != 0 {
		t.Errorf("Suggestions = %v, want none on success", out.Suggestions)
	}

	sc, _ := store.GetContext(ctx, "s1")
	if sc.LastQuery != "samsung phones" || len(sc.LastResults) != 3 {
		t.Errorf("session not updated: %+v", sc)
	}
	if len(sc.Baseline) != 3 {
		t.Errorf("baseline = %d items, want 3", len(sc.Baseline))
	}
}

func TestCheaperRefinementMergesPriceAndBrand(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet(),
		Baseline:    samsungSet(),
		LastQuery:   "samsung phones",
	})

	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()[2:]}}
	e := newTestEngine(provider, store)

	res := searchResult("cheaper")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefinePriceCheaper}

	out := e.Search(context.Background(), "cheaper", res, "s1")

	call := provider.calls[0]
	// All key terms are refine operators: base query reverts.
	if call.query != "samsung phones" {
		t.Errorf("query = %q, want previous query", call.query)
	}
	if call.filters.PriceMax == nil || *call.filters.PriceMax != 199 {
		t.Errorf("PriceMax = %v, want min prior price 199", call.filters.PriceMax)
	}
	if call.filters.Brand == nil || *call.filters.Brand != "Samsung" {
		t.Errorf("Brand = %v, want inherited Samsung", call.filters.Brand)
	}
	if len(out.Products) != 1 {
		t.Errorf("got %d products, want 1", len(out.Products))
	}
}

func TestBrandNeverInheritedFromSingleResult(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet()[:1],
		Baseline:    samsungSet()[:1],
		LastQuery:   "blue widget",
	})

	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()}}
	e := newTestEngine(provider, store)

	res := searchResult("cheaper")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefinePriceCheaper}

	e.Search(context.Background(), "cheaper", res, "s1")

	if provider.calls[0].filters.Brand != nil {
		t.Errorf("Brand = %v, single-item prior set must not imply a brand lock", *provider.calls[0].filters.Brand)
	}
}

func TestExplicitBrandBeatsPersistence(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet(),
		Baseline:    samsungSet(),
		LastQuery:   "phones",
	})

	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()}}
	e := newTestEngine(provider, store)

	res := searchResult("only", "sony")
	res.IsRefine = true
	res.Brand = "Sony"
	res.RefineHints = []intent.RefineHint{intent.RefineConstraintOnly}

	e.Search(context.Background(), "only Sony", res, "s1")

	if b := provider.calls[0].filters.Brand; b == nil || *b != "Sony" {
		t.Errorf("Brand = %v, explicit brand must win", b)
	}
}

func TestRatingHigherBumpsFloorAndClearsStalePrice(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet(),
		Baseline:    samsungSet(),
		LastQuery:   "samsung phones",
	})

	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()[:1]}}
	e := newTestEngine(provider, store)

	res := searchResult("better", "rated")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefineRatingHigher}

	e.Search(context.Background(), "better rated", res, "s1")

	call := provider.calls[0]
	// Best prior rating 4.6 bumps to 4.7.
	if call.filters.RatingMin == nil || *call.filters.RatingMin != 4.7 {
		t.Errorf("RatingMin = %v, want 4.7", call.filters.RatingMin)
	}
	if call.filters.PriceMin != nil || call.filters.PriceMax != nil {
		t.Error("stale price bounds must be cleared on rating_higher without explicit price")
	}
}

func TestRatingBumpCapsAtFive(t *testing.T) {
	prior := samsungSet()
	prior[0].Rating = 5.0
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: prior, Baseline: prior, LastQuery: "phones",
	})

	provider := &fakeProvider{results: [][]catalog.Product{prior}}
	e := newTestEngine(provider, store)

	res := searchResult("better", "rated")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefineRatingHigher}

	e.Search(context.Background(), "better rated", res, "s1")

	if r := provider.calls[0].filters.RatingMin; r == nil || *r != 5.0 {
		t.Errorf("RatingMin = %v, want capped 5.0", r)
	}
}

func TestProviderErrorFallsBackToBaselineFilter(t *testing.T) {
	baseline := samsungSet()
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: baseline,
		Baseline:    baseline,
		LastQuery:   "samsung phones",
	})

	provider := &fakeProvider{errs: []error{fmt.Errorf("index unavailable")}}
	e := newTestEngine(provider, store)

	res := searchResult("cheaper")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefinePriceCheaper}

	out := e.Search(context.Background(), "cheaper", res, "s1")

	// min prior price is 199; the only baseline item at or under it survives.
	if len(out.Products) != 1 || out.Products[0].ID != "3" {
		t.Errorf("fallback products = %v, want just the cheapest", out.Products)
	}
}

func TestCategoryConstrainedRequeryWhenBaselineFilterEmpty(t *testing.T) {
	baseline := samsungSet()
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: baseline,
		Baseline:    baseline,
		LastQuery:   "samsung phones",
	})

	stage2 := []catalog.Product{{ID: "9", Title: "Budget Phone", Category: "smartphones", Price: 50, Rating: 3.5}}
	provider := &fakeProvider{results: [][]catalog.Product{nil, stage2}}
	e := newTestEngine(provider, store)

	// Explicit bound below every baseline price empties stage 1.
	res := searchResult("under")
	res.IsRefine = true
	low := 100.0
	res.PriceMax = &low
	res.RefineHints = []intent.RefineHint{intent.RefinePriceUpperBound}

	out := e.Search(context.Background(), "under $100", res, "s1")

	if len(provider.calls) != 2 {
		t.Fatalf("provider calls = %d, want 2", len(provider.calls))
	}
	second := provider.calls[1]
	if second.query != "" {
		t.Errorf("stage 2 query = %q, want empty text", second.query)
	}
	if second.filters.Category == nil || *second.filters.Category != "smartphones" {
		t.Errorf("stage 2 category = %v, want dominant smartphones", second.filters.Category)
	}
	if len(out.Products) != 1 || out.Products[0].ID != "9" {
		t.Errorf("products = %v, want stage 2 result", out.Products)
	}
}

func TestBaselineMonotonicity(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{results: [][]catalog.Product{
		samsungSet(),     // turn 1: 3 results
		samsungSet()[:1], // turn 2: narrowed to 1
	}}
	e := newTestEngine(provider, store)
	ctx := context.Background()

	e.Search(ctx, "samsung phones", searchResult("samsung", "phones"), "s1")

	res := searchResult("cheaper")
	res.IsRefine = true
	res.RefineHints = []intent.RefineHint{intent.RefinePriceCheaper}
	e.Search(ctx, "cheaper", res, "s1")

	sc, _ := store.GetContext(ctx, "s1")
	if len(sc.Baseline) != 3 {
		t.Errorf("baseline = %d items after narrowing, want 3", len(sc.Baseline))
	}
	if len(sc.LastResults) != 1 {
		t.Errorf("last results = %d, want 1", len(sc.LastResults))
	}
}

func TestResultsCappedAtThree(t *testing.T) {
	many := make([]catalog.Product, 10)
	for i := range many {
		many[i] = catalog.Product{ID: fmt.Sprintf("%d", i), Category: "laptops"}
	}
	store := session.NewMemoryStore()
	provider := &fakeProvider{results: [][]catalog.Product{many}}
	e := newTestEngine(provider, store)

	out := e.Search(context.Background(), "laptops", searchResult("laptops"), "s1")
	if len(out.Products) != 3 {
		t.Errorf("got %d products, want display cap 3", len(out.Products))
	}

	sc, _ := store.GetContext(context.Background(), "s1")
	if len(sc.Baseline) != 10 {
		t.Errorf("baseline = %d, want full candidate set", len(sc.Baseline))
	}
}

func TestFollowUpShortCircuit(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet(),
		LastQuery:   "samsung phones",
	})

	provider := &fakeProvider{}
	e := newTestEngine(provider, store)

	res := searchResult()
	res.IsFollowup = true
	res.ReferencedItem = intent.RefSecond

	out := e.Search(context.Background(), "tell me about the second option", res, "s1")

	if out.FollowUpItem == nil || out.FollowUpItem.ID != "2" {
		t.Fatalf("FollowUpItem = %v, want product 2", out.FollowUpItem)
	}
	if len(provider.calls) != 0 {
		t.Errorf("provider called %d times, follow-up must skip search", len(provider.calls))
	}
}

func TestFollowUpByPhraseWithoutClassifierFlag(t *testing.T) {
	store := session.NewMemoryStore()
	store.SaveContext(context.Background(), "s1", session.Context{
		LastResults: samsungSet(),
		LastQuery:   "samsung phones",
	})

	provider := &fakeProvider{}
	e := newTestEngine(provider, store)

	out := e.Search(context.Background(), "tell me about the third option", searchResult(), "s1")
	if out.FollowUpItem == nil || out.FollowUpItem.ID != "3" {
		t.Errorf("FollowUpItem = %v, want product 3 via phrase detection", out.FollowUpItem)
	}
}

func TestNoResultSuggestions(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{}
	e := newTestEngine(provider, store)

	res := searchResult("gaming", "laptops")
	max := 300.0
	res.PriceMax = &max

	out := e.Search(context.Background(), "gaming laptops under $300", res, "s1")

	if len(out.Products) != 0 {
		t.Fatalf("got %d products, want none", len(out.Products))
	}
	wantFirst := "Try removing the price filter"
	if len(out.Suggestions) == 0 || out.Suggestions[0] != wantFirst {
		t.Errorf("Suggestions = %v, want first %q", out.Suggestions, wantFirst)
	}
	found := false
	for _, s := range out.Suggestions {
		if s == "Try under $400" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggestions = %v, want widened bound Try under $400", out.Suggestions)
	}
}

func TestRerankScoring(t *testing.T) {
	max := 500.0
	filters := catalog.Filters{PriceMax: &max}
	products := []catalog.Product{
		{ID: "cheap", Price: 400, Rating: 5, DiscountPercentage: 50, SimilarityScore: 0.5},
		{ID: "pricey", Price: 900, Rating: 5, DiscountPercentage: 50, SimilarityScore: 0.5},
	}

	NewReranker(false).Score(products, filters)

	// 0.6*0.5 + 0.2*1 + 0.1*1 + 0.1*affinity
	if got := products[0].RerankScore; !almostEqual(got, 0.7) {
		t.Errorf("in-budget score = %v, want 0.7", got)
	}
	if got := products[1].RerankScore; !almostEqual(got, 0.6) {
		t.Errorf("out-of-budget score = %v, want 0.6", got)
	}
	// Reorder disabled: provider order stands.
	if products[0].ID != "cheap" || products[1].ID != "pricey" {
		t.Error("order must be untouched when reordering is disabled")
	}

	NewReranker(true).Score(products, filters)
	if products[0].ID != "cheap" {
		t.Error("reordering enabled should sort by score descending")
	}
}

func TestRerankClampsInputs(t *testing.T) {
	products := []catalog.Product{
		{ID: "odd", Price: 10, Rating: 9, DiscountPercentage: 90, SimilarityScore: 1.7},
	}
	NewReranker(false).Score(products, catalog.Filters{})
	// All components clamp to 1: 0.6 + 0.2 + 0.1 + 0.1.
	if got := products[0].RerankScore; !almostEqual(got, 1.0) {
		t.Errorf("score = %v, want clamped 1.0", got)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestFeatured(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()}}
	e := newTestEngine(provider, store)
	ctx := context.Background()

	res := &intent.Result{Intent: intent.IntentRecommendation}
	got := e.Featured(ctx, res, 3)

	if len(got) != 3 {
		t.Fatalf("got %d products, want 3", len(got))
	}
	if provider.calls[0].query != "" {
		t.Errorf("provider query = %q, want empty for a featured fetch", provider.calls[0].query)
	}
}

func TestFeaturedAppliesExplicitFilters(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{results: [][]catalog.Product{samsungSet()[:1]}}
	e := newTestEngine(provider, store)
	ctx := context.Background()

	max := 500.0
	res := &intent.Result{Intent: intent.IntentRecommendation, PriceMax: &max}
	e.Featured(ctx, res, 3)

	f := provider.calls[0].filters
	if f.PriceMax == nil || *f.PriceMax != 500 {
		t.Errorf("filters.PriceMax = %v, want 500", f.PriceMax)
	}
}

func TestFeaturedSwallowsProviderError(t *testing.T) {
	store := session.NewMemoryStore()
	provider := &fakeProvider{errs: []error{fmt.Errorf("down")}}
	e := newTestEngine(provider, store)

	if got := e.Featured(context.Background(), nil, 3); got != nil {
		t.Errorf("got %v, want nil on provider failure", got)
	}
}
