package service

import (
	"context"
	"log"
	"sort"
	"strings"
	"testing"

	"ecommerce-chatbot-be/internal/dto"
	"ecommerce-chatbot-be/internal/pkg/logger"
	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/engine"
	"ecommerce-chatbot-be/pkg/heuristics"
	"ecommerce-chatbot-be/pkg/intent"
	"ecommerce-chatbot-be/pkg/response"
	"ecommerce-chatbot-be/pkg/session"
	"ecommerce-chatbot-be/pkg/support"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVocabSource struct {
	categories []string
	brands     []string
}

func (f fakeVocabSource) ListCategories(ctx context.Context) ([]string, error) {
	return f.categories, nil
}

func (f fakeVocabSource) ListBrands(ctx context.Context) ([]string, error) {
	return f.brands, nil
}

type fakeSearchProvider struct {
	products  []catalog.Product
	lastQuery string
}

func (f *fakeSearchProvider) Search(ctx context.Context, query string, limit int, filters catalog.Filters) ([]catalog.Product, error) {
	f.lastQuery = query

	var matched []catalog.Product
	for i := range f.products {
		p := f.products[i]
		if !filters.Match(&p) {
			continue
		}
		p.SimilarityScore = 0.9
		matched = append(matched, p)
	}
	// Empty query means a featured fetch: rating-sorted, price tiebreak.
	if query == "" {
		sort.SliceStable(matched, func(i, j int) bool {
			if matched[i].Rating != matched[j].Rating {
				return matched[i].Rating > matched[j].Rating
			}
			return matched[i].Price < matched[j].Price
		})
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "1", Title: "Samsung Galaxy S24", Category: "smartphones", Brand: "Samsung", Price: 899.99, Rating: 4.6, Stock: 42},
		{ID: "2", Title: "Samsung Galaxy A55", Category: "smartphones", Brand: "Samsung", Price: 449.99, Rating: 4.2, Stock: 67},
		{ID: "3", Title: "Apple iPhone 15", Category: "smartphones", Brand: "Apple", Price: 799.00, Rating: 4.7, Stock: 25},
		{ID: "4", Title: "Dell XPS 13", Category: "laptops", Brand: "Dell", Price: 999.00, Rating: 4.4, Stock: 31},
	}
}

func newTestChatService(t *testing.T) (IChatService, session.Store, *fakeSearchProvider) {
	t.Helper()

	heur := heuristics.Defaults()
	quiet := log.New(&strings.Builder{}, "", 0)

	vocab := catalog.NewVocabulary(fakeVocabSource{
		categories: []string{"laptops", "smartphones"},
		brands:     []string{"Apple", "Dell", "Samsung"},
	}, quiet)

	extractor := intent.NewExtractor(heur, quiet)
	classifier := intent.NewClassifier(
		[]intent.Strategy{intent.NewKeywordStrategy(heur, vocab, quiet)},
		extractor,
		vocab,
		quiet,
	)

	store := session.NewMemoryStore()
	provider := &fakeSearchProvider{products: testProducts()}
	searchEngine := engine.New(provider, store, heur, engine.NewReranker(false), quiet)

	assembler := response.NewAssembler(nil, quiet)
	supportRAG := support.NewResponder(nil, nil, quiet)

	sysLogger := logger.NewZapLogger(t.TempDir()+"/test.log", false)

	return NewChatService(classifier, searchEngine, assembler, supportRAG, store, sysLogger), store, provider
}

func TestChatGreeting(t *testing.T) {
	svc, _, _ := newTestChatService(t)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{Message: "hello there"})
	require.NoError(t, err)

	assert.Equal(t, "GREETING", res.Intent)
	assert.NotEmpty(t, res.Response)
	assert.NotEmpty(t, res.SessionId, "a session id should be generated when none is supplied")
	assert.Empty(t, res.Products)
}

func TestChatSearchReturnsProducts(t *testing.T) {
	svc, _, _ := newTestChatService(t)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message:   "show me smartphones",
		SessionId: "sess-search",
	})
	require.NoError(t, err)

	assert.Equal(t, "SEARCH", res.Intent)
	assert.Equal(t, "sess-search", res.SessionId)
	assert.NotEmpty(t, res.Response)
	require.NotEmpty(t, res.Products)
	assert.LessOrEqual(t, len(res.Products), 3)
}

func TestChatSupportUsesKnowledgeFallback(t *testing.T) {
	svc, _, _ := newTestChatService(t)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message:   "what is your return policy?",
		SessionId: "sess-support",
	})
	require.NoError(t, err)

	assert.Equal(t, "SUPPORT", res.Intent)
	assert.Contains(t, strings.ToLower(res.Response), "return")
	assert.Empty(t, res.Products)
}

func TestChatCompareWithoutPriorResults(t *testing.T) {
	svc, _, _ := newTestChatService(t)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message:   "compare the first and the second",
		SessionId: "sess-compare-empty",
	})
	require.NoError(t, err)

	assert.Equal(t, "COMPARE", res.Intent)
	assert.Contains(t, res.Response, "Search for something first")
	assert.Empty(t, res.Products)
}

func TestChatCompareAfterSearch(t *testing.T) {
	svc, _, _ := newTestChatService(t)
	ctx := context.Background()

	_, err := svc.Chat(ctx, &dto.ChatRequest{
		Message:   "show me smartphones",
		SessionId: "sess-compare",
	})
	require.NoError(t, err)

	res, err := svc.Chat(ctx, &dto.ChatRequest{
		Message:   "compare the first and the second",
		SessionId: "sess-compare",
	})
	require.NoError(t, err)

	assert.Equal(t, "COMPARE", res.Intent)
	require.Len(t, res.Products, 2)
	assert.NotEqual(t, res.Products[0].Id, res.Products[1].Id)
}

func TestChatRecommendationReturnsFeatured(t *testing.T) {
	svc, _, provider := newTestChatService(t)

	res, err := svc.Chat(context.Background(), &dto.ChatRequest{
		Message:   "recommend a good gift",
		SessionId: "sess-recommend",
	})
	require.NoError(t, err)

	assert.Equal(t, "RECOMMENDATION", res.Intent)
	assert.Empty(t, provider.lastQuery, "featured fetch should not search the message text")
	require.NotEmpty(t, res.Products)
	assert.LessOrEqual(t, len(res.Products), 3)
	// Rating-sorted with a price tiebreak.
	assert.Equal(t, "Apple iPhone 15", res.Products[0].Title)
	assert.Equal(t, "Samsung Galaxy S24", res.Products[1].Title)
	for i := 1; i < len(res.Products); i++ {
		assert.GreaterOrEqual(t, res.Products[i-1].Rating, res.Products[i].Rating)
	}
}

func TestChatAppendsExchangeHistory(t *testing.T) {
	svc, store, _ := newTestChatService(t)
	ctx := context.Background()

	_, err := svc.Chat(ctx, &dto.ChatRequest{Message: "hello", SessionId: "sess-history"})
	require.NoError(t, err)

	exchanges, err := store.RecentExchanges(ctx, "sess-history", 10)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "hello", exchanges[0].User)
	assert.Equal(t, "GREETING", exchanges[0].Intent)
	assert.NotEmpty(t, exchanges[0].Bot)
}

func TestResetSessionClearsHistory(t *testing.T) {
	svc, store, _ := newTestChatService(t)
	ctx := context.Background()

	_, err := svc.Chat(ctx, &dto.ChatRequest{Message: "hello", SessionId: "sess-reset"})
	require.NoError(t, err)

	require.NoError(t, svc.ResetSession(ctx, "sess-reset"))

	exchanges, err := store.RecentExchanges(ctx, "sess-reset", 10)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}
