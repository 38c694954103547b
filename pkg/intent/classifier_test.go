package intent

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"ecommerce-chatbot-be/pkg/heuristics"
	"ecommerce-chatbot-be/pkg/llm"
)

type fakeVocab struct {
	categories []string
	brands     []string
}

func (f *fakeVocab) Categories(ctx context.Context) []string { return f.categories }
func (f *fakeVocab) Brands(ctx context.Context) []string     { return f.brands }

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, nil, options...)
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func newTestClassifier(provider llm.LLMProvider, vocab Vocabulary) *Classifier {
	heur := heuristics.Defaults()
	logger := discard()
	strategies := []Strategy{}
	if provider != nil {
		strategies = append(strategies, NewLLMStrategy(provider, vocab, logger))
	}
	strategies = append(strategies, NewKeywordStrategy(heur, vocab, logger))
	return NewClassifier(strategies, NewExtractor(heur, logger), vocab, logger)
}

func TestKeywordClassificationPriority(t *testing.T) {
	vocab := &fakeVocab{categories: []string{"smartphones", "laptops"}}
	c := newTestClassifier(nil, vocab)
	ctx := context.Background()

	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"greeting", "hi there", IntentGreeting},
		{"long message with greeting word is not greeting", "hi I am looking for a good laptop to buy for work", IntentCart}, // "buy" hits cart keywords
		{"follow up is search", "tell me about the second option", IntentSearch},
		{"compare", "compare iphone vs pixel", IntentCompare},
		{"cart", "add it to my cart", IntentCart},
		{"support", "what is your return policy", IntentSupport},
		{"support suppressed by follow-up phrasing", "tell me about the warranty option", IntentSearch},
		{"recommendation", "recommend a good phone", IntentRecommendation},
		{"search keyword", "show me laptops", IntentSearch},
		{"default is search", "red shoes", IntentSearch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(ctx, tt.message, "")
			if got.Intent != tt.want {
				t.Errorf("Intent = %v, want %v", got.Intent, tt.want)
			}
			if got.Source != SourceFallback {
				t.Errorf("Source = %q, want fallback", got.Source)
			}
		})
	}
}

func TestKeywordCategoryInference(t *testing.T) {
	vocab := &fakeVocab{categories: []string{"smartphones", "laptops"}}
	c := newTestClassifier(nil, vocab)
	ctx := context.Background()

	// Direct canonical substring.
	got := c.Classify(ctx, "show me smartphones", "")
	if got.Entities.ProductType != "smartphones" {
		t.Errorf("ProductType = %q, want smartphones", got.Entities.ProductType)
	}

	// Synonym mapping.
	got = c.Classify(ctx, "show me a good phone", "")
	if got.Entities.ProductType != "smartphones" {
		t.Errorf("synonym ProductType = %q, want smartphones", got.Entities.ProductType)
	}

	// Synonyms for categories outside the vocabulary never resolve.
	got = c.Classify(ctx, "show me a tv", "")
	if got.Entities.ProductType != "" {
		t.Errorf("ProductType = %q, want empty for disallowed category", got.Entities.ProductType)
	}
}

func TestLLMClassification(t *testing.T) {
	vocab := &fakeVocab{
		categories: []string{"smartphones"},
		brands:     []string{"Apple", "Samsung"},
	}
	provider := &fakeLLM{response: "```json\n" + `{
		"intent": "search",
		"confidence": 0.95,
		"is_followup": true,
		"referenced_item": "second",
		"entities": {
			"product_type": "Smartphones",
			"brand": "apple",
			"action": null,
			"keywords": ["iphone"]
		}
	}` + "\n```"}

	c := newTestClassifier(provider, vocab)
	got := c.Classify(context.Background(), "tell me about the second iphone", "User: show me phones\nBot: here")

	if got.Intent != IntentSearch {
		t.Errorf("Intent = %v, want SEARCH", got.Intent)
	}
	if got.Source != SourceLLM {
		t.Errorf("Source = %q, want llm", got.Source)
	}
	if !got.IsFollowup || got.ReferencedItem != RefSecond {
		t.Errorf("followup fields = %v/%q", got.IsFollowup, got.ReferencedItem)
	}
	if got.Entities.ProductType != "smartphones" {
		t.Errorf("ProductType = %q, want canonical smartphones", got.Entities.ProductType)
	}
	if got.Brand != "Apple" {
		t.Errorf("Brand = %q, want canonical Apple", got.Brand)
	}
}

func TestLLMFailureFallsBackToKeywords(t *testing.T) {
	vocab := &fakeVocab{categories: []string{"laptops"}}
	provider := &fakeLLM{err: fmt.Errorf("model unavailable")}

	c := newTestClassifier(provider, vocab)
	got := c.Classify(context.Background(), "show me laptops under $1000", "")

	if got.Source != SourceFallback {
		t.Fatalf("Source = %q, want fallback", got.Source)
	}
	if got.Intent != IntentSearch {
		t.Errorf("Intent = %v, want SEARCH", got.Intent)
	}
	// Enhancement runs regardless of which strategy answered.
	if got.PriceMax == nil || *got.PriceMax != 1000 {
		t.Errorf("PriceMax = %v, want 1000", got.PriceMax)
	}
	if got.Entities.ProductType != "laptops" {
		t.Errorf("ProductType = %q, want laptops", got.Entities.ProductType)
	}
}

func TestLLMGarbageFallsBack(t *testing.T) {
	vocab := &fakeVocab{}
	provider := &fakeLLM{response: "I think the user wants to search for products."}

	c := newTestClassifier(provider, vocab)
	got := c.Classify(context.Background(), "show me laptops", "")
	if got.Source != SourceFallback {
		t.Errorf("Source = %q, want fallback on unparseable output", got.Source)
	}
}

func TestLLMUnknownIntentRejected(t *testing.T) {
	vocab := &fakeVocab{}
	provider := &fakeLLM{response: `{"intent": "PURCHASE", "confidence": 0.9, "entities": {}}`}

	c := newTestClassifier(provider, vocab)
	got := c.Classify(context.Background(), "buy now", "")
	if got.Source != SourceFallback {
		t.Errorf("Source = %q, unknown intents must fall through", got.Source)
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", `Sure! {"a":1} hope that helps`, `{"a":1}`},
		{"no object", "no json here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSON(tt.in); got != tt.want {
				t.Errorf("extractJSON = %q, want %q", got, tt.want)
			}
		})
	}
}
