package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ecommerce-chatbot-be/pkg/llm"
)

const classifyPromptTemplate = `You are an intent classifier for an e-commerce chatbot.
Classify this message into one of these intents:

1. SEARCH - Find/browse products OR ask about specific products (e.g., "show me laptops", "tell me about the first option", "can you tell me about that product")
2. CART - Cart operations (e.g., "add to cart", "remove item", "view cart")
3. RECOMMENDATION - Product suggestions (e.g., "recommend me a phone", "what's trending")
4. SUPPORT - Help with policies ONLY (e.g., "return policy", "shipping info", "warranty", "contact support")
5. COMPARE - Compare two results from the last shown list or by name (e.g., "compare the first and second", "iphone vs pixel")
6. GREETING - General greetings or social conversation (e.g., "hi", "hello", "how are you", "good morning", "what's up")

IMPORTANT: Questions about specific products (like "tell me about the first option" or "can you tell me about that product") are SEARCH, not SUPPORT.

%sAllowed product categories (closed set): %s
Allowed brands (closed set): %s

User message: "%s"

Respond with ONLY valid JSON:
{
    "intent": "SEARCH|CART|RECOMMENDATION|SUPPORT|COMPARE|GREETING",
    "confidence": 0.0-1.0,
    "is_followup": true/false,
    "referenced_item": "first"/"second"/"third"/null,
    "entities": {
        "product_type": "one of the allowed product categories or null if unknown",
        "brand": "one of the allowed brands or null if unknown",
        "action": "specific action if any",
        "keywords": ["relevant", "keywords"]
    }
}`

// llmClassification is the wire shape the model is asked for. Loose
// types absorb the null/string variance models produce.
type llmClassification struct {
	Intent         string  `json:"intent"`
	Confidence     float64 `json:"confidence"`
	IsFollowup     bool    `json:"is_followup"`
	ReferencedItem *string `json:"referenced_item"`
	Brand          *string `json:"brand"`
	Entities       struct {
		ProductType *string  `json:"product_type"`
		Brand       *string  `json:"brand"`
		Action      *string  `json:"action"`
		Keywords    []string `json:"keywords"`
	} `json:"entities"`
}

// LLMStrategy classifies with a language model constrained to the
// catalog's closed category and brand sets.
type LLMStrategy struct {
	provider llm.LLMProvider
	vocab    Vocabulary
	logger   *log.Logger
}

var _ Strategy = &LLMStrategy{}

func NewLLMStrategy(provider llm.LLMProvider, vocab Vocabulary, logger *log.Logger) *LLMStrategy {
	return &LLMStrategy{provider: provider, vocab: vocab, logger: logger}
}

func (s *LLMStrategy) Classify(ctx context.Context, message, conversationContext string) (*Result, error) {
	categories := s.vocab.Categories(ctx)
	brands := s.vocab.Brands(ctx)

	categoriesJSON, _ := json.Marshal(categories)
	brandsJSON, _ := json.Marshal(brands)

	contextSection := ""
	if strings.TrimSpace(conversationContext) != "" {
		contextSection = fmt.Sprintf("Previous conversation:\n%s\n\n", conversationContext)
	}

	prompt := fmt.Sprintf(classifyPromptTemplate, contextSection, categoriesJSON, brandsJSON, message)

	raw, err := s.provider.Generate(ctx, prompt, llm.WithTemperature(0.1))
	if err != nil {
		return nil, fmt.Errorf("llm classification: %w", err)
	}

	jsonText := extractJSON(raw)
	if jsonText == "" {
		return nil, fmt.Errorf("llm classification: no JSON in response")
	}

	var parsed llmClassification
	if err := json.Unmarshal([]byte(jsonText), &parsed); err != nil {
		return nil, fmt.Errorf("llm classification: parse response: %w", err)
	}

	detected := Intent(strings.ToUpper(strings.TrimSpace(parsed.Intent)))
	if !knownIntents[detected] {
		return nil, fmt.Errorf("llm classification: unknown intent %q", parsed.Intent)
	}

	result := &Result{
		Intent:     detected,
		Confidence: parsed.Confidence,
		IsFollowup: parsed.IsFollowup,
		Source:     SourceLLM,
	}
	if parsed.ReferencedItem != nil {
		switch strings.ToLower(strings.TrimSpace(*parsed.ReferencedItem)) {
		case RefFirst:
			result.ReferencedItem = RefFirst
		case RefSecond:
			result.ReferencedItem = RefSecond
		case RefThird:
			result.ReferencedItem = RefThird
		}
	}

	// Closed-set fields: anything outside the catalog vocabulary is
	// dropped rather than passed through.
	if parsed.Entities.ProductType != nil {
		if canonical, ok := canonicalMatch(*parsed.Entities.ProductType, categories); ok {
			result.Entities.ProductType = canonical
		}
	}
	brandValue := parsed.Entities.Brand
	if brandValue == nil {
		brandValue = parsed.Brand
	}
	if brandValue != nil {
		if canonical, ok := canonicalMatch(*brandValue, brands); ok {
			result.Entities.Brand = canonical
			result.Brand = canonical
		}
	}
	if parsed.Entities.Action != nil {
		result.Entities.Action = *parsed.Entities.Action
	}
	result.Entities.Keywords = parsed.Entities.Keywords

	s.logger.Printf("[INTENT] LLM classified: %s (confidence: %.2f) is_followup: %v",
		result.Intent, result.Confidence, result.IsFollowup)
	return result, nil
}

// extractJSON pulls the outermost JSON object out of a model response,
// tolerating markdown fences and prose around it.
func extractJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end < start {
		return ""
	}
	return s[start : end+1]
}

func canonicalMatch(value string, allowed []string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return "", false
	}
	for _, a := range allowed {
		if v == strings.ToLower(strings.TrimSpace(a)) {
			return a, true
		}
	}
	return "", false
}
