package intent

import (
	"context"
	"log"
	"strings"

	"ecommerce-chatbot-be/pkg/heuristics"
)

// followUpPhrases route questions about previously shown products to
// SEARCH instead of SUPPORT.
var followUpPhrases = []string{
	"tell me about",
	"about the",
	"first option",
	"second option",
	"third option",
	"more details",
	"more info",
}

// supportSuppressPhrases keep "tell me about the return policy"-style
// product questions out of SUPPORT.
var supportSuppressPhrases = []string{"about the", "tell me about"}

// KeywordStrategy is the deterministic classifier of last resort. Priority
// order matters: greetings and follow-ups are checked before the broader
// keyword buckets.
type KeywordStrategy struct {
	heur   heuristics.Heuristics
	vocab  Vocabulary
	logger *log.Logger
}

var _ Strategy = &KeywordStrategy{}

func NewKeywordStrategy(heur heuristics.Heuristics, vocab Vocabulary, logger *log.Logger) *KeywordStrategy {
	return &KeywordStrategy{heur: heur, vocab: vocab, logger: logger}
}

func (s *KeywordStrategy) Classify(ctx context.Context, message, conversationContext string) (*Result, error) {
	lower := strings.ToLower(message)

	var detected Intent
	switch {
	case len(strings.Fields(lower)) <= 5 && containsAny(lower, s.heur.GreetingKeywords):
		detected = IntentGreeting
	case containsAny(lower, followUpPhrases):
		detected = IntentSearch
	case containsAny(lower, s.heur.IntentKeywords["compare"]):
		detected = IntentCompare
	case containsAny(lower, s.heur.IntentKeywords["cart"]):
		detected = IntentCart
	case containsAny(lower, s.heur.IntentKeywords["support"]) && !containsAny(lower, supportSuppressPhrases):
		detected = IntentSupport
	case containsAny(lower, s.heur.IntentKeywords["recommendation"]):
		detected = IntentRecommendation
	case containsAny(lower, s.heur.IntentKeywords["search"]):
		detected = IntentSearch
	default:
		detected = IntentSearch
	}

	productType := s.inferCategory(ctx, message, lower)

	keywords := make([]string, 0, 5)
	for _, word := range strings.Fields(lower) {
		if len(keywords) == 5 {
			break
		}
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}

	return &Result{
		Intent:     detected,
		Confidence: 0.8,
		Entities: Entities{
			ProductType: productType,
			Keywords:    keywords,
		},
		Source: SourceFallback,
	}, nil
}

// inferCategory resolves a catalog category from the message: direct
// substring of a canonical name, then the configured synonym map, then a
// flag-gated fuzzy match that must clear both the cutoff and the
// ambiguity margin.
func (s *KeywordStrategy) inferCategory(ctx context.Context, message, lower string) string {
	allowed := s.vocab.Categories(ctx)

	for _, c := range allowed {
		cl := strings.ToLower(strings.TrimSpace(c))
		if cl != "" && strings.Contains(lower, cl) {
			return c
		}
	}

	for syn, canonical := range s.heur.BuildCategorySynonyms(allowed) {
		if strings.Contains(lower, syn) {
			return canonical
		}
	}

	if s.heur.FeatureFlags.FallbackFuzzyCategory && len(allowed) > 0 {
		tokens := tokenizeForFuzzy(message, s.heur.Thresholds.MinTokenLength)
		best, bestScore, secondScore := bestFuzzyCandidate(allowed, tokens, message)
		cutoff := s.heur.Thresholds.FuzzySimilarityCategory
		margin := s.heur.Thresholds.FuzzyUnambiguousMargin
		if best != "" && bestScore >= cutoff && bestScore-secondScore >= margin {
			s.logger.Printf("[INTENT] Fuzzy category match applied: %q (%d%%)", best, bestScore)
			return best
		}
	}

	return ""
}
