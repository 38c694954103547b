// Package heuristics holds the keyword tables, regex patterns and
// thresholds the fallback classifier and entity extractor run on. Values
// ship with in-code defaults and can be overridden per-deployment by a
// JSON file, so retail teams can tune vocabulary without a rebuild.
package heuristics

import (
	"encoding/json"
	"log"
	"os"
	"strings"
)

// Thresholds gate the fuzzy matchers and tokenizer.
type Thresholds struct {
	FuzzySimilarityBrand    int `json:"fuzzy_similarity_brand"`
	FuzzySimilarityCategory int `json:"fuzzy_similarity_category"`
	FuzzyUnambiguousMargin  int `json:"fuzzy_unambiguous_margin"`
	MinTokenLength          int `json:"min_token_length"`
}

// FeatureFlags switch the riskier fuzzy paths; both default off.
type FeatureFlags struct {
	FallbackFuzzyBrand    bool `json:"fallback_fuzzy_brand"`
	FallbackFuzzyCategory bool `json:"fallback_fuzzy_category"`
}

// Phrases are multi-word literals scanned as substrings of the lowercased
// message.
type Phrases struct {
	InStock            []string `json:"in_stock"`
	OutOfStock         []string `json:"out_of_stock"`
	FollowUp           []string `json:"follow_up"`
	FollowupIndicators []string `json:"followup_indicators"`
}

// Heuristics is the full tunable table.
type Heuristics struct {
	CategorySynonyms   map[string][]string `json:"category_synonyms"`
	BrandSynonyms      map[string][]string `json:"brand_synonyms"`
	IntentKeywords     map[string][]string `json:"intent_keywords"`
	GreetingKeywords   []string            `json:"greeting_keywords"`
	GenericNouns       []string            `json:"generic_nouns"`
	Phrases            Phrases             `json:"phrases"`
	RatingPatterns     []string            `json:"rating_patterns"`
	DiscountPatterns   []string            `json:"discount_patterns"`
	Thresholds         Thresholds          `json:"thresholds"`
	FeatureFlags       FeatureFlags        `json:"feature_flags"`
	RefineGenericTerms []string            `json:"refine_generic_terms"`
}

// Defaults returns the built-in table. Callers get a fresh copy each time.
func Defaults() Heuristics {
	return Heuristics{
		CategorySynonyms: map[string][]string{
			"smartphones":  {"phone", "phones", "mobile", "mobiles", "cell", "cellphone", "cellphones", "handset"},
			"laptops":      {"laptop", "laptops", "notebook", "notebooks", "ultrabook"},
			"televisions":  {"tv", "tvs", "television", "oled tv", "led tv"},
			"smartwatches": {"watch", "watches", "smartwatch", "smartwatches"},
			"tablets":      {"tablet", "tablets"},
			"cameras":      {"camera", "cameras"},
		},
		BrandSynonyms: map[string][]string{},
		IntentKeywords: map[string][]string{
			"cart":           {"cart", "add", "remove", "buy", "purchase", "order", "checkout"},
			"support":        {"policy", "return", "shipping", "warranty", "support", "contact", "refund"},
			"recommendation": {"recommend", "suggest", "trending", "popular", "gift"},
			"search":         {"show", "find", "search", "browse", "get", "want", "need"},
			"compare":        {"compare", "vs", "versus", "difference between", "which is better"},
		},
		GreetingKeywords: []string{
			"hi", "hello", "hey", "greetings", "good morning", "good afternoon",
			"good evening", "howdy", "how are you", "what's up",
		},
		GenericNouns: []string{
			"phone", "phones", "laptop", "laptops", "watch", "watches",
			"tv", "tvs", "camera", "cameras",
		},
		Phrases: Phrases{
			InStock:    []string{"in stock", "available now", "instock", "ready to ship"},
			OutOfStock: []string{"sold out", "out of stock", "unavailable"},
			FollowUp: []string{
				"first option", "second option", "third option",
				"tell me about", "more about",
			},
			FollowupIndicators: []string{
				"more", "other", "different", "cheaper", "better", "similar",
			},
		},
		RatingPatterns: []string{
			`(\d(?:\.\d)?)\s*\+\s*stars`,
			`at\s+least\s+(\d(?:\.\d)?)\s*stars`,
			`rating\s*(?:of\s*)?(?:over|above|>=?|at\s+least)\s*(\d(?:\.\d)?)`,
			`(\d(?:\.\d)?)\s*stars\s*(?:or\s*more|and\s*up)`,
		},
		DiscountPatterns: []string{
			`(\d{1,3})\s*%\s*(?:off|discount)`,
			`at\s+least\s+(\d{1,3})\s*%`,
		},
		Thresholds: Thresholds{
			FuzzySimilarityBrand:    90,
			FuzzySimilarityCategory: 90,
			FuzzyUnambiguousMargin:  3,
			MinTokenLength:          3,
		},
		FeatureFlags: FeatureFlags{},
		RefineGenericTerms: []string{
			"cheaper", "under", "over", "below", "above", "minimum", "max",
			"at", "least", "most", "only", "in", "stock", "higher", "rating",
			"better", "rated", "less", "expensive", "lower", "price", "up", "to",
		},
	}
}

// Load reads overrides from path and merges them over the defaults.
// A missing or unreadable file is not an error; defaults apply. Merging is
// per top-level key, except intent_keywords which merges per intent so an
// override file can extend one intent without restating the rest.
func Load(path string, logger *log.Logger) Heuristics {
	h := Defaults()
	if path == "" {
		return h
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("[HEURISTICS] Config read error (%v); using defaults", err)
		}
		return h
	}

	var override Heuristics
	if err := json.Unmarshal(raw, &override); err != nil {
		logger.Printf("[HEURISTICS] Config parse error (%v); using defaults", err)
		return h
	}

	// Track which top-level keys the file actually set.
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return h
	}

	if _, ok := keys["category_synonyms"]; ok {
		h.CategorySynonyms = override.CategorySynonyms
	}
	if _, ok := keys["brand_synonyms"]; ok {
		h.BrandSynonyms = override.BrandSynonyms
	}
	if _, ok := keys["intent_keywords"]; ok {
		for intent, words := range override.IntentKeywords {
			h.IntentKeywords[intent] = words
		}
	}
	if _, ok := keys["greeting_keywords"]; ok {
		h.GreetingKeywords = override.GreetingKeywords
	}
	if _, ok := keys["generic_nouns"]; ok {
		h.GenericNouns = override.GenericNouns
	}
	if _, ok := keys["phrases"]; ok {
		h.Phrases = override.Phrases
	}
	if _, ok := keys["rating_patterns"]; ok {
		h.RatingPatterns = override.RatingPatterns
	}
	if _, ok := keys["discount_patterns"]; ok {
		h.DiscountPatterns = override.DiscountPatterns
	}
	if _, ok := keys["thresholds"]; ok {
		h.Thresholds = override.Thresholds
	}
	if _, ok := keys["feature_flags"]; ok {
		h.FeatureFlags = override.FeatureFlags
	}
	if _, ok := keys["refine_generic_terms"]; ok {
		h.RefineGenericTerms = override.RefineGenericTerms
	}

	logger.Printf("[HEURISTICS] Loaded overrides from %s", path)
	return h
}

// BuildCategorySynonyms maps each synonym to its canonical category,
// restricted to categories present in the allowed set. Matching is
// case-insensitive on both sides.
func (h Heuristics) BuildCategorySynonyms(allowed []string) map[string]string {
	allowedLower := make(map[string]string, len(allowed))
	for _, c := range allowed {
		key := strings.ToLower(strings.TrimSpace(c))
		if key != "" {
			allowedLower[key] = c
		}
	}

	synonymToCanonical := make(map[string]string)
	for canonical, synonyms := range h.CategorySynonyms {
		canonObj, ok := allowedLower[strings.ToLower(strings.TrimSpace(canonical))]
		if !ok {
			continue
		}
		for _, syn := range synonyms {
			key := strings.ToLower(strings.TrimSpace(syn))
			if key != "" {
				synonymToCanonical[key] = canonObj
			}
		}
	}
	return synonymToCanonical
}

// IsGenericNoun reports whether the token is a bare product noun that by
// itself should not be treated as a brand.
func (h Heuristics) IsGenericNoun(token string) bool {
	token = strings.ToLower(strings.TrimSpace(token))
	for _, n := range h.GenericNouns {
		if token == n {
			return true
		}
	}
	return false
}
