// Package intent classifies shopper messages and extracts the structured
// constraints (price bounds, brand, rating, stock, discount, tags) that
// drive retrieval.
package intent

// Intent is the coarse conversational goal of one message.
type Intent string

const (
	IntentSearch         Intent = "SEARCH"
	IntentCart           Intent = "CART"
	IntentRecommendation Intent = "RECOMMENDATION"
	IntentSupport        Intent = "SUPPORT"
	IntentCompare        Intent = "COMPARE"
	IntentGreeting       Intent = "GREETING"
)

// knownIntents guards canonicalization of LLM output.
var knownIntents = map[Intent]bool{
	IntentSearch:         true,
	IntentCart:           true,
	IntentRecommendation: true,
	IntentSupport:        true,
	IntentCompare:        true,
	IntentGreeting:       true,
}

// RefineHint marks a phrasing that narrows a previous search rather than
// starting a new one. Application is session-aware and happens in the
// search engine, not here.
type RefineHint string

const (
	RefinePriceCheaper    RefineHint = "price_cheaper"
	RefinePriceUpperBound RefineHint = "price_upper_bound"
	RefinePriceLowerBound RefineHint = "price_lower_bound"
	RefineConstraintOnly  RefineHint = "constraint_only"
	RefineRatingHigher    RefineHint = "rating_higher"
	RefineInStock         RefineHint = "in_stock"
)

// Ordinal references resolvable against the last shown list.
const (
	RefFirst  = "first"
	RefSecond = "second"
	RefThird  = "third"
)

const (
	SourceLLM      = "llm"
	SourceFallback = "fallback"
)

// Entities are the closed-set slots the classifier fills. ProductType and
// Brand are canonical catalog values or empty.
type Entities struct {
	ProductType string   `json:"product_type"`
	Brand       string   `json:"brand"`
	Action      string   `json:"action"`
	Keywords    []string `json:"keywords"`
}

// Result is a fully enhanced classification: intent plus every extracted
// filter. Pointer fields distinguish "not mentioned" from zero values.
type Result struct {
	Intent         Intent   `json:"intent"`
	Confidence     float64  `json:"confidence"`
	IsFollowup     bool     `json:"is_followup"`
	ReferencedItem string   `json:"referenced_item,omitempty"`
	Entities       Entities `json:"entities"`
	Source         string   `json:"-"`

	PriceMin       *float64 `json:"price_min,omitempty"`
	PriceMax       *float64 `json:"price_max,omitempty"`
	PriceMentioned *float64 `json:"price_mentioned,omitempty"`

	Brand       string   `json:"brand,omitempty"`
	RatingMin   *float64 `json:"rating_min,omitempty"`
	InStock     *bool    `json:"in_stock,omitempty"`
	DiscountMin *float64 `json:"discount_min,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	CorrectedQuery string   `json:"corrected_query"`
	KeyTerms       []string `json:"key_terms"`

	IsRefine    bool         `json:"is_refine"`
	RefineHints []RefineHint `json:"refine_hints"`
}

// HasHint reports whether the result carries the given refine marker.
func (r *Result) HasHint(hint RefineHint) bool {
	for _, h := range r.RefineHints {
		if h == hint {
			return true
		}
	}
	return false
}

// HasExplicitPrice reports whether the message stated a price bound.
func (r *Result) HasExplicitPrice() bool {
	return r.PriceMin != nil || r.PriceMax != nil
}
