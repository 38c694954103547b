package intent

import (
	"log"
	"regexp"
	"strings"

	"ecommerce-chatbot-be/pkg/heuristics"
)

// Price bound patterns, tried as a cascade from most to least specific.
var (
	priceRangePattern   = regexp.MustCompile(`\$?\s*(\d{2,6})\s*[-–]\s*\$?\s*(\d{2,6})`)
	priceBetweenPattern = regexp.MustCompile(`(?:between|from)\s+\$?(\d{2,6})\s+(?:and|to)\s+\$?(\d{2,6})`)
	priceUpperPattern   = regexp.MustCompile(`(?:under|less\s+than|below|up\s+to|max|at\s+most)\s+\$?(\d{2,6})`)
	priceLowerPattern   = regexp.MustCompile(`(?:over|more\s+than|above|at\s+least|minimum)\s+\$?(\d{2,6})`)
	priceAroundPattern  = regexp.MustCompile(`(?:around|about|approximately|~)\s*\$?(\d{2,6})`)

	// Refine hint triggers require a digit so bare "under" does not fire.
	refineUpperPattern = regexp.MustCompile(`(?:under|less\s+than|below|up\s+to|max|at\s+most)\s+\$?\d`)
	refineLowerPattern = regexp.MustCompile(`(?:over|more\s+than|above|at\s+least|minimum)\s+\$?\d`)
	refineOnlyPattern  = regexp.MustCompile(`\bonly\b`)

	// Brand phrasings, in priority order.
	brandLabelPattern   = regexp.MustCompile(`(?i)\bbrand\s*[:\-]?\s*([A-Za-z0-9][A-Za-z0-9 &\-]{0,40})`)
	brandByFromPattern  = regexp.MustCompile(`(?i)\b(?:by|from)\s+([A-Za-z][A-Za-z0-9 &\-]{1,40})`)
	brandOnlyPattern    = regexp.MustCompile(`(?i)\bonly\s+([A-Za-z][A-Za-z0-9 &\-]{1,40})`)
	brandNounPattern    = regexp.MustCompile(`\b([A-Z][A-Za-z0-9&\-]{1,40})\s+(?:phones?|smartphones?|laptops?|watches?)\b`)
	brandConnectorSplit = regexp.MustCompile(`\s+with\b|[,\.!]`)
	brandOnlySplit      = regexp.MustCompile(`\s+(?:with|and|or)\b|[,\.!]`)

	hashtagPattern      = regexp.MustCompile(`#([a-z0-9\-]+)`)
	withFeaturesPattern = regexp.MustCompile(`\bwith\s+([^.;\n]+)`)
	featureSplitPattern = regexp.MustCompile(`[,/]|\band\b`)

	// Around-price band half-width as a fraction of the mentioned price.
	aroundPriceBand = 0.2
)

// Extractor pulls structured filters out of free text. Rating and
// discount patterns come from the heuristics table so deployments can
// extend them without a rebuild.
type Extractor struct {
	heur             heuristics.Heuristics
	ratingPatterns   []*regexp.Regexp
	discountPatterns []*regexp.Regexp
	logger           *log.Logger
}

func NewExtractor(heur heuristics.Heuristics, logger *log.Logger) *Extractor {
	e := &Extractor{heur: heur, logger: logger}
	for _, p := range heur.RatingPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Printf("[INTENT] Skipping invalid rating pattern %q: %v", p, err)
			continue
		}
		e.ratingPatterns = append(e.ratingPatterns, re)
	}
	for _, p := range heur.DiscountPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			logger.Printf("[INTENT] Skipping invalid discount pattern %q: %v", p, err)
			continue
		}
		e.discountPatterns = append(e.discountPatterns, re)
	}
	return e
}

// enhanceWithPrice fills price bounds from the first matching phrasing.
// An explicit range wins over single bounds; "around X" only applies when
// no bound matched and widens to a +/-20% band.
func (e *Extractor) enhanceWithPrice(message string, r *Result) {
	text := strings.ToLower(message)

	if m := priceRangePattern.FindStringSubmatch(text); m != nil {
		a, b := parsePrice(m[1]), parsePrice(m[2])
		low, high := orderBounds(a, b)
		r.PriceMin, r.PriceMax = &low, &high
		r.PriceMentioned = &high
	}

	if r.PriceMin == nil && r.PriceMax == nil {
		if m := priceBetweenPattern.FindStringSubmatch(text); m != nil {
			a, b := parsePrice(m[1]), parsePrice(m[2])
			low, high := orderBounds(a, b)
			r.PriceMin, r.PriceMax = &low, &high
			r.PriceMentioned = &high
		}
	}

	if r.PriceMax == nil {
		if m := priceUpperPattern.FindStringSubmatch(text); m != nil {
			v := parsePrice(m[1])
			r.PriceMax = &v
			r.PriceMentioned = &v
		}
	}

	if r.PriceMin == nil {
		if m := priceLowerPattern.FindStringSubmatch(text); m != nil {
			v := parsePrice(m[1])
			r.PriceMin = &v
			r.PriceMentioned = &v
		}
	}

	if r.PriceMin == nil && r.PriceMax == nil {
		if m := priceAroundPattern.FindStringSubmatch(text); m != nil {
			center := parsePrice(m[1])
			delta := center * aroundPriceBand
			low, high := center-delta, center+delta
			r.PriceMin, r.PriceMax = &low, &high
			r.PriceMentioned = &center
		}
	}

	r.CorrectedQuery = message
	r.KeyTerms = r.Entities.Keywords
}

// enhanceWithFilters extracts brand, rating, stock, discount and tags.
// A brand the LLM already canonicalized is never overridden by the
// heuristics; the fuzzy brand matcher runs only on the fallback path.
func (e *Extractor) enhanceWithFilters(message string, r *Result, allowedBrands []string) {
	text := strings.TrimSpace(message)
	lower := strings.ToLower(text)

	brand := r.Entities.Brand
	if brand == "" {
		brand = r.Brand
	}

	if brand == "" {
		if m := brandLabelPattern.FindStringSubmatch(text); m != nil {
			brand = e.cleanBrand(m[1], brandConnectorSplit)
		}
	}
	if brand == "" {
		if m := brandByFromPattern.FindStringSubmatch(text); m != nil {
			brand = e.cleanBrand(m[1], brandConnectorSplit)
		}
	}
	if brand == "" {
		if m := brandOnlyPattern.FindStringSubmatch(text); m != nil {
			brand = e.cleanBrand(m[1], brandOnlySplit)
		}
	}
	if brand == "" {
		if m := brandNounPattern.FindStringSubmatch(text); m != nil {
			brand = strings.TrimSpace(m[1])
		}
	}

	for _, re := range e.ratingPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, ok := parseFloat(m[1]); ok {
				r.RatingMin = &v
				break
			}
		}
	}

	// Out-of-stock phrases win over in-stock because "out of stock"
	// contains "in stock" phrasing ambiguity in longer sentences.
	if containsAny(lower, e.heur.Phrases.InStock) {
		t := true
		r.InStock = &t
	}
	if containsAny(lower, e.heur.Phrases.OutOfStock) {
		f := false
		r.InStock = &f
	}

	for _, re := range e.discountPatterns {
		if m := re.FindStringSubmatch(lower); m != nil {
			if v, ok := parseFloat(m[1]); ok {
				r.DiscountMin = &v
				break
			}
		}
	}

	r.Tags = e.extractTags(lower)

	// Canonicalize against the catalog's closed brand set.
	canonical := false
	if brand != "" {
		for _, b := range allowedBrands {
			if strings.EqualFold(strings.TrimSpace(brand), strings.TrimSpace(b)) {
				brand = b
				canonical = true
				break
			}
		}
	}

	if e.heur.FeatureFlags.FallbackFuzzyBrand && r.Source == SourceFallback && !canonical && len(allowedBrands) > 0 {
		tokens := tokenizeForFuzzy(message, e.heur.Thresholds.MinTokenLength)
		if brand != "" {
			tokens = append(tokens, strings.ToLower(strings.TrimSpace(brand)))
		}
		best, bestScore, secondScore := bestFuzzyCandidate(allowedBrands, tokens, message)
		cutoff := e.heur.Thresholds.FuzzySimilarityBrand
		margin := e.heur.Thresholds.FuzzyUnambiguousMargin
		if best != "" && bestScore >= cutoff && bestScore-secondScore >= margin {
			brand = best
			e.logger.Printf("[INTENT] Fuzzy brand match applied: %q (%d%%)", best, bestScore)
		}
	}

	r.Brand = brand
	r.Entities.Brand = brand
}

// enhanceWithRefineHints annotates refine markers. The engine decides
// whether they apply against session state.
func (e *Extractor) enhanceWithRefineHints(message string, r *Result) {
	text := strings.ToLower(message)

	if containsAny(text, []string{"cheaper", "less expensive", "lower price", "more affordable"}) {
		r.RefineHints = append(r.RefineHints, RefinePriceCheaper)
	}
	if refineUpperPattern.MatchString(text) {
		r.RefineHints = append(r.RefineHints, RefinePriceUpperBound)
	}
	if refineLowerPattern.MatchString(text) {
		r.RefineHints = append(r.RefineHints, RefinePriceLowerBound)
	}
	if refineOnlyPattern.MatchString(text) {
		r.RefineHints = append(r.RefineHints, RefineConstraintOnly)
	}
	if containsAny(text, []string{"higher rating", "better rated", "more stars"}) {
		r.RefineHints = append(r.RefineHints, RefineRatingHigher)
	}
	if containsAny(text, []string{"in stock", "available now", "instock"}) {
		r.RefineHints = append(r.RefineHints, RefineInStock)
	}

	r.IsRefine = len(r.RefineHints) > 0
	if r.RefineHints == nil {
		r.RefineHints = []RefineHint{}
	}
}

func (e *Extractor) cleanBrand(raw string, connectorSplit *regexp.Regexp) string {
	brand := strings.TrimRight(strings.TrimSpace(raw), ".,!")
	if loc := connectorSplit.FindStringIndex(brand); loc != nil {
		brand = strings.TrimSpace(brand[:loc[0]])
	}
	// "Samsung phones" -> "Samsung"
	parts := strings.Fields(brand)
	if len(parts) > 1 && e.heur.IsGenericNoun(parts[1]) {
		brand = parts[0]
	}
	return brand
}

func (e *Extractor) extractTags(lower string) []string {
	var tags []string
	for _, m := range hashtagPattern.FindAllStringSubmatch(lower, -1) {
		tags = append(tags, m[1])
	}
	if len(tags) == 0 {
		if m := withFeaturesPattern.FindStringSubmatch(lower); m != nil {
			for _, chunk := range featureSplitPattern.Split(m[1], -1) {
				t := strings.TrimSpace(chunk)
				if len(t) >= 2 && len(t) <= 20 && !strings.Contains(t, " ") {
					tags = append(tags, t)
				}
			}
		}
	}

	seen := make(map[string]bool, len(tags))
	out := tags[:0]
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if p != "" && strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func orderBounds(a, b float64) (float64, float64) {
	if a > b {
		return b, a
	}
	return a, b
}
