package engine

import (
	"sort"

	"ecommerce-chatbot-be/pkg/catalog"
)

// Rerank weights. Similarity dominates; rating, discount and price fit
// nudge the ordering.
const (
	weightSimilarity = 0.6
	weightRating     = 0.2
	weightDiscount   = 0.1
	weightPriceFit   = 0.1

	// Discounts beyond this contribute no extra score.
	discountCeiling = 50.0
)

// Reranker attaches a composite score to every candidate. Reordering by
// that score is opt-in; with reorder off the provider's ordering stands
// and the score is informational.
type Reranker struct {
	reorder bool
}

func NewReranker(reorder bool) *Reranker {
	return &Reranker{reorder: reorder}
}

// Score mutates products in place, setting RerankScore, and sorts by it
// when reordering is enabled.
func (r *Reranker) Score(products []catalog.Product, filters catalog.Filters) {
	for i := range products {
		products[i].RerankScore = compositeScore(&products[i], filters)
	}
	if r.reorder {
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].RerankScore > products[j].RerankScore
		})
	}
}

func compositeScore(p *catalog.Product, filters catalog.Filters) float64 {
	similarity := clamp01(p.SimilarityScore)
	rating := clamp01(p.Rating / 5.0)

	discount := p.DiscountPercentage
	if discount > discountCeiling {
		discount = discountCeiling
	}
	discountScore := clamp01(discount / discountCeiling)

	return weightSimilarity*similarity +
		weightRating*rating +
		weightDiscount*discountScore +
		weightPriceFit*priceAffinity(p.Price, filters)
}

// priceAffinity is 1 when the price satisfies every requested bound, 0
// otherwise. With no bounds requested every price fits.
func priceAffinity(price float64, filters catalog.Filters) float64 {
	if filters.PriceMin != nil && price < *filters.PriceMin {
		return 0
	}
	if filters.PriceMax != nil && price > *filters.PriceMax {
		return 0
	}
	return 1
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
