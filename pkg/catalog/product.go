package catalog

// Product is the read-only catalog record the chat core operates on.
// It is produced by the search provider (or the local scanner) and never
// mutated by the core.
type Product struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price"`
	OriginalPrice      float64  `json:"originalPrice"`
	Rating             float64  `json:"rating"` // 0-5
	Stock              int      `json:"stock"`
	DiscountPercentage float64  `json:"discountPercentage"` // 0-100
	Tags               []string `json:"tags,omitempty"`
	Thumbnail          string   `json:"thumbnail,omitempty"`

	// SimilarityScore is the relevance reported by the search provider.
	// Fallback paths assign synthetic decreasing scores.
	SimilarityScore float64 `json:"similarity_score"`

	// RerankScore is attached by the engine when reranking is evaluated.
	RerankScore float64 `json:"rerank_score,omitempty"`
}

// DeriveDiscount computes the effective discount percentage.
// An explicit non-zero value wins; otherwise the discount is derived from
// originalPrice/price when originalPrice > price > 0, else 0.
func DeriveDiscount(price, originalPrice, explicit float64) float64 {
	if explicit > 0 {
		return explicit
	}
	if originalPrice > 0 && price > 0 && price < originalPrice {
		return (originalPrice - price) / originalPrice * 100.0
	}
	return 0
}

// InStock reports whether the product can currently be purchased.
func (p *Product) InStock() bool {
	return p.Stock > 0
}
