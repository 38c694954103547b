package catalog

import "strings"

// Filters is the closed filter surface shared by every search path.
// Nil means "not requested". All consumers (vector provider, local scanner,
// refinement fallback) must honor exactly these fields.
type Filters struct {
	PriceMin    *float64
	PriceMax    *float64
	Brand       *string
	Category    *string
	RatingMin   *float64
	InStock     *bool
	DiscountMin *float64
	Tags        []string
}

// IsZero reports whether no filter is set.
func (f Filters) IsZero() bool {
	return f.PriceMin == nil && f.PriceMax == nil && f.Brand == nil &&
		f.Category == nil && f.RatingMin == nil && f.InStock == nil &&
		f.DiscountMin == nil && len(f.Tags) == 0
}

// Match applies the full predicate set against a single product.
// Brand and category compare case-insensitively; tags compare by
// normalized form with AND semantics.
func (f *Filters) Match(p *Product) bool {
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	if f.Brand != nil && !strings.EqualFold(p.Brand, *f.Brand) {
		return false
	}
	if f.Category != nil && !strings.EqualFold(p.Category, *f.Category) {
		return false
	}
	if f.RatingMin != nil && p.Rating < *f.RatingMin {
		return false
	}
	if f.InStock != nil && *f.InStock && p.Stock <= 0 {
		return false
	}
	if f.DiscountMin != nil && p.DiscountPercentage < *f.DiscountMin {
		return false
	}
	if !HasAllTags(p.Tags, f.Tags) {
		return false
	}
	return true
}

// Apply filters a slice in place-order, returning the matching subset.
func (f *Filters) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		if f.Match(&products[i]) {
			out = append(out, products[i])
		}
	}
	return out
}
