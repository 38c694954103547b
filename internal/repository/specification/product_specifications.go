package specification

import (
	"gorm.io/gorm"
)

// ByCategory filters by category name, case-insensitively to match the
// in-memory predicate.
type ByCategory struct {
	Category string
}

func (s ByCategory) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(category) = LOWER(?)", s.Category)
}

// ByBrand filters by brand name, case-insensitively to match the
// in-memory predicate.
type ByBrand struct {
	Brand string
}

func (s ByBrand) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("LOWER(brand) = LOWER(?)", s.Brand)
}

// PriceAtLeast filters products priced at or above the bound
type PriceAtLeast struct {
	Price float64
}

func (s PriceAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price >= ?", s.Price)
}

// PriceAtMost filters products priced at or below the bound
type PriceAtMost struct {
	Price float64
}

func (s PriceAtMost) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("price <= ?", s.Price)
}

// RatingAtLeast filters products rated at or above the bound
type RatingAtLeast struct {
	Rating float64
}

func (s RatingAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("rating >= ?", s.Rating)
}

// InStockOnly keeps products with positive stock
type InStockOnly struct{}

func (s InStockOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stock > 0")
}

// DiscountAtLeast filters by effective discount. The stored column is the
// explicit discount; rows relying on originalPrice-derived discounts are
// covered by the OR branch.
type DiscountAtLeast struct {
	Discount float64
}

func (s DiscountAtLeast) Apply(db *gorm.DB) *gorm.DB {
	return db.Where(
		"discount_percent >= ? OR (original_price > price AND price > 0 AND (1 - price / original_price) * 100 >= ?)",
		s.Discount, s.Discount,
	)
}
