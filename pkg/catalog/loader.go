package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadProducts reads a catalog snapshot from a JSON file. Effective
// discounts are derived on load so every consumer sees the same value.
func LoadProducts(path string) ([]Product, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog snapshot: %w", err)
	}

	var products []Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, fmt.Errorf("failed to parse catalog snapshot: %w", err)
	}

	for i := range products {
		products[i].DiscountPercentage = DeriveDiscount(
			products[i].Price,
			products[i].OriginalPrice,
			products[i].DiscountPercentage,
		)
	}
	return products, nil
}
