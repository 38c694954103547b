package catalog

import "testing"

func f(v float64) *float64 { return &v }
func s(v string) *string   { return &v }
func b(v bool) *bool       { return &v }

func sampleProduct() Product {
	return Product{
		ID:                 "p1",
		Title:              "Acme Phone X",
		Category:           "smartphones",
		Brand:              "Acme",
		Price:              499,
		Rating:             4.4,
		Stock:              12,
		DiscountPercentage: 15,
		Tags:               []string{"5G", "Water Resistant"},
	}
}

func TestFiltersMatch(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		mutate  func(*Product)
		want    bool
	}{
		{"empty filters match", Filters{}, nil, true},
		{"price within range", Filters{PriceMin: f(400), PriceMax: f(500)}, nil, true},
		{"price above max", Filters{PriceMax: f(300)}, nil, false},
		{"price below min", Filters{PriceMin: f(600)}, nil, false},
		{"brand case insensitive", Filters{Brand: s("acme")}, nil, true},
		{"brand mismatch", Filters{Brand: s("Globex")}, nil, false},
		{"category case insensitive", Filters{Category: s("Smartphones")}, nil, true},
		{"rating at threshold", Filters{RatingMin: f(4.4)}, nil, true},
		{"rating below threshold", Filters{RatingMin: f(4.5)}, nil, false},
		{"in stock true passes", Filters{InStock: b(true)}, nil, true},
		{
			"in stock true rejects zero stock",
			Filters{InStock: b(true)},
			func(p *Product) { p.Stock = 0 },
			false,
		},
		{
			"in stock false does not enforce",
			Filters{InStock: b(false)},
			func(p *Product) { p.Stock = 0 },
			true,
		},
		{"discount at threshold", Filters{DiscountMin: f(15)}, nil, true},
		{"discount below threshold", Filters{DiscountMin: f(20)}, nil, false},
		{"tags normalized match", Filters{Tags: []string{"water_resistant"}}, nil, true},
		{"tags missing", Filters{Tags: []string{"rgb"}}, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := sampleProduct()
			if tt.mutate != nil {
				tt.mutate(&p)
			}
			if got := tt.filters.Match(&p); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFiltersIsZero(t *testing.T) {
	if !(Filters{}).IsZero() {
		t.Error("empty Filters should be zero")
	}
	if (Filters{Brand: s("Acme")}).IsZero() {
		t.Error("Filters with brand should not be zero")
	}
	if (Filters{Tags: []string{"gaming"}}).IsZero() {
		t.Error("Filters with tags should not be zero")
	}
}

func TestDeriveDiscount(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		original float64
		explicit float64
		want     float64
	}{
		{"explicit wins", 80, 100, 25, 25},
		{"derived from original price", 80, 100, 0, 20},
		{"no original price", 80, 0, 0, 0},
		{"original not higher", 100, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DeriveDiscount(tt.price, tt.original, tt.explicit)
			if got != tt.want {
				t.Errorf("DeriveDiscount = %v, want %v", got, tt.want)
			}
		})
	}
}
