package catalog

import (
	"context"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// VocabularySource lists the closed category/brand sets derived from the
// live catalog.
type VocabularySource interface {
	ListCategories(ctx context.Context) ([]string, error)
	ListBrands(ctx context.Context) ([]string, error)
}

const (
	vocabCategoriesKey = "categories"
	vocabBrandsKey     = "brands"
)

// Vocabulary caches the catalog's canonical category and brand sets and
// canonicalizes free-form values against them. A source failure degrades to
// an empty vocabulary rather than an error.
type Vocabulary struct {
	source VocabularySource
	cache  *cache.Cache
	logger *log.Logger
}

func NewVocabulary(source VocabularySource, logger *log.Logger) *Vocabulary {
	// Vocabularies change only when the catalog is reseeded; 5 minutes keeps
	// them fresh without hammering DISTINCT queries per message.
	return &Vocabulary{
		source: source,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		logger: logger,
	}
}

// Categories returns the sorted canonical category set.
func (v *Vocabulary) Categories(ctx context.Context) []string {
	if x, found := v.cache.Get(vocabCategoriesKey); found {
		return x.([]string)
	}
	categories, err := v.source.ListCategories(ctx)
	if err != nil {
		v.logger.Printf("[VOCAB] Category listing failed: %v", err)
		return nil
	}
	sort.Strings(categories)
	v.cache.Set(vocabCategoriesKey, categories, cache.DefaultExpiration)
	return categories
}

// Brands returns the sorted canonical brand set.
func (v *Vocabulary) Brands(ctx context.Context) []string {
	if x, found := v.cache.Get(vocabBrandsKey); found {
		return x.([]string)
	}
	brands, err := v.source.ListBrands(ctx)
	if err != nil {
		v.logger.Printf("[VOCAB] Brand listing failed: %v", err)
		return nil
	}
	sort.Strings(brands)
	v.cache.Set(vocabBrandsKey, brands, cache.DefaultExpiration)
	return brands
}

// CanonicalCategory maps a raw value onto the closed category set by
// case-insensitive exact match. Returns false when the value is unknown.
func (v *Vocabulary) CanonicalCategory(ctx context.Context, raw string) (string, bool) {
	return canonicalize(raw, v.Categories(ctx))
}

// CanonicalBrand maps a raw value onto the closed brand set.
func (v *Vocabulary) CanonicalBrand(ctx context.Context, raw string) (string, bool) {
	return canonicalize(raw, v.Brands(ctx))
}

func canonicalize(raw string, allowed []string) (string, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return a, true
		}
	}
	return "", false
}
