package service

import (
	"context"
	"fmt"

	"ecommerce-chatbot-be/internal/mapper"
	"ecommerce-chatbot-be/internal/repository/specification"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/embedding"
)

// CatalogProvider backs the search engine with the pgvector product table.
// It implements both catalog.SearchProvider (vector search plus metadata
// filters) and catalog.VocabularySource (distinct category/brand listings).
type CatalogProvider struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	mapper            *mapper.ProductMapper
	similarityCutoff  float64
}

func NewCatalogProvider(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	similarityCutoff float64,
) *CatalogProvider {
	return &CatalogProvider{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		mapper:            mapper.NewProductMapper(),
		similarityCutoff:  similarityCutoff,
	}
}

var _ catalog.SearchProvider = &CatalogProvider{}
var _ catalog.VocabularySource = &CatalogProvider{}

// Search embeds the query and runs a filtered cosine search. An empty
// query skips the vector leg and returns the best-rated filtered rows,
// with synthetic decreasing similarity so downstream ranking still works.
func (p *CatalogProvider) Search(ctx context.Context, query string, limit int, filters catalog.Filters) ([]catalog.Product, error) {
	if limit <= 0 {
		limit = 10
	}
	uow := p.uowFactory.NewUnitOfWork(ctx)
	specs := specsFromFilters(filters)

	if query == "" {
		specs = append(specs,
			specification.OrderBy{Field: "rating", Desc: true},
			specification.OrderBy{Field: "price", Desc: false},
			specification.Pagination{Limit: limit, Offset: 0},
		)
		entities, err := uow.ProductRepository().FindAll(ctx, specs...)
		if err != nil {
			return nil, err
		}
		results := make([]catalog.Product, 0, len(entities))
		for i, e := range entities {
			sim := 1.0 - float64(i)*0.1
			if sim < 0 {
				sim = 0
			}
			results = append(results, p.mapper.ToCatalog(e, sim))
		}
		return filterByTags(results, filters.Tags), nil
	}

	res, err := p.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	scored, err := uow.ProductRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, limit, specs...)
	if err != nil {
		return nil, err
	}

	results := make([]catalog.Product, 0, len(scored))
	for _, s := range scored {
		if s.Similarity < p.similarityCutoff {
			continue
		}
		results = append(results, p.mapper.ToCatalog(s.Product, s.Similarity))
	}
	return filterByTags(results, filters.Tags), nil
}

// filterByTags applies the tag constraint after the SQL stage. Stored
// tags keep their display form, so containment must compare normalized
// forms, same as catalog.Filters.Match.
func filterByTags(products []catalog.Product, tags []string) []catalog.Product {
	if len(tags) == 0 {
		return products
	}
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if catalog.HasAllTags(p.Tags, tags) {
			out = append(out, p)
		}
	}
	return out
}

func (p *CatalogProvider) ListCategories(ctx context.Context) ([]string, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().DistinctCategories(ctx)
}

func (p *CatalogProvider) ListBrands(ctx context.Context) ([]string, error) {
	uow := p.uowFactory.NewUnitOfWork(ctx)
	return uow.ProductRepository().DistinctBrands(ctx)
}

func specsFromFilters(f catalog.Filters) []specification.Specification {
	var specs []specification.Specification
	if f.Category != nil {
		specs = append(specs, specification.ByCategory{Category: *f.Category})
	}
	if f.Brand != nil {
		specs = append(specs, specification.ByBrand{Brand: *f.Brand})
	}
	if f.PriceMin != nil {
		specs = append(specs, specification.PriceAtLeast{Price: *f.PriceMin})
	}
	if f.PriceMax != nil {
		specs = append(specs, specification.PriceAtMost{Price: *f.PriceMax})
	}
	if f.RatingMin != nil {
		specs = append(specs, specification.RatingAtLeast{Rating: *f.RatingMin})
	}
	if f.InStock != nil && *f.InStock {
		specs = append(specs, specification.InStockOnly{})
	}
	if f.DiscountMin != nil {
		specs = append(specs, specification.DiscountAtLeast{Discount: *f.DiscountMin})
	}
	return specs
}
