package contract

import (
	"context"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredProduct wraps Product with its cosine similarity score
type ScoredProduct struct {
	Product    *entity.Product
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	CreateBulk(ctx context.Context, products []*entity.Product) error
	Update(ctx context.Context, product *entity.Product) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Product, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Product, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Vocabulary listings for category/brand canonicalization
	DistinctCategories(ctx context.Context) ([]string, error)
	DistinctBrands(ctx context.Context) ([]string, error)
	// SearchSimilarWithScore runs a vector query with the given filter
	// specifications applied on top of the cosine ordering.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, specs ...specification.Specification) ([]*ScoredProduct, error)
}
