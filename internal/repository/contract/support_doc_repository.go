package contract

import (
	"context"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredSupportDoc wraps SupportDoc with its cosine similarity score
type ScoredSupportDoc struct {
	Doc        *entity.SupportDoc
	Similarity float64
}

type SupportDocRepository interface {
	Create(ctx context.Context, doc *entity.SupportDoc) error
	CreateBulk(ctx context.Context, docs []*entity.SupportDoc) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SupportDoc, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredSupportDoc, error)
}
