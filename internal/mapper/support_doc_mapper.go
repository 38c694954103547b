package mapper

import (
	"time"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/model"
	"ecommerce-chatbot-be/pkg/support"

	"github.com/pgvector/pgvector-go"
)

type SupportDocMapper struct{}

func NewSupportDocMapper() *SupportDocMapper {
	return &SupportDocMapper{}
}

func (m *SupportDocMapper) ToEntity(e *model.SupportDoc) *entity.SupportDoc {
	if e == nil {
		return nil
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	return &entity.SupportDoc{
		Id:             e.Id,
		Topic:          e.Topic,
		Content:        e.Content,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SupportDocMapper) ToModel(e *entity.SupportDoc) *model.SupportDoc {
	if e == nil {
		return nil
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	return &model.SupportDoc{
		Id:             e.Id,
		Topic:          e.Topic,
		Content:        e.Content,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SupportDocMapper) ToRetrieval(e *entity.SupportDoc, score float64) support.Doc {
	return support.Doc{
		ID:      e.Id.String(),
		Topic:   e.Topic,
		Content: e.Content,
		Score:   score,
	}
}
