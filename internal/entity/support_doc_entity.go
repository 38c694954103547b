package entity

import (
	"time"

	"github.com/google/uuid"
)

type SupportDoc struct {
	Id             uuid.UUID
	Topic          string
	Content        string
	EmbeddingValue []float32
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
