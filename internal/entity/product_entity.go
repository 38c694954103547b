package entity

import (
	"time"

	"github.com/google/uuid"
)

type Product struct {
	Id              uuid.UUID
	Title           string
	Description     string
	Category        string
	Brand           string
	Price           float64
	OriginalPrice   float64
	Rating          float64
	Stock           int
	DiscountPercent float64
	Tags            []string
	Thumbnail       string
	EmbeddingValue  []float32
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	DeletedAt       *time.Time
	IsDeleted       bool
}
