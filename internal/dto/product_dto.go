package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateProductRequest struct {
	Title              string   `json:"title" validate:"required"`
	Description        string   `json:"description"`
	Category           string   `json:"category" validate:"required"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price" validate:"required,gt=0"`
	OriginalPrice      float64  `json:"original_price" validate:"omitempty,gte=0"`
	Rating             float64  `json:"rating" validate:"gte=0,lte=5"`
	Stock              int      `json:"stock" validate:"gte=0"`
	DiscountPercentage float64  `json:"discount_percentage" validate:"gte=0,lte=100"`
	Tags               []string `json:"tags"`
	Thumbnail          string   `json:"thumbnail"`
}

type ListProductsRequest struct {
	Category string
	Brand    string
	Limit    int
	Offset   int
}

type ProductResponse struct {
	Id                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Brand              string     `json:"brand"`
	Price              float64    `json:"price"`
	OriginalPrice      float64    `json:"original_price,omitempty"`
	Rating             float64    `json:"rating"`
	Stock              int        `json:"stock"`
	DiscountPercentage float64    `json:"discount_percentage,omitempty"`
	Tags               []string   `json:"tags,omitempty"`
	Thumbnail          string     `json:"thumbnail,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

type ListProductsResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

type SemanticSearchProductResponse struct {
	ProductResponse
	RelevanceScore float64 `json:"relevance_score"`
}
