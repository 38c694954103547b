package mapper

import (
	"encoding/json"
	"time"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/model"
	"ecommerce-chatbot-be/pkg/catalog"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProductMapper struct{}

func NewProductMapper() *ProductMapper {
	return &ProductMapper{}
}

func (m *ProductMapper) ToEntity(e *model.Product) *entity.Product {
	if e == nil {
		return nil
	}

	var deletedAt *time.Time
	if e.DeletedAt.Valid {
		t := e.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !e.UpdatedAt.IsZero() {
		t := e.UpdatedAt
		updatedAt = &t
	}

	var tags []string
	if len(e.Tags) > 0 {
		// Tags column is a JSON string array; a decode failure leaves tags empty.
		_ = json.Unmarshal(e.Tags, &tags)
	}

	return &entity.Product{
		Id:              e.Id,
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		Brand:           e.Brand,
		Price:           e.Price,
		OriginalPrice:   e.OriginalPrice,
		Rating:          e.Rating,
		Stock:           e.Stock,
		DiscountPercent: e.DiscountPercent,
		Tags:            tags,
		Thumbnail:       e.Thumbnail,
		EmbeddingValue:  e.EmbeddingValue.Slice(),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
		IsDeleted:       e.DeletedAt.Valid,
	}
}

func (m *ProductMapper) ToModel(e *entity.Product) *model.Product {
	if e == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if e.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *e.DeletedAt, Valid: true}
	} else if e.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if e.UpdatedAt != nil {
		updatedAt = *e.UpdatedAt
	}

	var tags datatypes.JSON
	if len(e.Tags) > 0 {
		raw, err := json.Marshal(e.Tags)
		if err == nil {
			tags = datatypes.JSON(raw)
		}
	}

	return &model.Product{
		Id:              e.Id,
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		Brand:           e.Brand,
		Price:           e.Price,
		OriginalPrice:   e.OriginalPrice,
		Rating:          e.Rating,
		Stock:           e.Stock,
		DiscountPercent: e.DiscountPercent,
		Tags:            tags,
		Thumbnail:       e.Thumbnail,
		EmbeddingValue:  pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       updatedAt,
		DeletedAt:       deletedAt,
	}
}

func (m *ProductMapper) ToEntities(products []*model.Product) []*entity.Product {
	entities := make([]*entity.Product, len(products))
	for i, e := range products {
		entities[i] = m.ToEntity(e)
	}
	return entities
}

// ToCatalog converts a stored product into the shape the search and
// dialogue packages work with. Similarity is attached by the caller when
// the row came from a vector query.
func (m *ProductMapper) ToCatalog(e *entity.Product, similarity float64) catalog.Product {
	return catalog.Product{
		ID:                 e.Id.String(),
		Title:              e.Title,
		Description:        e.Description,
		Category:           e.Category,
		Brand:              e.Brand,
		Price:              e.Price,
		OriginalPrice:      e.OriginalPrice,
		Rating:             e.Rating,
		Stock:              e.Stock,
		DiscountPercentage: catalog.DeriveDiscount(e.Price, e.OriginalPrice, e.DiscountPercent),
		Tags:               e.Tags,
		Thumbnail:          e.Thumbnail,
		SimilarityScore:    similarity,
	}
}
