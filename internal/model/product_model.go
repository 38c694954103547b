package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	Id              uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title           string          `gorm:"type:varchar(255);not null"`
	Description     string          `gorm:"type:text"`
	Category        string          `gorm:"type:varchar(100);index"`
	Brand           string          `gorm:"type:varchar(100);index"`
	Price           float64         `gorm:"type:numeric(12,2);not null"`
	OriginalPrice   float64         `gorm:"type:numeric(12,2)"`
	Rating          float64         `gorm:"type:numeric(3,1);index"`
	Stock           int             `gorm:"default:0"`
	DiscountPercent float64         `gorm:"type:numeric(5,2)"`
	Tags            datatypes.JSON  `gorm:"type:jsonb"`
	Thumbnail       string          `gorm:"type:text"`
	EmbeddingValue  pgvector.Vector `gorm:"type:vector(768)"` // nomic-embed-text and text-embedding-004 both use 768 dims
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt  `gorm:"index"`
}

func (Product) TableName() string {
	return "products"
}
