package implementation

import (
	"context"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/mapper"
	"ecommerce-chatbot-be/internal/model"
	"ecommerce-chatbot-be/internal/repository/contract"
	"ecommerce-chatbot-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SupportDocRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SupportDocMapper
}

func NewSupportDocRepository(db *gorm.DB) contract.SupportDocRepository {
	return &SupportDocRepositoryImpl{
		db:     db,
		mapper: mapper.NewSupportDocMapper(),
	}
}

func (r *SupportDocRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SupportDocRepositoryImpl) Create(ctx context.Context, doc *entity.SupportDoc) error {
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *SupportDocRepositoryImpl) CreateBulk(ctx context.Context, docs []*entity.SupportDoc) error {
	models := make([]*model.SupportDoc, len(docs))
	for i, e := range docs {
		models[i] = r.mapper.ToModel(e)
	}

	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}

	for i, m := range models {
		*docs[i] = *r.mapper.ToEntity(m)
	}
	return nil
}

func (r *SupportDocRepositoryImpl) UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	return r.db.WithContext(ctx).
		Model(&model.SupportDoc{}).
		Where("id = ?", id).
		Update("embedding_value", pgvector.NewVector(embedding)).Error
}

func (r *SupportDocRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SupportDoc, error) {
	var models []*model.SupportDoc
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.SupportDoc, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SupportDocRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	err := query.Model(&model.SupportDoc{}).Count(&count).Error
	return count, err
}

func (r *SupportDocRepositoryImpl) SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*contract.ScoredSupportDoc, error) {
	if limit <= 0 {
		limit = 3
	}

	type result struct {
		model.SupportDoc
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("support_docs").
		Select("support_docs.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("embedding_value IS NOT NULL").
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredSupportDoc, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredSupportDoc{
			Doc:        r.mapper.ToEntity(&res.SupportDoc),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}
