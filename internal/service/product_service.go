package service

import (
	"context"
	"fmt"

	"ecommerce-chatbot-be/internal/dto"
	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/specification"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/embedding"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IProductService interface {
	List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error)
	SemanticSearch(ctx context.Context, query string, limit int) ([]dto.SemanticSearchProductResponse, error)
	Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
}

type productService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
}

func NewProductService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
) IProductService {
	return &productService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
	}
}

func (s *productService) List(ctx context.Context, req *dto.ListProductsRequest) (*dto.ListProductsResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var specs []specification.Specification
	if req.Category != "" {
		specs = append(specs, specification.ByCategory{Category: req.Category})
	}
	if req.Brand != "" {
		specs = append(specs, specification.ByBrand{Brand: req.Brand})
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	total, err := uow.ProductRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(specs,
		specification.OrderBy{Field: "rating", Desc: true},
		specification.Pagination{Limit: limit, Offset: req.Offset},
	)
	entities, err := uow.ProductRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	products := make([]dto.ProductResponse, len(entities))
	for i, e := range entities {
		products[i] = toProductResponse(e)
	}

	return &dto.ListProductsResponse{
		Products: products,
		Total:    total,
	}, nil
}

func (s *productService) Show(ctx context.Context, id uuid.UUID) (*dto.ProductResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
	}

	res := toProductResponse(product)
	return &res, nil
}

func (s *productService) SemanticSearch(ctx context.Context, query string, limit int) ([]dto.SemanticSearchProductResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	embRes, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.ProductRepository().SearchSimilarWithScore(ctx, embRes.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	results := make([]dto.SemanticSearchProductResponse, len(scored))
	for i, sc := range scored {
		results[i] = dto.SemanticSearchProductResponse{
			ProductResponse: toProductResponse(sc.Product),
			RelevanceScore:  sc.Similarity,
		}
	}
	return results, nil
}

// Create stores the product and queues it for background embedding.
func (s *productService) Create(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error) {
	product := &entity.Product{
		Title:           req.Title,
		Description:     req.Description,
		Category:        req.Category,
		Brand:           req.Brand,
		Price:           req.Price,
		OriginalPrice:   req.OriginalPrice,
		Rating:          req.Rating,
		Stock:           req.Stock,
		DiscountPercent: catalog.DeriveDiscount(req.Price, req.OriginalPrice, req.DiscountPercentage),
		Tags:            req.Tags,
		Thumbnail:       req.Thumbnail,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ProductRepository().Create(ctx, product); err != nil {
		return nil, err
	}
	if err := s.publisherService.PublishProductIndex(ctx, product.Id); err != nil {
		return nil, err
	}

	res := toProductResponse(product)
	return &res, nil
}

func toProductResponse(e *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{
		Id:                 e.Id,
		Title:              e.Title,
		Description:        e.Description,
		Category:           e.Category,
		Brand:              e.Brand,
		Price:              e.Price,
		OriginalPrice:      e.OriginalPrice,
		Rating:             e.Rating,
		Stock:              e.Stock,
		DiscountPercentage: e.DiscountPercent,
		Tags:               e.Tags,
		Thumbnail:          e.Thumbnail,
		CreatedAt:          e.CreatedAt,
		UpdatedAt:          e.UpdatedAt,
	}
}
