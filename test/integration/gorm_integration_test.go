package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/specification"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ProductRepository())
	assert.NotNil(t, uow.SupportDocRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check Product Repository", func(t *testing.T) {
		count, err := uow.ProductRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Product count: %d", count)
	})

	t.Run("Check Support Doc Repository", func(t *testing.T) {
		count, err := uow.SupportDocRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("SupportDoc count: %d", count)
	})

	t.Run("Check Transactional Product Create", func(t *testing.T) {
		ctx := context.Background()
		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		productId := uuid.New()
		product := &entity.Product{
			Id:          productId,
			Title:       "Integration Test Phone " + uuid.New().String(),
			Description: "Created by the gorm integration test, rolled back afterwards.",
			Category:    "smartphones",
			Brand:       "TestBrand",
			Price:       199.99,
			Rating:      4.2,
			Stock:       3,
			Tags:        []string{"integration", "test"},
		}

		err = uow.ProductRepository().Create(ctx, product)
		assert.NoError(t, err)

		found, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: productId})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, product.Title, found.Title)
			assert.Equal(t, product.Brand, found.Brand)
		}

		categories, err := uow.ProductRepository().DistinctCategories(ctx)
		assert.NoError(t, err)
		assert.Contains(t, categories, "smartphones")

		// Rollback via defer keeps the test data out of the table.
		t.Log("Successfully created and read back Product inside a transaction")
	})
}
