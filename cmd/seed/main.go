package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"ecommerce-chatbot-be/internal/config"
	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/implementation"
	"ecommerce-chatbot-be/pkg/database"
	"ecommerce-chatbot-be/pkg/embedding"
	"ecommerce-chatbot-be/pkg/embedding/jina"

	"github.com/fatih/color"
	"gorm.io/gorm"
)

type seedProduct struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Category           string   `json:"category"`
	Brand              string   `json:"brand"`
	Price              float64  `json:"price"`
	OriginalPrice      float64  `json:"originalPrice"`
	Rating             float64  `json:"rating"`
	Stock              int      `json:"stock"`
	DiscountPercentage float64  `json:"discountPercentage"`
	Tags               []string `json:"tags"`
	Thumbnail          string   `json:"thumbnail"`
}

type seedDoc struct {
	Topic   string `json:"topic"`
	Content string `json:"content"`
}

var defaultSupportDocs = []seedDoc{
	{
		Topic:   "returns",
		Content: "Our return policy allows returns within 30 days of purchase. Items must be in original condition with all packaging. Refunds are processed within 5-7 business days after we receive the item. To start a return, visit your order history and select the item you wish to return.",
	},
	{
		Topic:   "shipping",
		Content: "We offer free standard shipping on orders over $50. Standard shipping takes 3-5 business days. Express shipping (1-2 business days) is available for an additional fee. Order tracking is provided by email once your package ships.",
	},
	{
		Topic:   "warranty",
		Content: "All electronics come with a minimum 1-year manufacturer warranty covering defects in materials and workmanship. Extended warranty plans of up to 3 years can be purchased at checkout. Warranty claims require proof of purchase.",
	},
	{
		Topic:   "defective items",
		Content: "If you received a defective or damaged item, contact us within 48 hours of delivery. We will arrange a free replacement or a full refund, including shipping. Photos of the damage speed up the claim.",
	},
	{
		Topic:   "payments",
		Content: "We accept major credit and debit cards, PayPal, and bank transfer. Payment is charged when the order ships. Failed payments are retried once before the order is cancelled.",
	},
	{
		Topic:   "orders",
		Content: "Orders can be modified or cancelled within 1 hour of placement from your order history. After that the order enters fulfillment and can no longer be changed, but you can still return it after delivery.",
	},
}

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
)

func main() {
	cfg := config.Load()

	if cfg.Database.Connection == "" {
		log.Fatal(red("Error: DB_CONNECTION_STRING is not set"))
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("%s Failed to connect to database: %v", red("Error:"), err)
	}

	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ctx := context.Background()

	seedProducts(ctx, db, embeddingProvider, cfg.Chat.ProductCatalogPath)
	seedSupportDocs(ctx, db, embeddingProvider, cfg.Chat.SupportDocsPath)

	log.Println(green("✅ Seeding complete"))
}

func seedProducts(ctx context.Context, db *gorm.DB, provider embedding.EmbeddingProvider, path string) {
	repo := implementation.NewProductRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("%s Failed to count products: %v", red("Error:"), err)
	}
	if count > 0 {
		log.Printf("%s Products already seeded (%d rows), skipping", yellow("Skip:"), count)
		return
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("%s Failed to read product catalog %s: %v", red("Error:"), path, err)
	}

	var products []seedProduct
	if err := json.Unmarshal(raw, &products); err != nil {
		log.Fatalf("%s Failed to parse product catalog: %v", red("Error:"), err)
	}

	log.Printf("Seeding %d products from %s...", len(products), path)

	for i, sp := range products {
		e := &entity.Product{
			Title:           sp.Title,
			Description:     sp.Description,
			Category:        sp.Category,
			Brand:           sp.Brand,
			Price:           sp.Price,
			OriginalPrice:   sp.OriginalPrice,
			Rating:          sp.Rating,
			Stock:           sp.Stock,
			DiscountPercent: deriveDiscount(sp),
			Tags:            sp.Tags,
			Thumbnail:       sp.Thumbnail,
		}

		res, err := provider.Generate(productDocument(e), "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("%s Product %q stored without embedding: %v", yellow("Warn:"), sp.Title, err)
		} else {
			e.EmbeddingValue = res.Embedding.Values
		}

		if err := repo.Create(ctx, e); err != nil {
			log.Fatalf("%s Failed to insert product %q: %v", red("Error:"), sp.Title, err)
		}

		log.Printf("%s [%d/%d] %s", green("✓"), i+1, len(products), sp.Title)
	}
}

func seedSupportDocs(ctx context.Context, db *gorm.DB, provider embedding.EmbeddingProvider, path string) {
	repo := implementation.NewSupportDocRepository(db)

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("%s Failed to count support docs: %v", red("Error:"), err)
	}
	if count > 0 {
		log.Printf("%s Support docs already seeded (%d rows), skipping", yellow("Skip:"), count)
		return
	}

	docs := loadSupportDocs(path)
	log.Printf("Seeding %d support docs...", len(docs))

	for i, sd := range docs {
		e := &entity.SupportDoc{
			Topic:   sd.Topic,
			Content: sd.Content,
		}

		content := fmt.Sprintf("Topic: %s\n\n%s", sd.Topic, sd.Content)
		res, err := provider.Generate(content, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("%s Support doc %q stored without embedding: %v", yellow("Warn:"), sd.Topic, err)
		} else {
			e.EmbeddingValue = res.Embedding.Values
		}

		if err := repo.Create(ctx, e); err != nil {
			log.Fatalf("%s Failed to insert support doc %q: %v", red("Error:"), sd.Topic, err)
		}

		log.Printf("%s [%d/%d] %s", green("✓"), i+1, len(docs), sd.Topic)
	}
}

// loadSupportDocs reads docs from the configured JSON file, falling back
// to the built-in set when no path is configured or the file is unusable.
func loadSupportDocs(path string) []seedDoc {
	if path == "" {
		return defaultSupportDocs
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("%s Failed to read support docs %s, using built-ins: %v", yellow("Warn:"), path, err)
		return defaultSupportDocs
	}
	var docs []seedDoc
	if err := json.Unmarshal(raw, &docs); err != nil {
		log.Printf("%s Failed to parse support docs %s, using built-ins: %v", yellow("Warn:"), path, err)
		return defaultSupportDocs
	}
	if len(docs) == 0 {
		return defaultSupportDocs
	}
	return docs
}

func deriveDiscount(sp seedProduct) float64 {
	if sp.DiscountPercentage > 0 {
		return sp.DiscountPercentage
	}
	if sp.OriginalPrice > sp.Price && sp.Price > 0 {
		return (sp.OriginalPrice - sp.Price) / sp.OriginalPrice * 100
	}
	return 0
}

func productDocument(e *entity.Product) string {
	var b strings.Builder
	b.WriteString(e.Title)
	b.WriteString("\n")
	b.WriteString(e.Description)
	b.WriteString("\nCategory: ")
	b.WriteString(e.Category)
	b.WriteString("\nBrand: ")
	b.WriteString(e.Brand)
	if len(e.Tags) > 0 {
		b.WriteString("\nTags: ")
		b.WriteString(strings.Join(e.Tags, ", "))
	}
	return b.String()
}
