package bootstrap

import (
	"context"
	"log"

	"ecommerce-chatbot-be/internal/config"
	"ecommerce-chatbot-be/internal/controller"
	"ecommerce-chatbot-be/internal/pkg/logger"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/internal/service"
	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/embedding"
	"ecommerce-chatbot-be/pkg/embedding/jina"
	"ecommerce-chatbot-be/pkg/engine"
	"ecommerce-chatbot-be/pkg/heuristics"
	"ecommerce-chatbot-be/pkg/intent"
	"ecommerce-chatbot-be/pkg/llm"
	"ecommerce-chatbot-be/pkg/llm/factory"
	"ecommerce-chatbot-be/pkg/response"
	"ecommerce-chatbot-be/pkg/session"
	"ecommerce-chatbot-be/pkg/support"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	ChatController    controller.IChatController
	ProductController controller.IProductController

	// Background Services (Exposed for main.go to run)
	IndexerService service.IIndexerService

	// Exposed for seeding and graceful shutdown
	PublisherService service.IPublisherService
	SysLogger        logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	// Initialize Embedding Provider based on Config
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	// Initialize LLM Provider based on Config
	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		apiKeyFor(cfg, cfg.Ai.LLMProvider),
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// Optional fallback chain: primary errors degrade to the secondary
	if cfg.Ai.FallbackProvider != "" {
		secondary, err := factory.NewLLMProvider(
			cfg.Ai.FallbackProvider,
			cfg.Ai.FallbackModel,
			cfg.Ai.OllamaBaseURL,
			apiKeyFor(cfg, cfg.Ai.FallbackProvider),
		)
		if err != nil {
			log.Printf("[WARN] Failed to initialize fallback LLM Provider: %v", err)
		} else {
			llmProvider = llm.NewFallback(llmProvider, secondary)
			log.Printf("[INFO] LLM fallback enabled: %s (%s)", cfg.Ai.FallbackProvider, cfg.Ai.FallbackModel)
		}
	}

	// 4. Session Store (Redis with in-memory option for tests/dev)
	var sessionStore session.Store
	if cfg.Chat.SessionStore == "memory" {
		sessionStore = session.NewMemoryStore()
		log.Printf("[INFO] Using Session Store: MEMORY")
	} else {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			log.Printf("[WARN] Failed to connect to Redis: %v", err)
		}
		sessionStore = session.NewRedisStore(rdb)
		log.Printf("[INFO] Using Session Store: REDIS")
	}

	// 5. Dialogue Pipeline
	heur := heuristics.Load(cfg.Chat.HeuristicsPath, log.Default())

	catalogProvider := service.NewCatalogProvider(uowFactory, embeddingProvider, cfg.Chat.SimilarityCutoff)
	vocabulary := catalog.NewVocabulary(catalogProvider, log.Default())

	// Local scan fallback: when the vector search path errors, the same
	// filter semantics run over the catalog snapshot instead.
	var searchProvider catalog.SearchProvider = catalogProvider
	if snapshot, err := catalog.LoadProducts(cfg.Chat.ProductCatalogPath); err != nil {
		log.Printf("[WARN] No local catalog snapshot, vector search has no fallback: %v", err)
	} else {
		searchProvider = catalog.NewFallbackProvider(catalogProvider, catalog.NewScanner(snapshot), log.Default())
		log.Printf("[INFO] Local catalog fallback enabled: %d products", len(snapshot))
	}

	extractor := intent.NewExtractor(heur, log.Default())
	strategies := []intent.Strategy{
		intent.NewLLMStrategy(llmProvider, vocabulary, log.Default()),
		intent.NewKeywordStrategy(heur, vocabulary, log.Default()),
	}
	classifier := intent.NewClassifier(strategies, extractor, vocabulary, log.Default())

	reranker := engine.NewReranker(cfg.Chat.RerankEnabled)
	searchEngine := engine.New(searchProvider, sessionStore, heur, reranker, log.Default())

	assembler := response.NewAssembler(llmProvider, log.Default())

	supportSearcher := service.NewSupportDocSearcher(uowFactory, embeddingProvider)
	supportRAG := support.NewResponder(supportSearcher, llmProvider, log.Default())

	// 6. Services
	publisherService := service.NewPublisherService(cfg.Keys.IndexTopic, pubSub)
	indexerService := service.NewIndexerService(
		pubSub,
		cfg.Keys.IndexTopic,
		uowFactory,
		embeddingProvider,
	)

	chatService := service.NewChatService(
		classifier,
		searchEngine,
		assembler,
		supportRAG,
		sessionStore,
		sysLogger,
	)
	productService := service.NewProductService(uowFactory, embeddingProvider, publisherService)

	// 7. Controllers
	return &Container{
		ChatController:    controller.NewChatController(chatService),
		ProductController: controller.NewProductController(productService),

		IndexerService:   indexerService,
		PublisherService: publisherService,
		SysLogger:        sysLogger,
	}
}

func apiKeyFor(cfg *config.Config, provider string) string {
	switch provider {
	case "gemini":
		return cfg.Keys.GoogleGemini
	case "huggingface":
		return cfg.Keys.HuggingFace
	default:
		return ""
	}
}
