package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"ecommerce-chatbot-be/internal/dto"
	"ecommerce-chatbot-be/internal/entity"
	"ecommerce-chatbot-be/internal/repository/specification"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IIndexerService interface {
	Consume(ctx context.Context) error
}

// indexerService embeds newly written products and support docs in the
// background so writes stay fast and embedding outages don't block them.
type indexerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewIndexerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IIndexerService {
	return &indexerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (is *indexerService) Consume(ctx context.Context) error {
	messages, err := is.pubSub.Subscribe(ctx, is.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			is.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (is *indexerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishIndexMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal index message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	switch payload.Kind {
	case dto.IndexKindProduct:
		is.indexProduct(ctx, msg, payload)
	case dto.IndexKindSupportDoc:
		is.indexSupportDoc(ctx, msg, payload)
	default:
		log.Printf("[ERROR] Unknown index kind %q for id %s", payload.Kind, payload.Id)
		msg.Ack()
	}
}

func (is *indexerService) indexProduct(ctx context.Context, msg *message.Message, payload dto.PublishIndexMessage) {
	log.Printf("[INFO] Indexing product %s", payload.Id)

	uow := is.uowFactory.NewUnitOfWork(ctx)

	product, err := uow.ProductRepository().FindOne(ctx, specification.ByID{ID: payload.Id})
	if err != nil {
		log.Printf("[ERROR] Failed to get product %s: %v", payload.Id, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if product == nil {
		log.Printf("[ERROR] Product not found: %s", payload.Id)
		msg.Ack() // Deleted since publish? Ack.
		return
	}

	res, err := is.embeddingProvider.Generate(productDocument(product), "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to embed product %s: %v", payload.Id, err)
		msg.Nack()
		return
	}

	if err := uow.ProductRepository().UpdateEmbedding(ctx, product.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store product embedding %s: %v", payload.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}

func (is *indexerService) indexSupportDoc(ctx context.Context, msg *message.Message, payload dto.PublishIndexMessage) {
	log.Printf("[INFO] Indexing support doc %s", payload.Id)

	uow := is.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.SupportDocRepository().FindAll(ctx, specification.ByID{ID: payload.Id})
	if err != nil {
		log.Printf("[ERROR] Failed to get support doc %s: %v", payload.Id, err)
		msg.Nack()
		return
	}
	if len(docs) == 0 {
		log.Printf("[ERROR] Support doc not found: %s", payload.Id)
		msg.Ack()
		return
	}
	doc := docs[0]

	content := fmt.Sprintf("Topic: %s\n\n%s", doc.Topic, doc.Content)
	res, err := is.embeddingProvider.Generate(content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to embed support doc %s: %v", payload.Id, err)
		msg.Nack()
		return
	}

	if err := uow.SupportDocRepository().UpdateEmbedding(ctx, doc.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store support doc embedding %s: %v", payload.Id, err)
		msg.Nack()
		return
	}

	msg.Ack()
}

// productDocument builds the text that stands in for a product in vector
// space. Category, brand and tags are spelled out so "cheap samsung phone"
// style queries land near the right rows.
func productDocument(p *entity.Product) string {
	var b strings.Builder
	b.WriteString(p.Title)
	b.WriteString("\n")
	b.WriteString(p.Description)
	b.WriteString("\nCategory: ")
	b.WriteString(p.Category)
	b.WriteString("\nBrand: ")
	b.WriteString(p.Brand)
	if len(p.Tags) > 0 {
		b.WriteString("\nTags: ")
		b.WriteString(strings.Join(p.Tags, ", "))
	}
	return b.String()
}
