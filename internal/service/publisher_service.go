package service

import (
	"context"
	"encoding/json"

	"ecommerce-chatbot-be/internal/dto"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IPublisherService interface {
	PublishProductIndex(ctx context.Context, productId uuid.UUID) error
	PublishSupportDocIndex(ctx context.Context, docId uuid.UUID) error
}

type publisherService struct {
	topicName string
	pubSub    *gochannel.GoChannel
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		topicName: topicName,
		pubSub:    pubSub,
	}
}

func (ps *publisherService) PublishProductIndex(ctx context.Context, productId uuid.UUID) error {
	return ps.publish(dto.PublishIndexMessage{
		Kind: dto.IndexKindProduct,
		Id:   productId,
	})
}

func (ps *publisherService) PublishSupportDocIndex(ctx context.Context, docId uuid.UUID) error {
	return ps.publish(dto.PublishIndexMessage{
		Kind: dto.IndexKindSupportDoc,
		Id:   docId,
	})
}

func (ps *publisherService) publish(payload dto.PublishIndexMessage) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg := message.NewMessage(watermill.NewUUID(), raw)
	return ps.pubSub.Publish(ps.topicName, msg)
}
