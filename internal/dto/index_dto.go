package dto

import "github.com/google/uuid"

// PublishIndexMessage is the payload published on the catalog index topic.
// Kind selects which table the consumer re-embeds.
type PublishIndexMessage struct {
	Kind string    `json:"kind"` // "product" or "support_doc"
	Id   uuid.UUID `json:"id"`
}

const (
	IndexKindProduct    = "product"
	IndexKindSupportDoc = "support_doc"
)
