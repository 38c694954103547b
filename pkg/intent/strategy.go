package intent

import "context"

// Strategy is one way of producing a base classification. Strategies that
// fail return an error and the classifier moves down the chain; the
// keyword strategy never fails.
type Strategy interface {
	Classify(ctx context.Context, message, conversationContext string) (*Result, error)
}

// Vocabulary exposes the catalog's closed category and brand sets. Both
// degrade to empty slices when the catalog is unreachable.
type Vocabulary interface {
	Categories(ctx context.Context) []string
	Brands(ctx context.Context) []string
}
