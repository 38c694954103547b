package service

import (
	"context"
	"fmt"

	"ecommerce-chatbot-be/internal/mapper"
	"ecommerce-chatbot-be/internal/repository/unitofwork"
	"ecommerce-chatbot-be/pkg/embedding"
	"ecommerce-chatbot-be/pkg/support"
)

// SupportDocSearcher retrieves support knowledge-base entries from the
// pgvector table. Implements support.DocSearcher.
type SupportDocSearcher struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	mapper            *mapper.SupportDocMapper
}

func NewSupportDocSearcher(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) *SupportDocSearcher {
	return &SupportDocSearcher{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		mapper:            mapper.NewSupportDocMapper(),
	}
}

var _ support.DocSearcher = &SupportDocSearcher{}

func (s *SupportDocSearcher) SearchDocs(ctx context.Context, query string, topK int) ([]support.Doc, error) {
	res, err := s.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("failed to embed support query: %w", err)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	scored, err := uow.SupportDocRepository().SearchSimilarWithScore(ctx, res.Embedding.Values, topK)
	if err != nil {
		return nil, err
	}

	docs := make([]support.Doc, 0, len(scored))
	for _, sc := range scored {
		docs = append(docs, s.mapper.ToRetrieval(sc.Doc, sc.Similarity))
	}
	return docs, nil
}
