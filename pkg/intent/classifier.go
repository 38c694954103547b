package intent

import (
	"context"
	"log"
)

// Classifier walks the strategy chain and enhances whichever base result
// it gets with the deterministic extractors. The keyword strategy sits
// last so classification always succeeds.
type Classifier struct {
	strategies []Strategy
	extractor  *Extractor
	vocab      Vocabulary
	logger     *log.Logger
}

func NewClassifier(strategies []Strategy, extractor *Extractor, vocab Vocabulary, logger *log.Logger) *Classifier {
	return &Classifier{
		strategies: strategies,
		extractor:  extractor,
		vocab:      vocab,
		logger:     logger,
	}
}

// Classify produces the enhanced classification for one message. The
// enhancement pipeline runs on every path, LLM or fallback, so the
// structured filters never depend on which strategy answered.
func (c *Classifier) Classify(ctx context.Context, message, conversationContext string) *Result {
	var result *Result
	for _, s := range c.strategies {
		r, err := s.Classify(ctx, message, conversationContext)
		if err != nil {
			c.logger.Printf("[INTENT] Strategy failed, trying next: %v", err)
			continue
		}
		result = r
		break
	}
	if result == nil {
		// Unreachable when the keyword strategy terminates the chain,
		// kept for misconfigured chains.
		result = &Result{Intent: IntentSearch, Confidence: 0.5, Source: SourceFallback}
	}

	c.extractor.enhanceWithPrice(message, result)
	c.extractor.enhanceWithFilters(message, result, c.vocab.Brands(ctx))
	c.extractor.enhanceWithRefineHints(message, result)
	return result
}
