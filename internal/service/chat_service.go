package service

import (
	"context"
	"time"

	"ecommerce-chatbot-be/internal/dto"
	"ecommerce-chatbot-be/internal/pkg/logger"
	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/compare"
	"ecommerce-chatbot-be/pkg/engine"
	"ecommerce-chatbot-be/pkg/intent"
	"ecommerce-chatbot-be/pkg/response"
	"ecommerce-chatbot-be/pkg/session"
	"ecommerce-chatbot-be/pkg/support"

	"github.com/google/uuid"
)

// Exchanges of history injected into classification and response prompts.
const contextWindow = 5

// Featured products surfaced for a recommendation turn.
const recommendationLimit = 3

type IChatService interface {
	Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error)
	ResetSession(ctx context.Context, sessionId string) error
}

// chatService routes a classified message to the matching handler and
// keeps the per-session exchange history up to date.
type chatService struct {
	classifier *intent.Classifier
	engine     *engine.Engine
	assembler  *response.Assembler
	supportRAG *support.Responder
	sessions   session.Store
	logger     logger.ILogger
}

func NewChatService(
	classifier *intent.Classifier,
	searchEngine *engine.Engine,
	assembler *response.Assembler,
	supportRAG *support.Responder,
	sessions session.Store,
	sysLogger logger.ILogger,
) IChatService {
	return &chatService{
		classifier: classifier,
		engine:     searchEngine,
		assembler:  assembler,
		supportRAG: supportRAG,
		sessions:   sessions,
		logger:     sysLogger,
	}
}

func (s *chatService) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	sessionId := req.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	conversationContext := session.ContextString(ctx, s.sessions, sessionId, contextWindow)

	res := s.classifier.Classify(ctx, req.Message, conversationContext)

	s.logger.Info("chat", "Classified message", map[string]interface{}{
		"session_id": sessionId,
		"intent":     string(res.Intent),
		"source":     res.Source,
		"confidence": res.Confidence,
	})

	out := &dto.ChatResponse{
		SessionId: sessionId,
		Intent:    string(res.Intent),
	}

	switch res.Intent {
	case intent.IntentGreeting:
		out.Response = s.assembler.Greeting(ctx, req.Message)

	case intent.IntentCart:
		out.Response = s.assembler.Cart(ctx, req.Message)

	case intent.IntentSupport:
		out.Response = s.supportRAG.Answer(ctx, req.Message)

	case intent.IntentRecommendation:
		s.handleRecommendation(ctx, req.Message, conversationContext, res, out)

	case intent.IntentCompare:
		s.handleCompare(ctx, req.Message, sessionId, out)

	default: // SEARCH and anything unrecognized
		s.handleSearch(ctx, req.Message, conversationContext, res, sessionId, out)
	}

	s.appendExchange(ctx, sessionId, req.Message, out.Response, string(res.Intent))

	return out, nil
}

func (s *chatService) ResetSession(ctx context.Context, sessionId string) error {
	return s.sessions.Clear(ctx, sessionId)
}

func (s *chatService) handleSearch(ctx context.Context, message, conversationContext string, res *intent.Result, sessionId string, out *dto.ChatResponse) {
	outcome := s.engine.Search(ctx, message, res, sessionId)

	if outcome.FollowUpItem != nil {
		out.Response = s.assembler.FollowUpDetail(outcome.FollowUpItem)
		out.Products = []dto.ProductSummary{toProductSummary(*outcome.FollowUpItem)}
		return
	}

	if len(outcome.Products) == 0 {
		out.Response = s.assembler.NoResults(ctx, message)
		out.Suggestions = outcome.Suggestions
		return
	}

	out.Response = s.assembler.Search(ctx, message, outcome.Products, res.KeyTerms, res.IsFollowup, conversationContext)
	out.Products = toProductSummaries(outcome.Products)
}

func (s *chatService) handleRecommendation(ctx context.Context, message, conversationContext string, res *intent.Result, out *dto.ChatResponse) {
	// Recommendations surface featured products: rating-sorted with a
	// price tiebreak, narrowed by explicit filters like "under $500".
	products := s.engine.Featured(ctx, res, recommendationLimit)

	out.Response = s.assembler.Recommendation(ctx, message, conversationContext)
	if len(products) > 0 {
		out.Products = toProductSummaries(products)
	}
}

func (s *chatService) handleCompare(ctx context.Context, message, sessionId string, out *dto.ChatResponse) {
	sc, err := s.sessions.GetContext(ctx, sessionId)
	if err != nil {
		s.logger.Warn("chat", "Session read failed for compare", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}

	pair, err := compare.Resolve(message, sc.LastResults)
	if err != nil {
		out.Response = "I need two products to compare. Search for something first, then ask me to compare the results (for example \"compare the first and the second\")."
		return
	}

	out.Response = compare.Summary(pair)
	out.Products = []dto.ProductSummary{
		toProductSummary(pair.Left),
		toProductSummary(pair.Right),
	}
}

// appendExchange is best-effort: a history write failure degrades future
// context, it never fails the reply.
func (s *chatService) appendExchange(ctx context.Context, sessionId, userMsg, botMsg, intentName string) {
	err := s.sessions.AppendExchange(ctx, sessionId, session.Exchange{
		User:      userMsg,
		Bot:       botMsg,
		Intent:    intentName,
		Timestamp: time.Now(),
	})
	if err != nil {
		s.logger.Warn("chat", "Failed to append exchange", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
	}
}

func toProductSummary(p catalog.Product) dto.ProductSummary {
	return dto.ProductSummary{
		Id:                 p.ID,
		Title:              p.Title,
		Category:           p.Category,
		Brand:              p.Brand,
		Price:              p.Price,
		OriginalPrice:      p.OriginalPrice,
		Rating:             p.Rating,
		Stock:              p.Stock,
		DiscountPercentage: p.DiscountPercentage,
		Tags:               p.Tags,
		Thumbnail:          p.Thumbnail,
	}
}

func toProductSummaries(products []catalog.Product) []dto.ProductSummary {
	summaries := make([]dto.ProductSummary, len(products))
	for i, p := range products {
		summaries[i] = toProductSummary(p)
	}
	return summaries
}
