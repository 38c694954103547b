// Package support answers policy questions (returns, shipping, warranty)
// by retrieval-augmented generation over a support knowledge base, with
// keyword-matched canned answers when retrieval or the model is down.
package support

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ecommerce-chatbot-be/pkg/llm"
)

// Doc is one retrievable knowledge-base entry.
type Doc struct {
	ID      string
	Topic   string
	Content string
	Score   float64
}

// DocSearcher retrieves the support documents most relevant to a query.
type DocSearcher interface {
	SearchDocs(ctx context.Context, query string, topK int) ([]Doc, error)
}

const retrievalTopK = 3

type Responder struct {
	searcher DocSearcher
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewResponder(searcher DocSearcher, provider llm.LLMProvider, logger *log.Logger) *Responder {
	return &Responder{searcher: searcher, provider: provider, logger: logger}
}

// Answer handles one support question. Any retrieval or generation
// failure degrades to the keyword fallback, never an error.
func (r *Responder) Answer(ctx context.Context, message string) string {
	if r.searcher == nil {
		return fallbackAnswer(message)
	}

	docs, err := r.searcher.SearchDocs(ctx, message, retrievalTopK)
	if err != nil {
		r.logger.Printf("[SUPPORT] Retrieval failed: %v", err)
		return fallbackAnswer(message)
	}
	if len(docs) == 0 {
		return fallbackAnswer(message)
	}

	var contextParts []string
	for _, d := range docs {
		contextParts = append(contextParts, "- "+d.Content)
	}
	contextText := strings.Join(contextParts, "\n")

	if r.provider == nil {
		return "Based on our policies: " + docs[0].Content
	}

	prompt := fmt.Sprintf(`You are a helpful customer service assistant. Answer the customer's question based on the support information provided.

Support Information:
%s

Customer Question: %s

Instructions:
- Provide a helpful, specific answer based on the support information above
- Be natural and conversational
- If the information doesn't fully answer the question, say what you can help with
- Keep your response concise but complete

Answer:`, contextText, message)

	reply, err := r.provider.Generate(ctx, prompt)
	if err != nil {
		r.logger.Printf("[SUPPORT] Generation failed: %v", err)
		return "Based on our policies: " + docs[0].Content
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return "Based on our policies: " + docs[0].Content
	}
	return reply
}

// fallbackAnswer is keyword routing over the common support topics.
func fallbackAnswer(message string) string {
	lower := strings.ToLower(message)

	switch {
	case containsAny(lower, []string{"return", "refund", "send back"}):
		return "Our return policies vary by product. Most items can be returned within 15-90 days in original condition. Please check the specific return policy for your item or contact customer service for assistance."
	case containsAny(lower, []string{"shipping", "delivery", "ship"}):
		return "Shipping times vary by product and location. Most items ship within 1-3 business days with standard delivery in 3-7 days. Express and overnight options are available for many products."
	case containsAny(lower, []string{"warranty", "guarantee"}):
		return "Products come with manufacturer warranties that vary by brand and product type. Extended warranties may be available for electronics and other items."
	case containsAny(lower, []string{"defective", "broken", "damaged", "problem"}):
		return "If you received a defective item, please contact our customer service team immediately. We'll arrange for a replacement or refund at no cost to you."
	default:
		return "I'm here to help with your questions. Please contact our customer service team for specific assistance with orders, returns, shipping, or product issues."
	}
}

func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}
