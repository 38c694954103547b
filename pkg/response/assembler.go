// Package response turns resolved products into chat replies. Every
// reply has an LLM-written variant and a deterministic fallback so the
// bot keeps talking when no model is reachable.
package response

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ecommerce-chatbot-be/pkg/catalog"
	"ecommerce-chatbot-be/pkg/llm"
)

type Assembler struct {
	provider llm.LLMProvider
	logger   *log.Logger
}

func NewAssembler(provider llm.LLMProvider, logger *log.Logger) *Assembler {
	return &Assembler{provider: provider, logger: logger}
}

// generate runs the prompt and falls back to the canned reply on any
// provider failure or empty output.
func (a *Assembler) generate(ctx context.Context, prompt, fallback string) string {
	if a.provider == nil {
		return fallback
	}
	reply, err := a.provider.Generate(ctx, prompt)
	if err != nil {
		a.logger.Printf("[RESPONSE] Generation failed, using fallback: %v", err)
		return fallback
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		return fallback
	}
	return reply
}

// Search summarizes a non-empty result set.
func (a *Assembler) Search(ctx context.Context, message string, products []catalog.Product, keyTerms []string, isFollowup bool, conversationContext string) string {
	names := make([]string, 0, len(products))
	minPrice, maxPrice := products[0].Price, products[0].Price
	for _, p := range products {
		names = append(names, p.Title)
		if p.Price < minPrice {
			minPrice = p.Price
		}
		if p.Price > maxPrice {
			maxPrice = p.Price
		}
	}

	contextInfo := ""
	if strings.TrimSpace(conversationContext) != "" {
		contextInfo = fmt.Sprintf("Previous context: %s\n", conversationContext)
	}
	followupNote := ""
	if isFollowup {
		followupNote = "This seems like a follow-up to our conversation."
	}

	prompt := fmt.Sprintf(`You're a helpful shopping assistant. Respond naturally and conversationally.

%sUser asked: "%s"
%s

I found these products: %s
Price range: $%.0f-$%.0f

Respond like a knowledgeable human assistant would - contextual, helpful, not overly excited.
Keep it 1-2 sentences. Be natural and conversational, referencing what they asked for specifically.
Avoid generic enthusiasm. Sound professional but approachable.`,
		contextInfo, message, followupNote, strings.Join(names, ", "), minPrice, maxPrice)

	subject := "product"
	if len(keyTerms) > 0 {
		subject = strings.Join(keyTerms, " ")
	}
	fallback := fmt.Sprintf("I found some good %s options for you. Take a look at these.", subject)
	if isFollowup {
		fallback = fmt.Sprintf("Here are some more %s options. These should work well for what you're looking for.", subject)
	}

	return a.generate(ctx, prompt, fallback)
}

// NoResults acknowledges an empty search.
func (a *Assembler) NoResults(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(`You're a helpful shopping assistant. The user searched for "%s" but I found no matching products.

Respond naturally like a human assistant would when they can't find something. Keep it brief (1 sentence), acknowledge what they searched for, and suggest an alternative approach. Be helpful but not overly apologetic.`, message)

	fallback := fmt.Sprintf("I couldn't find any '%s' right now. Try a different search term or let me know what specifically you're looking for.", message)
	return a.generate(ctx, prompt, fallback)
}

// FollowUpDetail renders the single-product detail reply. Deterministic:
// the product facts are the message.
func (a *Assembler) FollowUpDetail(p *catalog.Product) string {
	description := p.Description
	if description == "" {
		description = "No description available."
	}
	return fmt.Sprintf("The %s is priced at $%.2f with a %.1f/5 rating. %s", p.Title, p.Price, p.Rating, description)
}

// Recommendation introduces a featured-products reply.
func (a *Assembler) Recommendation(ctx context.Context, message, conversationContext string) string {
	contextInfo := ""
	if strings.TrimSpace(conversationContext) != "" {
		contextInfo = fmt.Sprintf("Previous conversation context: %s\n", conversationContext)
	}

	prompt := fmt.Sprintf(`You're a helpful shopping assistant. The user asked: "%s"

%s
I have some good product recommendations to show them. Respond naturally in 1-2 sentences like a human assistant would when giving recommendations. Be helpful and conversational, not overly enthusiastic.`, message, contextInfo)

	return a.generate(ctx, prompt, "Here are some popular products I'd recommend. These are well-rated and good value.")
}

// Cart explains the missing cart feature set.
func (a *Assembler) Cart(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(`You're a helpful shopping assistant. The user asked about cart functionality: "%s"

I don't currently have full cart management features available. Respond naturally in 1-2 sentences explaining this limitation while offering to help them find products instead. Be helpful and straightforward, not overly apologetic.`, message)

	return a.generate(ctx, prompt, "I don't have full cart features yet, but I can help you find products. What are you looking for?")
}

// Greeting answers social turns.
func (a *Assembler) Greeting(ctx context.Context, message string) string {
	prompt := fmt.Sprintf(`You're a friendly shopping assistant. The user greeted you: "%s"

Respond with a short, warm greeting in 1 sentence and offer to help them find products. Be natural, not salesy.`, message)

	return a.generate(ctx, prompt, "Hi! I can help you find products, compare options, or answer questions about orders. What are you looking for?")
}
