package session

import (
	"context"
	"fmt"
	"strings"
)

// Store persists conversation buffers and search context. Implementations
// are best-effort: the chat pipeline treats every error as "no memory"
// and keeps answering.
type Store interface {
	// GetContext returns the search context for a session, or an empty
	// context when none exists.
	GetContext(ctx context.Context, sessionID string) (Context, error)

	// SaveContext stores the search context, refreshing the session TTL.
	SaveContext(ctx context.Context, sessionID string, sc Context) error

	// AppendExchange pushes one turn onto the rolling buffer, trimming to
	// the configured maximum.
	AppendExchange(ctx context.Context, sessionID string, ex Exchange) error

	// RecentExchanges returns up to n most recent turns, oldest first.
	RecentExchanges(ctx context.Context, sessionID string, n int) ([]Exchange, error)

	// Clear drops all state for a session.
	Clear(ctx context.Context, sessionID string) error
}

// ContextString renders recent turns as the plain transcript block fed to
// LLM prompts.
func ContextString(ctx context.Context, store Store, sessionID string, n int) string {
	exchanges, err := store.RecentExchanges(ctx, sessionID, n)
	if err != nil || len(exchanges) == 0 {
		return ""
	}
	var b strings.Builder
	for _, ex := range exchanges {
		fmt.Fprintf(&b, "User: %s\n", ex.User)
		fmt.Fprintf(&b, "Bot: %s\n", ex.Bot)
	}
	return strings.TrimRight(b.String(), "\n")
}

// RecentIntent returns the intent of the latest turn, if any.
func RecentIntent(ctx context.Context, store Store, sessionID string) string {
	exchanges, err := store.RecentExchanges(ctx, sessionID, 1)
	if err != nil || len(exchanges) == 0 {
		return ""
	}
	return exchanges[len(exchanges)-1].Intent
}
