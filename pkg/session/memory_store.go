package session

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

// MemoryStore is the single-process fallback used when Redis is not
// configured (local development, tests). Same TTL semantics, no
// persistence across restarts.
type MemoryStore struct {
	cache *cache.Cache
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		cache: cache.New(sessionTTL, 10*time.Minute),
	}
}

func (s *MemoryStore) GetContext(ctx context.Context, sessionID string) (Context, error) {
	if x, found := s.cache.Get(contextPrefix + sessionID); found {
		return x.(Context), nil
	}
	return Context{}, nil
}

func (s *MemoryStore) SaveContext(ctx context.Context, sessionID string, sc Context) error {
	s.cache.Set(contextPrefix+sessionID, sc, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) AppendExchange(ctx context.Context, sessionID string, ex Exchange) error {
	key := conversationPrefix + sessionID
	var exchanges []Exchange
	if x, found := s.cache.Get(key); found {
		exchanges = x.([]Exchange)
	}
	exchanges = append(exchanges, ex)
	if len(exchanges) > maxExchanges {
		exchanges = exchanges[len(exchanges)-maxExchanges:]
	}
	s.cache.Set(key, exchanges, cache.DefaultExpiration)
	return nil
}

func (s *MemoryStore) RecentExchanges(ctx context.Context, sessionID string, n int) ([]Exchange, error) {
	if n <= 0 || n > maxExchanges {
		n = maxExchanges
	}
	x, found := s.cache.Get(conversationPrefix + sessionID)
	if !found {
		return nil, nil
	}
	exchanges := x.([]Exchange)
	if len(exchanges) > n {
		exchanges = exchanges[len(exchanges)-n:]
	}
	out := make([]Exchange, len(exchanges))
	copy(out, exchanges)
	return out, nil
}

func (s *MemoryStore) Clear(ctx context.Context, sessionID string) error {
	s.cache.Delete(conversationPrefix + sessionID)
	s.cache.Delete(contextPrefix + sessionID)
	s.cache.Delete(activityPrefix + sessionID)
	return nil
}
