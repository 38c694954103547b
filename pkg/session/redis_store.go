package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	conversationPrefix = "conv:"
	contextPrefix      = "ctx:"
	activityPrefix     = "act:"

	sessionTTL   = 24 * time.Hour
	maxExchanges = 6
)

// RedisStore keeps session state in Redis so conversations survive
// process restarts. TTL-based expiry replaces explicit cleanup.
type RedisStore struct {
	client *redis.Client
}

var _ Store = &RedisStore{}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) GetContext(ctx context.Context, sessionID string) (Context, error) {
	raw, err := s.client.Get(ctx, contextPrefix+sessionID).Result()
	if err == redis.Nil {
		return Context{}, nil
	}
	if err != nil {
		return Context{}, fmt.Errorf("get context: %w", err)
	}

	var sc Context
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return Context{}, fmt.Errorf("decode context: %w", err)
	}
	return sc, nil
}

func (s *RedisStore) SaveContext(ctx context.Context, sessionID string, sc Context) error {
	raw, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode context: %w", err)
	}
	if err := s.client.Set(ctx, contextPrefix+sessionID, raw, sessionTTL).Err(); err != nil {
		return fmt.Errorf("save context: %w", err)
	}
	return s.touch(ctx, sessionID)
}

func (s *RedisStore) AppendExchange(ctx context.Context, sessionID string, ex Exchange) error {
	raw, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("encode exchange: %w", err)
	}

	key := conversationPrefix + sessionID
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, raw)
	pipe.LTrim(ctx, key, -maxExchanges, -1)
	pipe.Expire(ctx, key, sessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append exchange: %w", err)
	}
	return s.touch(ctx, sessionID)
}

func (s *RedisStore) RecentExchanges(ctx context.Context, sessionID string, n int) ([]Exchange, error) {
	if n <= 0 || n > maxExchanges {
		n = maxExchanges
	}
	raw, err := s.client.LRange(ctx, conversationPrefix+sessionID, int64(-n), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("read exchanges: %w", err)
	}

	exchanges := make([]Exchange, 0, len(raw))
	for _, item := range raw {
		var ex Exchange
		if err := json.Unmarshal([]byte(item), &ex); err != nil {
			continue
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}

func (s *RedisStore) Clear(ctx context.Context, sessionID string) error {
	keys := []string{
		conversationPrefix + sessionID,
		contextPrefix + sessionID,
		activityPrefix + sessionID,
	}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *RedisStore) touch(ctx context.Context, sessionID string) error {
	now := time.Now().Format(time.RFC3339)
	return s.client.Set(ctx, activityPrefix+sessionID, now, sessionTTL).Err()
}
