package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"bloodhelp-bot/pkg"
)

// DefaultTTL ages out conversations that were started and abandoned.
const DefaultTTL = 24 * time.Hour

// RedisStore keeps conversation state in Redis so it survives process
// restarts. Each state is one JSON value under a per-conversant key
// with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore wraps an existing Redis client. A non-positive ttl
// falls back to DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, conversantID string) (*pkg.ConversationState, error) {
	data, err := s.client.Get(ctx, sessionKey(conversantID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("session: failed to load state: %w", err)
	}
	var state pkg.ConversationState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("session: failed to decode state: %w", err)
	}
	return &state, nil
}

func (s *RedisStore) Put(ctx context.Context, state *pkg.ConversationState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("session: failed to marshal state: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(state.ConversantID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: failed to persist state: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, conversantID string) error {
	if err := s.client.Del(ctx, sessionKey(conversantID)).Err(); err != nil {
		return fmt.Errorf("session: failed to delete state: %w", err)
	}
	return nil
}

func sessionKey(conversantID string) string {
	return fmt.Sprintf("conversation:%s", conversantID)
}
