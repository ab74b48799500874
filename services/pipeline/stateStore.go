// File: services/pipeline/stateStore.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"

	"time"

	"neira/models"

	"github.com/go-redis/redis/v8"
)

const stateKeyPrefix = "pipelineState:"

// RedisStateStore holds the live state of in-flight pipeline sessions.
// States expire after the TTL; long-term resumption goes through the Mongo
// snapshot repository instead.
type RedisStateStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStateStore(client *redis.Client, ttl time.Duration) *RedisStateStore {
	return &RedisStateStore{client: client, ttl: ttl}
}

// Get loads a session state. A missing key yields ErrSessionNotFound.
func (s *RedisStateStore) Get(ctx context.Context, sessionID string) (*models.PipelineState, error) {
	data, err := s.client.Get(ctx, stateKeyPrefix+sessionID).Result()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pipeline state: %w", err)
	}
	var state models.PipelineState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, fmt.Errorf("unmarshal pipeline state: %w", err)
	}
	return &state, nil
}

// Set stores a session state and refreshes its TTL.
func (s *RedisStateStore) Set(ctx context.Context, state *models.PipelineState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal pipeline state: %w", err)
	}
	if err := s.client.Set(ctx, stateKeyPrefix+state.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("save pipeline state: %w", err)
	}
	return nil
}

// Delete removes a session state.
func (s *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, stateKeyPrefix+sessionID).Err()
}
