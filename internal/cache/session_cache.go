package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"pedtriage/internal/model"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateCache keeps live session state in Redis so a crashed or restarted
// instance can resume an encounter. Redis is a warm copy; the engine in
// memory stays authoritative while the instance is up.
type StateCache interface {
	Save(ctx context.Context, state *model.SessionState) error
	Load(ctx context.Context, sessionID string) (*model.SessionState, error)
	Delete(ctx context.Context, sessionID string) error
	Exists(ctx context.Context, sessionID string) (bool, error)
}

type stateCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStateCache creates a Redis-backed state cache.
func NewStateCache(client *redis.Client) StateCache {
	return &stateCache{
		client: client,
		ttl:    12 * time.Hour, // stale encounters expire after 12h
	}
}

func (c *stateCache) key(sessionID string) string {
	return fmt.Sprintf("session:%s:state", sessionID)
}

func (c *stateCache) Save(ctx context.Context, state *model.SessionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(state.Session.ID), data, c.ttl).Err()
}

func (c *stateCache) Load(ctx context.Context, sessionID string) (*model.SessionState, error) {
	data, err := c.client.Get(ctx, c.key(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var state model.SessionState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *stateCache) Delete(ctx context.Context, sessionID string) error {
	return c.client.Del(ctx, c.key(sessionID)).Err()
}

func (c *stateCache) Exists(ctx context.Context, sessionID string) (bool, error) {
	n, err := c.client.Exists(ctx, c.key(sessionID)).Result()
	return n > 0, err
}
