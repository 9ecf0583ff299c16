// Package prefs stores per-user preferences that outlive a session, such as
// the workspace a user last worked in.
package prefs

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists per-user preferences in Redis
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis-backed preference store
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &RedisStore{client: client, prefix: "activews:"}, nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, prefix: "activews:"}
}

func (s *RedisStore) key(userID string) string {
	return s.prefix + userID
}

// ActiveWorkspace returns the workspace id the user last selected, or the
// empty string when nothing is stored. A missing preference is not an error;
// the directory falls back to the user's first workspace.
func (s *RedisStore) ActiveWorkspace(ctx context.Context, userID string) (string, error) {
	workspaceID, err := s.client.Get(ctx, s.key(userID)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get active workspace: %w", err)
	}
	return workspaceID, nil
}

// SetActiveWorkspace records the user's selected workspace. The preference
// has no TTL; it survives sign-out.
func (s *RedisStore) SetActiveWorkspace(ctx context.Context, userID, workspaceID string) error {
	if err := s.client.Set(ctx, s.key(userID), workspaceID, 0).Err(); err != nil {
		return fmt.Errorf("set active workspace: %w", err)
	}
	return nil
}

// Close closes the Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}
