// File: database/repository/snapshot/snapshot_redis.go
package snapshotRepo

import (
	"context"
	"encoding/json"
	"fmt"

	"huddle/services/coordination"

	"github.com/go-redis/redis/v8"
)

const snapshotKey = "registry:snapshot"

// RedisSnapshotStore persists the registry snapshot as one opaque JSON blob,
// restored on process start.
type RedisSnapshotStore struct {
	client *redis.Client
}

func NewRedisSnapshotStore(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

// Save overwrites the stored snapshot.
func (s *RedisSnapshotStore) Save(ctx context.Context, snap coordination.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal registry snapshot: %w", err)
	}
	if err := s.client.Set(ctx, snapshotKey, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save registry snapshot: %w", err)
	}
	return nil
}

// Load returns the stored snapshot, or nil when none exists yet.
func (s *RedisSnapshotStore) Load(ctx context.Context) (*coordination.Snapshot, error) {
	data, err := s.client.Get(ctx, snapshotKey).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load registry snapshot: %w", err)
	}
	var snap coordination.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal registry snapshot: %w", err)
	}
	return &snap, nil
}
