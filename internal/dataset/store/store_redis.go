package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"agridash/internal/dataset/models"
	id "agridash/pkg/domain"
	"agridash/pkg/platform/sentinel"
)

const redisKeyPrefix = "agridash:snapshot:"

// RedisSnapshotStore keeps snapshots in Redis so sessions survive process
// restarts. Values are JSON blobs with the TTL delegated to Redis; expiry
// and not-found are indistinguishable there, so both map to ErrNotFound.
type RedisSnapshotStore struct {
	client *redis.Client
}

// NewRedis creates a snapshot store backed by the given client.
func NewRedis(client *redis.Client) *RedisSnapshotStore {
	return &RedisSnapshotStore{client: client}
}

func redisKey(sessionID id.SessionID) string {
	return redisKeyPrefix + sessionID.String()
}

func (s *RedisSnapshotStore) Save(ctx context.Context, sessionID id.SessionID, snap *models.Snapshot, ttl time.Duration) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(sessionID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *RedisSnapshotStore) Find(ctx context.Context, sessionID id.SessionID) (*models.Snapshot, error) {
	payload, err := s.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find snapshot: %w", err)
	}

	var snap models.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

func (s *RedisSnapshotStore) Delete(ctx context.Context, sessionID id.SessionID) error {
	deleted, err := s.client.Del(ctx, redisKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	if deleted == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
