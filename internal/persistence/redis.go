// Package persistence mirrors store state out of process: JSON snapshots in
// Redis (the server-side analogue of the original local-storage mirror) and
// an optional Postgres archive for the activity log.
package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-flow/internal/config"
)

// SnapshotStore saves and loads opaque JSON snapshot blobs in Redis.
// Everything is best-effort: an unreachable Redis degrades the service to
// memory-only operation with a warning, never an error.
type SnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewSnapshotStore connects to Redis using the provided configuration.
func NewSnapshotStore(cfg config.RedisConfig, snapCfg config.SnapshotConfig, logger *zap.Logger) *SnapshotStore {
	if !snapCfg.Enabled {
		logger.Info("snapshot mirror disabled")
		return &SnapshotStore{keyPrefix: snapCfg.KeyPrefix, logger: logger}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		logger.Warn("unable to reach redis; snapshots are best-effort", zap.Error(err))
	} else {
		logger.Info("connected to redis")
	}

	return &SnapshotStore{client: client, keyPrefix: snapCfg.KeyPrefix, logger: logger}
}

// Save marshals v and stores it under the prefixed key. Blobs have no TTL;
// the latest writer wins.
func (s *SnapshotStore) Save(ctx context.Context, key string, v any) error {
	if s == nil || s.client == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.keyPrefix+key, data, 0).Err()
}

// Load unmarshals the blob under the prefixed key into v. A missing key
// reports found=false with no error.
func (s *SnapshotStore) Load(ctx context.Context, key string, v any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	data, err := s.client.Get(ctx, s.keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, err
	}
	return true, nil
}

// Enabled reports whether a Redis client is configured.
func (s *SnapshotStore) Enabled() bool {
	return s != nil && s.client != nil
}

// Ping verifies Redis connectivity.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return errors.New("snapshot store not configured")
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *SnapshotStore) Close() {
	if s != nil && s.client != nil {
		_ = s.client.Close()
	}
}
