package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/kasa/internal/adapter/repository"
)

const backendName = "redis"

// SnapshotStore keeps each snapshot as a plain string under prefix+key.
type SnapshotStore struct {
	client   *redis.Client
	prefix   string
	observer repository.Observer
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(client *redis.Client, prefix string, observer repository.Observer) *SnapshotStore {
	if observer == nil {
		observer = repository.NopObserver{}
	}

	return &SnapshotStore{
		client:   client,
		prefix:   prefix,
		observer: observer,
	}
}

// Load returns the blob stored under key, or nil if there is none.
func (s *SnapshotStore) Load(ctx context.Context, key string) (blob []byte, err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "load", started, err)
	}(time.Now())

	blob, err = s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}

	return blob, nil
}

// SaveBatch writes every blob inside one MULTI/EXEC.
func (s *SnapshotStore) SaveBatch(ctx context.Context, blobs map[string][]byte) (err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "save", started, err)
	}(time.Now())

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, blob := range blobs {
			pipe.Set(ctx, s.prefix+key, blob, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save batch: %w", err)
	}

	return nil
}

// Ping checks the Redis connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
