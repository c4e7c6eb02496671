package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/kasa/internal/adapter/repository"
	"github.com/iho/kasa/internal/infrastructure/postgres/generated"
)

const backendName = "postgres"

// Pool is the subset of *pgxpool.Pool the snapshot store needs.
type Pool interface {
	generated.DBTX
	Begin(context.Context) (pgx.Tx, error)
	Ping(context.Context) error
}

// SnapshotStore keeps snapshots in the snapshots table. A batch is written
// in one transaction and retried on transient errors.
type SnapshotStore struct {
	pool     Pool
	queries  *generated.Queries
	txm      *TxManager
	retrier  *Retrier
	observer repository.Observer
}

// NewSnapshotStore creates a new SnapshotStore.
func NewSnapshotStore(pool Pool, retrier *Retrier, observer repository.Observer) *SnapshotStore {
	if observer == nil {
		observer = repository.NopObserver{}
	}

	return &SnapshotStore{
		pool:     pool,
		queries:  generated.New(pool),
		txm:      newTxManager(pool),
		retrier:  retrier,
		observer: observer,
	}
}

// Load returns the payload stored under key, or nil if there is none.
func (s *SnapshotStore) Load(ctx context.Context, key string) (blob []byte, err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "load", started, err)
	}(time.Now())

	payload, err := s.queries.GetSnapshot(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get snapshot %s: %w", key, err)
	}

	return payload, nil
}

// SaveBatch upserts every blob in a single transaction.
func (s *SnapshotStore) SaveBatch(ctx context.Context, blobs map[string][]byte) (err error) {
	defer func(started time.Time) {
		s.observer.ObserveSnapshot(backendName, "save", started, err)
	}(time.Now())

	keys := make([]string, 0, len(blobs))
	for k := range blobs {
		keys = append(keys, k)
	}
	// Fixed lock order across writers.
	sort.Strings(keys)

	return s.retrier.Retry(ctx, func() error {
		return s.txm.InTx(ctx, func(tx pgx.Tx) error {
			q := s.queries.WithTx(tx)
			for _, k := range keys {
				if err := q.UpsertSnapshot(ctx, generated.UpsertSnapshotParams{Key: k, Payload: blobs[k]}); err != nil {
					return fmt.Errorf("upsert snapshot %s: %w", k, err)
				}
			}
			return nil
		})
	})
}

// Ping checks the database connection.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
