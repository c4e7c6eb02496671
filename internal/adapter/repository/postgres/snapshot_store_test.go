package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) (*SnapshotStore, pgxmock.PgxPoolIface) {
	t.Helper()
	pool := newMockPool(t)

	retrier := NewRetrier(zerolog.Nop())
	retrier.initialInterval = time.Millisecond
	retrier.maxInterval = time.Millisecond

	return NewSnapshotStore(pool, retrier, nil), pool
}

func TestSnapshotStoreLoad(t *testing.T) {
	store, pool := newTestStore(t)
	payload := []byte(`{"version":1,"data":{"items":[]}}`)

	pool.ExpectQuery("SELECT payload FROM snapshots WHERE key").
		WithArgs("debts").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	blob, err := store.Load(context.Background(), "debts")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(blob) != string(payload) {
		t.Fatalf("expected %s, got %s", payload, blob)
	}

	assertExpectations(t, pool)
}

func TestSnapshotStoreLoadMissing(t *testing.T) {
	store, pool := newTestStore(t)

	pool.ExpectQuery("SELECT payload FROM snapshots WHERE key").
		WithArgs("sessions").
		WillReturnError(pgx.ErrNoRows)

	blob, err := store.Load(context.Background(), "sessions")
	if err != nil {
		t.Fatalf("missing snapshot must not be an error, got %v", err)
	}
	if blob != nil {
		t.Fatalf("expected nil blob, got %s", blob)
	}

	assertExpectations(t, pool)
}

func TestSnapshotStoreLoadError(t *testing.T) {
	store, pool := newTestStore(t)
	dbErr := errors.New("connection reset")

	pool.ExpectQuery("SELECT payload FROM snapshots WHERE key").
		WithArgs("budget").
		WillReturnError(dbErr)

	if _, err := store.Load(context.Background(), "budget"); !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}
}

func TestSnapshotStoreSaveBatchInOneTransaction(t *testing.T) {
	store, pool := newTestStore(t)

	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO snapshots").
		WithArgs("budget", []byte("b")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectExec("INSERT INTO snapshots").
		WithArgs("debts", []byte("d")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	err := store.SaveBatch(context.Background(), map[string][]byte{
		"debts":  []byte("d"),
		"budget": []byte("b"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	assertExpectations(t, pool)
}

func TestSnapshotStoreSaveBatchRollsBack(t *testing.T) {
	store, pool := newTestStore(t)
	dbErr := errors.New("disk full")

	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO snapshots").
		WithArgs("budget", []byte("b")).
		WillReturnError(dbErr)
	pool.ExpectRollback()

	err := store.SaveBatch(context.Background(), map[string][]byte{"budget": []byte("b")})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected %v, got %v", dbErr, err)
	}

	assertExpectations(t, pool)
}

func TestSnapshotStoreSaveBatchRetriesSerializationFailure(t *testing.T) {
	store, pool := newTestStore(t)

	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO snapshots").
		WithArgs("budget", []byte("b")).
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})
	pool.ExpectRollback()

	pool.ExpectBegin()
	pool.ExpectExec("INSERT INTO snapshots").
		WithArgs("budget", []byte("b")).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	pool.ExpectCommit()

	if err := store.SaveBatch(context.Background(), map[string][]byte{"budget": []byte("b")}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}

	assertExpectations(t, pool)
}
