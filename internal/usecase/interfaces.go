package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// SnapshotStore persists opaque snapshot blobs by key.
type SnapshotStore interface {
	// Load returns the blob stored under key, or (nil, nil) if there is none.
	Load(ctx context.Context, key string) ([]byte, error)
	// SaveBatch stores all blobs; backends that can do so write them atomically.
	SaveBatch(ctx context.Context, blobs map[string][]byte) error
}

// Clock provides the current instant in the household's time zone.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Recorder receives settlement and persistence observations.
type Recorder interface {
	SessionFinalized(deduction decimal.Decimal)
	SettlementPass(payments int)
	AutomaticPayment(amount decimal.Decimal)
	RentAccrued(coveredByBudget bool)
	BalanceChanged(currency domain.Currency, balance decimal.Decimal)
	PersistenceFailed(op, key string)
}

// NopRecorder discards all observations.
type NopRecorder struct{}

func (NopRecorder) SessionFinalized(decimal.Decimal)                {}
func (NopRecorder) SettlementPass(int)                              {}
func (NopRecorder) AutomaticPayment(decimal.Decimal)                {}
func (NopRecorder) RentAccrued(bool)                                {}
func (NopRecorder) BalanceChanged(domain.Currency, decimal.Decimal) {}
func (NopRecorder) PersistenceFailed(string, string)                {}
