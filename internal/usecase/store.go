package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/iho/kasa/internal/domain"
)

// errUnchanged lets a mutation report that it did nothing and needs no save.
var errUnchanged = errors.New("state unchanged")

// State is the whole household book: the three ledgers and the shared budget.
type State struct {
	Sessions *domain.TimeLedger
	Finance  *domain.FinanceLedger
	Debts    *domain.DebtLedger
	Budget   *domain.SharedBudget
}

// NewState returns an empty book.
func NewState() *State {
	return &State{
		Sessions: &domain.TimeLedger{},
		Finance:  &domain.FinanceLedger{},
		Debts:    &domain.DebtLedger{},
		Budget:   domain.NewSharedBudget(),
	}
}

type snapshot struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// Store owns the State and serializes every mutation. After a mutation all
// snapshot keys are saved; a failed save is reported but never rolls back memory.
type Store struct {
	mu        sync.Mutex
	state     *State
	snapshots SnapshotStore
	recorder  Recorder
	logger    zerolog.Logger
}

// NewStore creates a Store with an empty state. Call Load to restore a snapshot.
func NewStore(snapshots SnapshotStore, recorder Recorder, logger zerolog.Logger) *Store {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &Store{
		state:     NewState(),
		snapshots: snapshots,
		recorder:  recorder,
		logger:    logger,
	}
}

// Load restores every ledger from the snapshot store. A missing key leaves that
// ledger empty; a key that cannot be read or decoded is reported as a
// *domain.PersistenceError and also leaves that ledger empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := NewState()
	targets := map[string]any{
		KeySessions: state.Sessions,
		KeyFinance:  state.Finance,
		KeyDebts:    state.Debts,
		KeyBudget:   state.Budget,
	}

	var errs []error
	for _, key := range SnapshotKeys {
		blob, err := s.snapshots.Load(ctx, key)
		if err != nil {
			errs = append(errs, s.failure("load", key, err))
			continue
		}
		if len(blob) == 0 {
			s.logger.Debug().Str("key", key).Msg("no snapshot, starting empty")
			continue
		}
		if err := decodeSnapshot(blob, targets[key]); err != nil {
			errs = append(errs, s.failure("decode", key, err))
		}
	}

	// A partially decoded ledger is worse than an empty one.
	for _, err := range errs {
		var pe *domain.PersistenceError
		if errors.As(err, &pe) && pe.Op == "decode" {
			switch pe.Key {
			case KeySessions:
				state.Sessions = &domain.TimeLedger{}
			case KeyFinance:
				state.Finance = &domain.FinanceLedger{}
			case KeyDebts:
				state.Debts = &domain.DebtLedger{}
			case KeyBudget:
				state.Budget = domain.NewSharedBudget()
			}
		}
	}
	if state.Budget.Balances == nil {
		state.Budget = domain.NewSharedBudget()
	}

	var dropped int
	state.Sessions.Sessions, dropped = dropNil(state.Sessions.Sessions, dropped)
	state.Finance.Records, dropped = dropNil(state.Finance.Records, dropped)
	state.Debts.Debts, dropped = dropNil(state.Debts.Debts, dropped)
	if dropped > 0 {
		s.logger.Warn().Int("dropped", dropped).Msg("null entries removed from snapshot")
	}

	s.state = state
	s.observeBalances()

	s.logger.Info().
		Int("sessions", len(state.Sessions.Sessions)).
		Int("records", len(state.Finance.Records)).
		Int("debts", len(state.Debts.Debts)).
		Str("balance_czk", state.Budget.Balance(domain.CZK).String()).
		Msg("book loaded")

	return errors.Join(errs...)
}

// Mutate runs fn with exclusive access to the state and saves the snapshot
// afterwards. fn must validate before changing anything: an error returned by
// fn means the state was left untouched and nothing is saved.
func (s *Store) Mutate(ctx context.Context, fn func(st *State) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(s.state); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}

	s.observeBalances()

	return s.persist(ctx)
}

// IsPersistenceFailure reports whether err means the operation took effect in
// memory but was not saved.
func IsPersistenceFailure(err error) bool {
	return errors.Is(err, domain.ErrPersistenceFailure)
}

// View runs fn with exclusive access to the state. fn must not mutate it.
func (s *Store) View(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(s.state)
}

func (s *Store) persist(ctx context.Context) error {
	sources := map[string]any{
		KeySessions: s.state.Sessions,
		KeyFinance:  s.state.Finance,
		KeyDebts:    s.state.Debts,
		KeyBudget:   s.state.Budget,
	}

	blobs := make(map[string][]byte, len(sources))
	for _, key := range SnapshotKeys {
		blob, err := encodeSnapshot(sources[key])
		if err != nil {
			return s.failure("encode", key, err)
		}
		blobs[key] = blob
	}

	if err := s.snapshots.SaveBatch(ctx, blobs); err != nil {
		return s.failure("save", "", err)
	}

	return nil
}

func (s *Store) failure(op, key string, err error) error {
	s.recorder.PersistenceFailed(op, key)
	s.logger.Error().Err(err).Str("op", op).Str("key", key).Msg("snapshot persistence failed")

	return &domain.PersistenceError{Op: op, Key: key, Err: err}
}

func (s *Store) observeBalances() {
	for _, c := range domain.Currencies {
		s.recorder.BalanceChanged(c, s.state.Budget.Balance(c))
	}
}

func encodeSnapshot(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(snapshot{Version: snapshotVersion, Data: data})
}

func decodeSnapshot(blob []byte, v any) error {
	var snap snapshot
	if err := json.Unmarshal(blob, &snap); err != nil {
		return err
	}
	if len(snap.Data) == 0 {
		return nil
	}
	return json.Unmarshal(snap.Data, v)
}

// dropNil removes nil entries in place and adds their number to dropped.
func dropNil[T any](items []*T, dropped int) ([]*T, int) {
	kept := items[:0]
	for _, it := range items {
		if it == nil {
			dropped++
			continue
		}
		kept = append(kept, it)
	}
	return kept, dropped
}
