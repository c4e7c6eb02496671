package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// MockSnapshotStore is an in-memory implementation of SnapshotStore.
type MockSnapshotStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	saves int

	LoadFunc      func(ctx context.Context, key string) ([]byte, error)
	SaveBatchFunc func(ctx context.Context, blobs map[string][]byte) error
}

func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{
		blobs: make(map[string][]byte),
	}
}

func (m *MockSnapshotStore) Load(ctx context.Context, key string) ([]byte, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if blob, ok := m.blobs[key]; ok {
		return append([]byte(nil), blob...), nil
	}
	return nil, nil
}

func (m *MockSnapshotStore) SaveBatch(ctx context.Context, blobs map[string][]byte) error {
	if m.SaveBatchFunc != nil {
		return m.SaveBatchFunc(ctx, blobs)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range blobs {
		m.blobs[k] = append([]byte(nil), v...)
	}
	m.saves++
	return nil
}

// Put stores a blob directly, bypassing SaveBatchFunc.
func (m *MockSnapshotStore) Put(key string, blob []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = blob
}

// Blob returns what is stored under key.
func (m *MockSnapshotStore) Blob(key string) []byte {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.blobs[key]
}

// Saves returns the number of successful batch saves.
func (m *MockSnapshotStore) Saves() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.saves
}

// MockClock is a settable implementation of Clock.
type MockClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewMockClock(now time.Time) *MockClock {
	return &MockClock{now: now}
}

func (m *MockClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t.
func (m *MockClock) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *MockClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockRecorder counts observations.
type MockRecorder struct {
	mu sync.Mutex

	Sessions           int
	Deductions         decimal.Decimal
	Passes             int
	AutomaticPayments  int
	RentPaid           int
	RentDebts          int
	Balances           map[domain.Currency]decimal.Decimal
	PersistenceFailure []string
}

func NewMockRecorder() *MockRecorder {
	return &MockRecorder{Balances: make(map[domain.Currency]decimal.Decimal)}
}

func (m *MockRecorder) SessionFinalized(deduction decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sessions++
	m.Deductions = m.Deductions.Add(deduction)
}

func (m *MockRecorder) SettlementPass(payments int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Passes++
}

func (m *MockRecorder) AutomaticPayment(amount decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AutomaticPayments++
}

func (m *MockRecorder) RentAccrued(coveredByBudget bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if coveredByBudget {
		m.RentPaid++
	} else {
		m.RentDebts++
	}
}

func (m *MockRecorder) BalanceChanged(currency domain.Currency, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Balances[currency] = balance
}

func (m *MockRecorder) PersistenceFailed(op, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PersistenceFailure = append(m.PersistenceFailure, op+":"+key)
}
