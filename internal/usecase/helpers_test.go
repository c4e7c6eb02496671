package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
	"github.com/iho/kasa/internal/usecase/mocks"
)

type harness struct {
	clock     *mocks.MockClock
	ids       *mocks.MockIDGenerator
	snapshots *mocks.MockSnapshotStore
	recorder  *mocks.MockRecorder
	store     *usecase.Store
	engine    *usecase.SettlementEngine

	time    *usecase.TimeUseCase
	finance *usecase.FinanceUseCase
	debts   *usecase.DebtUseCase
	budget  *usecase.BudgetUseCase
}

func newHarness(t *testing.T, now time.Time) *harness {
	t.Helper()

	rates, err := usecase.NewRateTable(
		map[string]string{"A": "275", "B": "300"},
		map[string]string{"A": "0.333", "B": "0.25"},
	)
	if err != nil {
		t.Fatalf("rates: %v", err)
	}

	h := &harness{
		clock:     mocks.NewMockClock(now),
		ids:       mocks.NewMockIDGenerator(),
		snapshots: mocks.NewMockSnapshotStore(),
		recorder:  mocks.NewMockRecorder(),
	}

	logger := zerolog.Nop()
	h.store = usecase.NewStore(h.snapshots, h.recorder, logger)
	h.engine = usecase.NewSettlementEngine(usecase.EngineConfig{
		Clock:    h.clock,
		IDGen:    h.ids,
		Recorder: h.recorder,
		Logger:   logger,
	})
	h.time = usecase.NewTimeUseCase(h.store, h.engine, rates, h.clock, h.ids, h.recorder, logger)
	h.finance = usecase.NewFinanceUseCase(h.store, h.engine, h.clock, h.ids, logger)
	h.debts = usecase.NewDebtUseCase(h.store, h.clock, h.ids, logger)
	h.budget = usecase.NewBudgetUseCase(h.store, h.engine, h.clock, logger)

	return h
}

// setBalance replaces the CZK balance directly.
func (h *harness) setBalance(t *testing.T, amount string) {
	t.Helper()

	err := h.store.Mutate(context.Background(), func(st *usecase.State) error {
		st.Budget.Balances[domain.CZK] = dec(amount)
		return nil
	})
	if err != nil {
		t.Fatalf("set balance: %v", err)
	}
}

func (h *harness) balance() decimal.Decimal {
	var b decimal.Decimal
	h.store.View(func(st *usecase.State) {
		b = st.Budget.Balance(domain.CZK)
	})
	return b
}

func (h *harness) addDebt(t *testing.T, amount string, due *time.Time) *domain.Debt {
	t.Helper()

	d, err := h.debts.Add(context.Background(), usecase.AddDebtInput{
		Creditor: "A",
		Debtor:   "B",
		Amount:   dec(amount),
		Currency: domain.CZK,
		DueDate:  due,
	})
	if err != nil {
		t.Fatalf("add debt: %v", err)
	}
	return d
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ptr[T any](v T) *T {
	return &v
}

func assertDecimal(t *testing.T, name string, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Fatalf("%s: expected %s, got %s", name, want, got)
	}
}

var monday = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
