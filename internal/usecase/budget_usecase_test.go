package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

func TestBudgetUseCase_Get(t *testing.T) {
	tests := []struct {
		name      string
		balance   string
		available string
	}{
		{"below reserve", "10000", "0"},
		{"at reserve", "24500", "0"},
		{"above reserve", "30000", "5500"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, monday)
			h.setBalance(t, tt.balance)

			status, err := h.budget.Get(context.Background())
			if err != nil {
				t.Fatalf("get: %v", err)
			}

			assertDecimal(t, "CZK", tt.balance, status.Balances[domain.CZK])
			assertDecimal(t, "reserve", "24500", status.Reserve)
			assertDecimal(t, "available", tt.available, status.Available)
			if len(status.Balances) != len(domain.Currencies) {
				t.Fatalf("expected a balance per currency, got %v", status.Balances)
			}
		})
	}
}

func TestBudgetUseCase_AccrueMonthlyRent(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)
	h := newHarness(t, first)
	h.setBalance(t, "10000")

	accrual, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil {
		t.Fatalf("accrue: %v", err)
	}
	if accrual == nil || accrual.Debt == nil {
		t.Fatalf("expected rent debt, got %+v", accrual)
	}
	assertDecimal(t, "balance", "10000", h.balance())
	if want := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC); !accrual.Debt.DueDate.Equal(want) {
		t.Fatalf("expected debt due %s, got %s", want, accrual.Debt.DueDate)
	}

	saves := h.snapshots.Saves()
	again, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil || again != nil {
		t.Fatalf("expected no second accrual, got %+v, %v", again, err)
	}
	if h.snapshots.Saves() != saves {
		t.Fatalf("skipped accrual must not save")
	}

	records, _ := h.finance.List(ctx, usecase.ListRecordsInput{Category: domain.CategoryRent})
	if len(records) != 1 {
		t.Fatalf("expected one rent record, got %d", len(records))
	}
}

func TestBudgetUseCase_RentDebtIsSettledByLaterDeductions(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)
	h := newHarness(t, first)
	h.setBalance(t, "10000")

	accrual, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil || accrual == nil {
		t.Fatalf("accrue: %+v, %v", accrual, err)
	}

	h.setBalance(t, "24500")
	h.clock.Advance(2 * time.Hour)

	// 10h × 275 × 0.333 = 915.75 lands above the reserve.
	result, err := h.time.AddManual(ctx, usecase.ManualSessionInput{
		Person: "A", Activity: "dev",
		Start: first.Add(-10 * time.Hour), End: first,
	})
	if err != nil {
		t.Fatalf("add manual: %v", err)
	}

	if len(result.Settlement.Payments) != 1 || result.Settlement.Payments[0].DebtID != accrual.Debt.ID {
		t.Fatalf("expected rent debt to be paid, got %+v", result.Settlement.Payments)
	}

	debt, _ := h.debts.Get(ctx, accrual.Debt.ID)
	assertDecimal(t, "remaining", "23584.25", debt.Remaining())
	assertDecimal(t, "balance", "24500", h.balance())
}

func TestBudgetUseCase_AccrueNotOnFirst(t *testing.T) {
	h := newHarness(t, monday)

	accrual, err := h.budget.AccrueMonthlyRent(context.Background())
	if err != nil || accrual != nil {
		t.Fatalf("expected nothing, got %+v, %v", accrual, err)
	}
}

func TestBudgetUseCase_RentNotChargedTwiceAfterRecordDelete(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)
	h := newHarness(t, first)
	h.setBalance(t, "60000")

	accrual, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil || accrual == nil {
		t.Fatalf("accrue: %+v, %v", accrual, err)
	}
	assertDecimal(t, "balance after rent", "35500", h.balance())

	if err := h.finance.Delete(ctx, accrual.Record.ID); err != nil {
		t.Fatalf("delete rent record: %v", err)
	}

	h.clock.Advance(time.Hour)
	again, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil || again != nil {
		t.Fatalf("expected no second accrual, got %+v, %v", again, err)
	}
	assertDecimal(t, "balance", "35500", h.balance())
}

func TestBudgetUseCase_RentMonthSurvivesReload(t *testing.T) {
	ctx := context.Background()
	first := time.Date(2025, 4, 1, 6, 0, 0, 0, time.UTC)
	h := newHarness(t, first)
	h.setBalance(t, "30000")

	accrual, err := h.budget.AccrueMonthlyRent(ctx)
	if err != nil || accrual == nil {
		t.Fatalf("accrue: %+v, %v", accrual, err)
	}
	if err := h.finance.Delete(ctx, accrual.Record.ID); err != nil {
		t.Fatalf("delete rent record: %v", err)
	}

	reloaded := usecase.NewStore(h.snapshots, nil, zerolog.Nop())
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	reloaded.View(func(st *usecase.State) {
		if !st.Budget.RentAccruedFor(first) {
			t.Fatalf("expected April marked as accrued, got %q", st.Budget.RentMonth)
		}
	})
}
