package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// workToday books 2h for A today: earnings 550, deduction 183.15.
func workToday(t *testing.T, h *harness) {
	t.Helper()
	_, err := h.time.AddManual(context.Background(), usecase.ManualSessionInput{
		Person: "A", Activity: "dev",
		Start: monday.Add(-3 * time.Hour), End: monday.Add(-1 * time.Hour),
	})
	if err != nil {
		t.Fatalf("add manual: %v", err)
	}
}

func TestFinanceUseCase_IncomeOffset(t *testing.T) {
	tests := []struct {
		name        string
		input       usecase.AddRecordInput
		expectOff   bool
		wantBalance string
	}{
		{
			name:        "CZK income covered by today's earnings",
			input:       usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("500"), Currency: domain.CZK},
			expectOff:   true,
			wantBalance: "500",
		},
		{
			name:        "CZK income equal to today's earnings",
			input:       usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("550"), Currency: domain.CZK},
			expectOff:   true,
			wantBalance: "450",
		},
		{
			name:        "CZK income above today's earnings",
			input:       usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("551"), Currency: domain.CZK},
			expectOff:   false,
			wantBalance: "1000",
		},
		{
			name:        "EUR income is never offset",
			input:       usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("10"), Currency: domain.EUR},
			expectOff:   false,
			wantBalance: "1000",
		},
		{
			name:        "CZK expense is never offset",
			input:       usecase.AddRecordInput{Kind: domain.KindExpense, Amount: dec("10"), Currency: domain.CZK},
			expectOff:   false,
			wantBalance: "1000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, monday)
			workToday(t, h)
			h.setBalance(t, "1000")

			result, err := h.finance.Add(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("add: %v", err)
			}

			if result.Offset != tt.expectOff {
				t.Errorf("expected offset=%v, got %v", tt.expectOff, result.Offset)
			}
			if result.Record.OffsetApplied != tt.expectOff {
				t.Errorf("record flag mismatch")
			}
			assertDecimal(t, "balance", tt.wantBalance, h.balance())
		})
	}
}

func TestFinanceUseCase_RecordStoredWithoutOffset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)

	result, err := h.finance.Add(ctx, usecase.AddRecordInput{
		Kind: domain.KindIncome, Amount: dec("5000"), Description: "salary", Currency: domain.CZK,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.Offset {
		t.Fatalf("no earnings today, offset must not apply")
	}

	record, err := h.finance.Get(ctx, result.Record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Category != usecase.DefaultCategory {
		t.Errorf("expected default category, got %q", record.Category)
	}
	if !record.Date.Equal(monday) {
		t.Errorf("expected record dated now, got %s", record.Date)
	}
}

func TestFinanceUseCase_DeleteReversesOffset(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	workToday(t, h)
	h.setBalance(t, "1000")

	result, err := h.finance.Add(ctx, usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("300"), Currency: domain.CZK})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	assertDecimal(t, "balance after add", "700", h.balance())

	if err := h.finance.Delete(ctx, result.Record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertDecimal(t, "balance after delete", "1000", h.balance())

	if err := h.finance.Delete(ctx, result.Record.ID); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFinanceUseCase_Edit(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)
	workToday(t, h)
	h.setBalance(t, "1000")

	original, err := h.finance.Add(ctx, usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("300"), Currency: domain.CZK})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	edited, err := h.finance.Edit(ctx, original.Record.ID, usecase.AddRecordInput{
		Kind: domain.KindIncome, Amount: dec("700"), Currency: domain.CZK, Category: "Salary",
	})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}

	if edited.Offset {
		t.Fatalf("700 exceeds today's earnings, offset must not apply")
	}
	assertDecimal(t, "balance", "1000", h.balance())

	if _, err := h.finance.Get(ctx, original.Record.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("original should be gone, got %v", err)
	}
	if _, err := h.finance.Edit(ctx, "missing", usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("1"), Currency: domain.CZK}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestFinanceUseCase_Validation(t *testing.T) {
	tests := []struct {
		name      string
		input     usecase.AddRecordInput
		errorType error
	}{
		{"zero amount", usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("0"), Currency: domain.CZK}, domain.ErrInvalidAmount},
		{"negative amount", usecase.AddRecordInput{Kind: domain.KindExpense, Amount: dec("-5"), Currency: domain.CZK}, domain.ErrInvalidAmount},
		{"unknown kind", usecase.AddRecordInput{Kind: "refund", Amount: dec("5"), Currency: domain.CZK}, domain.ErrInvalidKind},
		{"unknown currency", usecase.AddRecordInput{Kind: domain.KindIncome, Amount: dec("5"), Currency: "GBP"}, domain.ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, monday)
			if _, err := h.finance.Add(context.Background(), tt.input); !errors.Is(err, tt.errorType) {
				t.Fatalf("expected %v, got %v", tt.errorType, err)
			}
		})
	}
}

func TestFinanceUseCase_ListAndMonthlySummary(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, monday)

	add := func(kind domain.RecordKind, amount string, currency domain.Currency, category string) {
		t.Helper()
		_, err := h.finance.Add(ctx, usecase.AddRecordInput{Kind: kind, Amount: dec(amount), Currency: currency, Category: category})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	add(domain.KindIncome, "40000", domain.CZK, "Salary")
	add(domain.KindExpense, "1200", domain.CZK, "Food")
	add(domain.KindExpense, "800", domain.CZK, "Food")
	add(domain.KindExpense, "50", domain.EUR, "Travel")

	h.clock.Set(monday.AddDate(0, 1, 0))
	add(domain.KindExpense, "999", domain.CZK, "Food")

	records, err := h.finance.List(ctx, usecase.ListRecordsInput{Kind: domain.KindExpense, Currency: domain.CZK, Month: monday})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 CZK expenses in March, got %d", len(records))
	}

	summary, err := h.finance.MonthlySummary(ctx, 2025, time.March)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Count != 4 {
		t.Fatalf("expected 4 records, got %d", summary.Count)
	}

	czk := summary.Currencies[domain.CZK]
	if czk == nil {
		t.Fatalf("missing CZK totals")
	}
	assertDecimal(t, "income", "40000", czk.Income)
	assertDecimal(t, "expense", "2000", czk.Expense)
	assertDecimal(t, "net", "38000", czk.Net)
	assertDecimal(t, "food", "-2000", czk.ByCategory["Food"])

	eur := summary.Currencies[domain.EUR]
	if eur == nil {
		t.Fatalf("missing EUR totals")
	}
	assertDecimal(t, "eur net", "-50", eur.Net)
}
