package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

func TestRecordRequest_ToUseCaseInput(t *testing.T) {
	req := &RecordRequest{
		Kind:        " Income ",
		Amount:      decimal.RequireFromString("500"),
		Description: "salary",
		Category:    "Work",
		Currency:    "czk",
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Kind != domain.KindIncome {
		t.Fatalf("expected kind income, got %q", got.Kind)
	}
	if got.Currency != domain.CZK {
		t.Fatalf("expected currency CZK, got %q", got.Currency)
	}
	if !got.Amount.Equal(req.Amount) || got.Description != "salary" || got.Category != "Work" {
		t.Fatalf("unexpected input %+v", got)
	}
}

func TestDebtRequest_ToUseCaseInput(t *testing.T) {
	due := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	common := false

	tests := []struct {
		name       string
		request    *DebtRequest
		wantCommon *bool
		wantDue    *time.Time
	}{
		{
			name:    "defaults",
			request: &DebtRequest{Creditor: "A", Debtor: "B", Amount: decimal.NewFromInt(10), Currency: "eur"},
		},
		{
			name: "explicit fields",
			request: &DebtRequest{
				Creditor: "A", Debtor: "B", Amount: decimal.NewFromInt(10), Currency: "CZK",
				DueDate: &due, CommonExpense: &common,
			},
			wantCommon: &common,
			wantDue:    &due,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.request.ToUseCaseInput()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if got.CommonExpense != tt.wantCommon {
				t.Fatalf("expected common %v, got %v", tt.wantCommon, got.CommonExpense)
			}
			if got.DueDate != tt.wantDue {
				t.Fatalf("expected due %v, got %v", tt.wantDue, got.DueDate)
			}
			if !got.Currency.Valid() {
				t.Fatalf("expected normalized currency, got %q", got.Currency)
			}
		})
	}
}

func TestSessionRequest_ToUseCaseInput(t *testing.T) {
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rate := decimal.NewFromInt(200)

	req := &SessionRequest{
		Person:     "A",
		Activity:   "dev",
		Start:      start,
		End:        start.Add(time.Hour),
		HourlyRate: &rate,
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Start.Equal(start) || !got.End.Equal(start.Add(time.Hour)) {
		t.Fatalf("unexpected interval %s - %s", got.Start, got.End)
	}
	if got.HourlyRate == nil || !got.HourlyRate.Equal(rate) {
		t.Fatalf("expected hourly rate override, got %v", got.HourlyRate)
	}
	if got.DeductionRate != nil {
		t.Fatalf("expected default deduction rate, got %v", got.DeductionRate)
	}
}

func TestSessionRequest_RequiresInterval(t *testing.T) {
	end := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		request *SessionRequest
	}{
		{"missing start", &SessionRequest{Person: "A", Activity: "dev", End: end}},
		{"missing end", &SessionRequest{Person: "A", Activity: "dev", Start: end.Add(-time.Hour)}},
		{"missing both", &SessionRequest{Person: "A", Activity: "dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.request.ToUseCaseInput(); !errors.Is(err, domain.ErrMissingInterval) {
				t.Fatalf("expected ErrMissingInterval, got %v", err)
			}
		})
	}
}

func TestRecordRequest_RejectsUnknownValues(t *testing.T) {
	tests := []struct {
		name      string
		request   *RecordRequest
		errorType error
	}{
		{"kind", &RecordRequest{Kind: "refund", Amount: decimal.NewFromInt(1), Currency: "CZK"}, domain.ErrInvalidKind},
		{"currency", &RecordRequest{Kind: "income", Amount: decimal.NewFromInt(1), Currency: "GBP"}, domain.ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.request.ToUseCaseInput(); !errors.Is(err, tt.errorType) {
				t.Fatalf("expected %v, got %v", tt.errorType, err)
			}
		})
	}

	debt := &DebtRequest{Creditor: "A", Debtor: "B", Amount: decimal.NewFromInt(1), Currency: "btc"}
	if _, err := debt.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestPaymentRequest_ToUseCaseInput(t *testing.T) {
	req := &PaymentRequest{Amount: decimal.RequireFromString("12.5")}

	got := req.ToUseCaseInput("debt-1")
	if got.DebtID != "debt-1" || !got.Amount.Equal(req.Amount) {
		t.Fatalf("unexpected input %+v", got)
	}
}
