package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// StartTimerRequest represents a request to start the timer.
type StartTimerRequest struct {
	Person      string `json:"person"`
	Activity    string `json:"activity"`
	Subcategory string `json:"subcategory,omitempty"`
	Note        string `json:"note,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *StartTimerRequest) ToUseCaseInput() usecase.StartSessionInput {
	return usecase.StartSessionInput{
		Person:      r.Person,
		Activity:    r.Activity,
		Subcategory: r.Subcategory,
		Note:        r.Note,
	}
}

// SessionRequest represents a manually entered or edited session.
// Omitted rates fall back to the person's defaults, or to the original
// session's rates on edit.
type SessionRequest struct {
	Person        string           `json:"person"`
	Activity      string           `json:"activity"`
	Subcategory   string           `json:"subcategory,omitempty"`
	Note          string           `json:"note,omitempty"`
	Start         time.Time        `json:"start"`
	End           time.Time        `json:"end"`
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	DeductionRate *decimal.Decimal `json:"deduction_rate,omitempty"`
}

// ToUseCaseInput converts to use case input. Start and end are required.
func (r *SessionRequest) ToUseCaseInput() (usecase.ManualSessionInput, error) {
	if r.Start.IsZero() || r.End.IsZero() {
		return usecase.ManualSessionInput{}, domain.ErrMissingInterval
	}

	return usecase.ManualSessionInput{
		Person:        r.Person,
		Activity:      r.Activity,
		Subcategory:   r.Subcategory,
		Note:          r.Note,
		Start:         r.Start,
		End:           r.End,
		HourlyRate:    r.HourlyRate,
		DeductionRate: r.DeductionRate,
	}, nil
}

// RecordRequest represents a request to add or edit a finance record.
type RecordRequest struct {
	Kind        string          `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Category    string          `json:"category,omitempty"`
	Currency    string          `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordRequest) ToUseCaseInput() (usecase.AddRecordInput, error) {
	kind, err := domain.ValidateKind(r.Kind)
	if err != nil {
		return usecase.AddRecordInput{}, err
	}

	currency, err := domain.ValidateCurrency(r.Currency)
	if err != nil {
		return usecase.AddRecordInput{}, err
	}

	return usecase.AddRecordInput{
		Kind:        kind,
		Amount:      r.Amount,
		Description: r.Description,
		Category:    r.Category,
		Currency:    currency,
	}, nil
}

// DebtRequest represents a request to add a debt.
type DebtRequest struct {
	Creditor      string          `json:"creditor"`
	Debtor        string          `json:"debtor"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description,omitempty"`
	Currency      string          `json:"currency"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	CommonExpense *bool           `json:"common_expense,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *DebtRequest) ToUseCaseInput() (usecase.AddDebtInput, error) {
	currency, err := domain.ValidateCurrency(r.Currency)
	if err != nil {
		return usecase.AddDebtInput{}, err
	}

	return usecase.AddDebtInput{
		Creditor:      r.Creditor,
		Debtor:        r.Debtor,
		Amount:        r.Amount,
		Description:   r.Description,
		Currency:      currency,
		DueDate:       r.DueDate,
		CommonExpense: r.CommonExpense,
	}, nil
}

// PaymentRequest represents a manual payment against a debt.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *PaymentRequest) ToUseCaseInput(debtID string) usecase.AddPaymentInput {
	return usecase.AddPaymentInput{
		DebtID: debtID,
		Amount: r.Amount,
	}
}
