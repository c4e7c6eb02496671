package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordKind is the direction of a finance record.
type RecordKind string

const (
	KindIncome  RecordKind = "income"
	KindExpense RecordKind = "expense"
)

// CategoryRent is the category of automatically accrued rent.
const CategoryRent = "Rent"

// FinanceRecord is a cash movement outside of work sessions.
// Amount is always positive; the sign is implied by Kind.
type FinanceRecord struct {
	ID          string          `json:"id"`
	Kind        RecordKind      `json:"kind"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Currency    Currency        `json:"currency"`
	// OffsetApplied marks a CZK income that was offset against the shared balance.
	OffsetApplied bool `json:"offsetApplied,omitempty"`
}

// Validate checks the record fields.
func (r *FinanceRecord) Validate() error {
	if r.Kind != KindIncome && r.Kind != KindExpense {
		return ErrInvalidKind
	}

	if err := ValidateAmount(r.Amount); err != nil {
		return err
	}

	if !r.Currency.Valid() {
		return ErrInvalidCurrency
	}

	return ValidateText("category", r.Category)
}

// Signed returns the amount with the sign implied by the kind.
func (r *FinanceRecord) Signed() decimal.Decimal {
	if r.Kind == KindExpense {
		return r.Amount.Neg()
	}
	return r.Amount
}

// FinanceLedger owns income and expense records in insertion order.
type FinanceLedger struct {
	Records []*FinanceRecord `json:"items"`
}

// Append adds a record.
func (l *FinanceLedger) Append(r *FinanceRecord) {
	l.Records = append(l.Records, r)
}

// Find returns the record with the given ID.
func (l *FinanceLedger) Find(id string) (*FinanceRecord, error) {
	for _, r := range l.Records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, ErrRecordNotFound
}

// Remove deletes a record and returns it.
func (l *FinanceLedger) Remove(id string) (*FinanceRecord, error) {
	for i, r := range l.Records {
		if r.ID == id {
			l.Records = append(l.Records[:i], l.Records[i+1:]...)
			return r, nil
		}
	}
	return nil, ErrRecordNotFound
}

// HasRentFor reports whether a rent expense is already recorded in the
// calendar month of day.
func (l *FinanceLedger) HasRentFor(day time.Time) bool {
	for _, r := range l.Records {
		if r.Kind == KindExpense && r.Category == CategoryRent && SameMonth(r.Date, day) {
			return true
		}
	}
	return false
}

// Clone returns a copy of r.
func (r *FinanceRecord) Clone() *FinanceRecord {
	c := *r
	return &c
}
