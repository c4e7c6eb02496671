package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Currency is one of the tracked currencies. No conversion happens between them.
type Currency string

const (
	CZK Currency = "CZK"
	EUR Currency = "EUR"
	USD Currency = "USD"
)

// Currencies lists the tracked currencies in display order.
var Currencies = []Currency{CZK, EUR, USD}

// Valid reports whether c is a tracked currency.
func (c Currency) Valid() bool {
	switch c {
	case CZK, EUR, USD:
		return true
	}
	return false
}

// SharedBudget is the pooled balance fed by deductions and drained by rent and
// automatic debt repayment. Only CZK takes part in automatic settlement.
type SharedBudget struct {
	Balances map[Currency]decimal.Decimal `json:"balances"`
	// RentMonth is the last month rent was accrued for, as YYYY-MM.
	RentMonth string `json:"rentMonth,omitempty"`
}

const rentMonthLayout = "2006-01"

// NewSharedBudget returns a budget with a zero balance in every currency.
func NewSharedBudget() *SharedBudget {
	b := &SharedBudget{Balances: make(map[Currency]decimal.Decimal, len(Currencies))}
	for _, c := range Currencies {
		b.Balances[c] = decimal.Zero
	}
	return b
}

// Balance returns the balance for a currency.
func (b *SharedBudget) Balance(c Currency) decimal.Decimal {
	if b.Balances == nil {
		return decimal.Zero
	}
	return b.Balances[c]
}

// Credit adds amount to the balance and returns the new balance.
func (b *SharedBudget) Credit(c Currency, amount decimal.Decimal) decimal.Decimal {
	if b.Balances == nil {
		b.Balances = make(map[Currency]decimal.Decimal, len(Currencies))
	}
	b.Balances[c] = b.Balance(c).Add(amount)
	return b.Balances[c]
}

// Debit subtracts amount from the balance and returns the new balance.
func (b *SharedBudget) Debit(c Currency, amount decimal.Decimal) decimal.Decimal {
	return b.Credit(c, amount.Neg())
}

// RentAccruedFor reports whether rent was already accrued in the calendar
// month of day.
func (b *SharedBudget) RentAccruedFor(day time.Time) bool {
	return b.RentMonth == day.Format(rentMonthLayout)
}

// MarkRentAccrued records the calendar month of day as accrued.
func (b *SharedBudget) MarkRentAccrued(day time.Time) {
	b.RentMonth = day.Format(rentMonthLayout)
}
