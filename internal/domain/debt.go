package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Payment is a partial or full settlement of a debt.
type Payment struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Automatic bool            `json:"automatic"`
}

// Debt is an obligation from debtor to creditor.
type Debt struct {
	ID            string          `json:"id"`
	Creditor      string          `json:"creditor"`
	Debtor        string          `json:"debtor"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Currency      Currency        `json:"currency"`
	DueDate       *time.Time      `json:"dueDate,omitempty"`
	CommonExpense bool            `json:"commonExpense"`
	Payments      []Payment       `json:"payments"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Paid returns the sum of all payments.
func (d *Debt) Paid() decimal.Decimal {
	total := decimal.Zero
	for _, p := range d.Payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Remaining returns amount - paid, floored at zero.
func (d *Debt) Remaining() decimal.Decimal {
	remaining := d.Amount.Sub(d.Paid())
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// IsSettled reports whether nothing remains to be paid.
func (d *Debt) IsSettled() bool {
	return !d.Remaining().IsPositive()
}

// Validate checks the debt fields.
func (d *Debt) Validate() error {
	if err := ValidateText("creditor", d.Creditor); err != nil {
		return err
	}

	if err := ValidateText("debtor", d.Debtor); err != nil {
		return err
	}

	if strings.EqualFold(strings.TrimSpace(d.Creditor), strings.TrimSpace(d.Debtor)) {
		return ErrSameCreditorDebtor
	}

	if err := ValidateAmount(d.Amount); err != nil {
		return err
	}

	if !d.Currency.Valid() {
		return ErrInvalidCurrency
	}

	return nil
}

// AutoSettleable reports whether the shared budget may pay this debt automatically.
func (d *Debt) AutoSettleable() bool {
	return d.CommonExpense && d.Currency == CZK && d.Remaining().IsPositive()
}

// DebtLedger owns debts in insertion order.
type DebtLedger struct {
	Debts []*Debt `json:"items"`
}

// Append adds a debt.
func (l *DebtLedger) Append(d *Debt) {
	l.Debts = append(l.Debts, d)
}

// Find returns the debt with the given ID.
func (l *DebtLedger) Find(id string) (*Debt, error) {
	for _, d := range l.Debts {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, ErrDebtNotFound
}

// Remove deletes a debt and returns it.
func (l *DebtLedger) Remove(id string) (*Debt, error) {
	for i, d := range l.Debts {
		if d.ID == id {
			l.Debts = append(l.Debts[:i], l.Debts[i+1:]...)
			return d, nil
		}
	}
	return nil, ErrDebtNotFound
}

// AppendPayment appends a payment to a debt. The amount must be positive and
// must not exceed what remains.
func (l *DebtLedger) AppendPayment(debtID string, p Payment) error {
	d, err := l.Find(debtID)
	if err != nil {
		return err
	}

	if err := ValidateAmount(p.Amount); err != nil {
		return err
	}

	if p.Amount.GreaterThan(d.Remaining()) {
		return ErrOverpayment
	}

	d.Payments = append(d.Payments, p)
	return nil
}

// RemovePayment deletes a manual payment from a debt.
func (l *DebtLedger) RemovePayment(debtID, paymentID string) (Payment, error) {
	d, err := l.Find(debtID)
	if err != nil {
		return Payment{}, err
	}

	for i, p := range d.Payments {
		if p.ID != paymentID {
			continue
		}
		if p.Automatic {
			return Payment{}, ErrAutomaticPayment
		}
		d.Payments = append(d.Payments[:i], d.Payments[i+1:]...)
		return p, nil
	}

	return Payment{}, ErrPaymentNotFound
}

// Clone returns a copy that shares no memory with d.
func (d *Debt) Clone() *Debt {
	c := *d
	if d.DueDate != nil {
		due := *d.DueDate
		c.DueDate = &due
	}
	c.Payments = append([]Payment(nil), d.Payments...)
	return &c
}
