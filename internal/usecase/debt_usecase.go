package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// DebtUseCase handles debts and manual payments.
type DebtUseCase struct {
	store  *Store
	clock  Clock
	idGen  IDGenerator
	logger zerolog.Logger
}

// NewDebtUseCase creates a new DebtUseCase.
func NewDebtUseCase(store *Store, clock Clock, idGen IDGenerator, logger zerolog.Logger) *DebtUseCase {
	return &DebtUseCase{
		store:  store,
		clock:  clock,
		idGen:  idGen,
		logger: logger,
	}
}

// AddDebtInput represents input for adding a debt.
// A nil CommonExpense means the debt is a common expense.
type AddDebtInput struct {
	Creditor      string
	Debtor        string
	Amount        decimal.Decimal
	Description   string
	Currency      domain.Currency
	DueDate       *time.Time
	CommonExpense *bool
}

// AddPaymentInput represents input for a manual payment.
type AddPaymentInput struct {
	DebtID string
	Amount decimal.Decimal
}

// ListDebtsInput filters debts. Nil flags match everything.
type ListDebtsInput struct {
	Open     *bool
	Common   *bool
	Currency domain.Currency
	Person   string
}

// Outstanding is the sum of remaining amounts per currency.
type Outstanding struct {
	Totals map[domain.Currency]decimal.Decimal
	Count  int
}

// Add records a new debt.
func (uc *DebtUseCase) Add(ctx context.Context, input AddDebtInput) (*domain.Debt, error) {
	common := true
	if input.CommonExpense != nil {
		common = *input.CommonExpense
	}

	debt := &domain.Debt{
		ID:            uc.idGen.Generate(),
		Creditor:      strings.TrimSpace(input.Creditor),
		Debtor:        strings.TrimSpace(input.Debtor),
		Amount:        input.Amount,
		Description:   strings.TrimSpace(input.Description),
		Currency:      input.Currency,
		DueDate:       input.DueDate,
		CommonExpense: common,
		Payments:      []domain.Payment{},
		CreatedAt:     uc.clock.Now(),
	}

	if err := debt.Validate(); err != nil {
		return nil, err
	}

	err := uc.store.Mutate(ctx, func(st *State) error {
		st.Debts.Append(debt)
		return nil
	})

	uc.logger.Info().
		Str("debt_id", debt.ID).
		Str("creditor", debt.Creditor).
		Str("debtor", debt.Debtor).
		Str("amount", debt.Amount.String()).
		Str("currency", string(debt.Currency)).
		Bool("common", debt.CommonExpense).
		Msg("debt added")

	return debt.Clone(), err
}

// Delete removes a debt. Payments already made stay spent.
func (uc *DebtUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Mutate(ctx, func(st *State) error {
		if _, err := st.Debts.Remove(id); err != nil {
			return err
		}

		uc.logger.Info().Str("debt_id", id).Msg("debt deleted")

		return nil
	})
}

// Get returns a debt by ID.
func (uc *DebtUseCase) Get(ctx context.Context, id string) (*domain.Debt, error) {
	var (
		debt *domain.Debt
		err  error
	)

	uc.store.View(func(st *State) {
		var d *domain.Debt
		d, err = st.Debts.Find(id)
		if err == nil {
			debt = d.Clone()
		}
	})

	return debt, err
}

// List returns debts matching the filter in insertion order.
func (uc *DebtUseCase) List(ctx context.Context, input ListDebtsInput) ([]*domain.Debt, error) {
	var debts []*domain.Debt

	uc.store.View(func(st *State) {
		for _, d := range st.Debts.Debts {
			if matchDebt(d, input) {
				debts = append(debts, d.Clone())
			}
		}
	})

	return debts, nil
}

// AddPayment appends a manual payment. Manual payments do not touch the
// shared balance.
func (uc *DebtUseCase) AddPayment(ctx context.Context, input AddPaymentInput) (*domain.Debt, error) {
	var debt *domain.Debt

	payment := domain.Payment{
		ID:     uc.idGen.Generate(),
		Amount: input.Amount,
		Date:   uc.clock.Now(),
	}

	err := uc.store.Mutate(ctx, func(st *State) error {
		if err := st.Debts.AppendPayment(input.DebtID, payment); err != nil {
			return err
		}

		d, _ := st.Debts.Find(input.DebtID)
		debt = d.Clone()

		return nil
	})
	if debt == nil {
		return nil, err
	}

	uc.logger.Info().
		Str("debt_id", input.DebtID).
		Str("payment_id", payment.ID).
		Str("amount", payment.Amount.String()).
		Str("remaining", debt.Remaining().String()).
		Msg("manual payment added")

	return debt, err
}

// DeletePayment removes a manual payment. Automatic payments cannot be removed.
func (uc *DebtUseCase) DeletePayment(ctx context.Context, debtID, paymentID string) (*domain.Debt, error) {
	var debt *domain.Debt

	err := uc.store.Mutate(ctx, func(st *State) error {
		if _, err := st.Debts.RemovePayment(debtID, paymentID); err != nil {
			return err
		}

		d, _ := st.Debts.Find(debtID)
		debt = d.Clone()

		return nil
	})
	if debt == nil {
		return nil, err
	}

	uc.logger.Info().
		Str("debt_id", debtID).
		Str("payment_id", paymentID).
		Msg("manual payment deleted")

	return debt, err
}

// Outstanding sums the remaining amounts of all open debts per currency.
func (uc *DebtUseCase) Outstanding(ctx context.Context) (*Outstanding, error) {
	out := &Outstanding{Totals: make(map[domain.Currency]decimal.Decimal, len(domain.Currencies))}
	for _, c := range domain.Currencies {
		out.Totals[c] = decimal.Zero
	}

	uc.store.View(func(st *State) {
		for _, d := range st.Debts.Debts {
			if d.IsSettled() {
				continue
			}
			out.Totals[d.Currency] = out.Totals[d.Currency].Add(d.Remaining())
			out.Count++
		}
	})

	return out, nil
}

func matchDebt(d *domain.Debt, input ListDebtsInput) bool {
	if input.Open != nil && *input.Open == d.IsSettled() {
		return false
	}
	if input.Common != nil && *input.Common != d.CommonExpense {
		return false
	}
	if input.Currency != "" && d.Currency != input.Currency {
		return false
	}
	if input.Person != "" &&
		!strings.EqualFold(d.Creditor, input.Person) &&
		!strings.EqualFold(d.Debtor, input.Person) {
		return false
	}
	return true
}
