package usecase

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// BudgetUseCase exposes the shared budget and the calendar-driven settlement.
type BudgetUseCase struct {
	store  *Store
	engine *SettlementEngine
	clock  Clock
	logger zerolog.Logger
}

// NewBudgetUseCase creates a new BudgetUseCase.
func NewBudgetUseCase(store *Store, engine *SettlementEngine, clock Clock, logger zerolog.Logger) *BudgetUseCase {
	return &BudgetUseCase{
		store:  store,
		engine: engine,
		clock:  clock,
		logger: logger,
	}
}

// BudgetStatus is a snapshot of the shared balances.
type BudgetStatus struct {
	Balances map[domain.Currency]decimal.Decimal
	// Reserve is the amount of CZK held back for rent.
	Reserve decimal.Decimal
	// Available is the CZK above the reserve that can repay debts.
	Available decimal.Decimal
}

// Get returns the current balances.
func (uc *BudgetUseCase) Get(ctx context.Context) (*BudgetStatus, error) {
	status := &BudgetStatus{
		Balances: make(map[domain.Currency]decimal.Decimal, len(domain.Currencies)),
		Reserve:  RentAmount,
	}

	uc.store.View(func(st *State) {
		for _, c := range domain.Currencies {
			status.Balances[c] = st.Budget.Balance(c)
		}
	})

	status.Available = decimal.Max(decimal.Zero, status.Balances[domain.CZK].Sub(RentAmount))

	return status, nil
}

// Settle runs a settlement pass outside of a session finalization.
func (uc *BudgetUseCase) Settle(ctx context.Context) (*SettlementResult, error) {
	var result *SettlementResult

	err := uc.store.Mutate(ctx, func(st *State) error {
		result = uc.engine.SettleDebts(st)
		if len(result.Payments) == 0 {
			return errUnchanged
		}
		return nil
	})

	return result, err
}

// AccrueMonthlyRent books this month's rent if today is the first of the
// month and it has not been booked yet. It returns nil when nothing happened.
func (uc *BudgetUseCase) AccrueMonthlyRent(ctx context.Context) (*RentAccrual, error) {
	var accrual *RentAccrual

	today := uc.clock.Now()
	err := uc.store.Mutate(ctx, func(st *State) error {
		accrual = uc.engine.AccrueMonthlyRent(st, today)
		if accrual == nil {
			return errUnchanged
		}
		return nil
	})

	if accrual == nil {
		uc.logger.Debug().Time("today", today).Msg("no rent to accrue")
		return nil, err
	}

	out := &RentAccrual{Record: accrual.Record.Clone()}
	if accrual.Debt != nil {
		out.Debt = accrual.Debt.Clone()
	}

	return out, err
}
