package usecase

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// AppliedPayment is an automatic payment made during a settlement pass.
type AppliedPayment struct {
	DebtID  string
	Payment domain.Payment
}

// SettlementResult describes one settlement pass.
type SettlementResult struct {
	BalanceBefore decimal.Decimal
	BalanceAfter  decimal.Decimal
	Payments      []AppliedPayment
}

// Total returns the sum of all payments made in the pass.
func (r *SettlementResult) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range r.Payments {
		total = total.Add(p.Payment.Amount)
	}
	return total
}

// RentAccrual describes a monthly rent accrual.
type RentAccrual struct {
	Record *domain.FinanceRecord
	// Debt is set when the shared balance could not cover the rent.
	Debt *domain.Debt
}

// SettlementEngine applies the cross-ledger rules: deductions feed the shared
// CZK balance, which keeps RentAmount in reserve and pays common CZK debts
// with whatever is above it.
type SettlementEngine struct {
	clock        Clock
	idGen        IDGenerator
	recorder     Recorder
	logger       zerolog.Logger
	landlord     string
	sharedDebtor string
}

// EngineConfig configures a SettlementEngine.
type EngineConfig struct {
	Clock        Clock
	IDGen        IDGenerator
	Recorder     Recorder
	Logger       zerolog.Logger
	Landlord     string
	SharedDebtor string
}

// NewSettlementEngine creates a new SettlementEngine.
func NewSettlementEngine(cfg EngineConfig) *SettlementEngine {
	if cfg.Recorder == nil {
		cfg.Recorder = NopRecorder{}
	}
	if cfg.Landlord == "" {
		cfg.Landlord = DefaultLandlord
	}
	if cfg.SharedDebtor == "" {
		cfg.SharedDebtor = DefaultSharedDebtor
	}

	return &SettlementEngine{
		clock:        cfg.Clock,
		idGen:        cfg.IDGen,
		recorder:     cfg.Recorder,
		logger:       cfg.Logger,
		landlord:     cfg.Landlord,
		sharedDebtor: cfg.SharedDebtor,
	}
}

// PostDeduction credits a finalized session's deduction to the CZK balance and
// runs a settlement pass.
func (e *SettlementEngine) PostDeduction(st *State, amount decimal.Decimal) *SettlementResult {
	balance := st.Budget.Credit(domain.CZK, amount)

	e.logger.Debug().
		Str("deduction", amount.String()).
		Str("balance", balance.String()).
		Msg("deduction posted")

	return e.SettleDebts(st)
}

// SettleDebts pays eligible debts from the part of the CZK balance above the
// rent reserve. The order is fixed when the pass starts and each debt is
// looked up again by ID before it is paid.
func (e *SettlementEngine) SettleDebts(st *State) *SettlementResult {
	result := &SettlementResult{
		BalanceBefore: st.Budget.Balance(domain.CZK),
	}
	result.BalanceAfter = result.BalanceBefore

	if !result.BalanceBefore.GreaterThan(RentAmount) {
		return result
	}

	now := e.clock.Now()
	order := settlementOrder(st.Debts)

	for _, id := range order {
		debt, err := st.Debts.Find(id)
		if err != nil {
			continue
		}

		available := st.Budget.Balance(domain.CZK).Sub(RentAmount)
		amount := decimal.Min(available, debt.Remaining())
		if !amount.IsPositive() {
			continue
		}

		payment := domain.Payment{
			ID:        e.idGen.Generate(),
			Amount:    amount,
			Date:      now,
			Automatic: true,
		}
		if err := st.Debts.AppendPayment(id, payment); err != nil {
			e.logger.Warn().Err(err).Str("debt_id", id).Msg("automatic payment rejected")
			continue
		}

		st.Budget.Debit(domain.CZK, amount)
		result.Payments = append(result.Payments, AppliedPayment{DebtID: id, Payment: payment})
		e.recorder.AutomaticPayment(amount)

		e.logger.Info().
			Str("debt_id", id).
			Str("creditor", debt.Creditor).
			Str("amount", amount.String()).
			Str("remaining", debt.Remaining().String()).
			Msg("automatic debt payment")
	}

	result.BalanceAfter = st.Budget.Balance(domain.CZK)
	e.recorder.SettlementPass(len(result.Payments))

	return result
}

// settlementOrder returns the IDs of auto-settleable debts ordered by due date
// (missing due date last), then by remaining amount.
func settlementOrder(ledger *domain.DebtLedger) []string {
	type candidate struct {
		id        string
		due       *time.Time
		remaining decimal.Decimal
	}

	var candidates []candidate
	for _, d := range ledger.Debts {
		if d.AutoSettleable() {
			candidates = append(candidates, candidate{id: d.ID, due: d.DueDate, remaining: d.Remaining()})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		switch {
		case a.due == nil && b.due != nil:
			return false
		case a.due != nil && b.due == nil:
			return true
		case a.due != nil && b.due != nil && !a.due.Equal(*b.due):
			return a.due.Before(*b.due)
		}
		return a.remaining.LessThan(b.remaining)
	})

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}

	return ids
}

// OffsetTodayEarnings subtracts a CZK income from the shared balance when the
// day's recorded earnings cover it. It reports whether the offset happened.
func (e *SettlementEngine) OffsetTodayEarnings(st *State, amount decimal.Decimal) bool {
	now := e.clock.Now()
	earned := st.Sessions.EarningsOn(now, now)

	if earned.LessThan(amount) {
		e.logger.Debug().
			Str("income", amount.String()).
			Str("earned_today", earned.String()).
			Msg("income exceeds today's earnings, no offset")
		return false
	}

	balance := st.Budget.Debit(domain.CZK, amount)

	e.logger.Debug().
		Str("income", amount.String()).
		Str("balance", balance.String()).
		Msg("income offset against today's earnings")

	return true
}

// AccrueMonthlyRent books the month's rent on the first day of the month,
// once per calendar month. The rent is paid from the shared balance when it
// covers it, otherwise it becomes a common debt to the landlord.
func (e *SettlementEngine) AccrueMonthlyRent(st *State, today time.Time) *RentAccrual {
	if today.Day() != 1 {
		return nil
	}

	// Deleting the rent record does not clear the budget's month marker.
	if st.Budget.RentAccruedFor(today) || st.Finance.HasRentFor(today) {
		return nil
	}

	description := fmt.Sprintf("Rent for %s", today.Format("January 2006"))
	record := &domain.FinanceRecord{
		ID:          e.idGen.Generate(),
		Kind:        domain.KindExpense,
		Amount:      RentAmount,
		Description: description,
		Date:        today,
		Category:    domain.CategoryRent,
		Currency:    domain.CZK,
	}
	st.Finance.Append(record)
	st.Budget.MarkRentAccrued(today)

	accrual := &RentAccrual{Record: record}

	if st.Budget.Balance(domain.CZK).GreaterThanOrEqual(RentAmount) {
		balance := st.Budget.Debit(domain.CZK, RentAmount)
		e.recorder.RentAccrued(true)

		e.logger.Info().
			Str("month", today.Format("2006-01")).
			Str("balance", balance.String()).
			Msg("rent paid from shared budget")

		return accrual
	}

	due := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	debt := &domain.Debt{
		ID:            e.idGen.Generate(),
		Creditor:      e.landlord,
		Debtor:        e.sharedDebtor,
		Amount:        RentAmount,
		Description:   description,
		Currency:      domain.CZK,
		DueDate:       &due,
		CommonExpense: true,
		CreatedAt:     e.clock.Now(),
	}
	st.Debts.Append(debt)
	accrual.Debt = debt
	e.recorder.RentAccrued(false)

	e.logger.Info().
		Str("month", today.Format("2006-01")).
		Str("balance", st.Budget.Balance(domain.CZK).String()).
		Str("debt_id", debt.ID).
		Msg("shared budget short of rent, debt created")

	return accrual
}
