package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// FinanceUseCase handles income and expense records.
type FinanceUseCase struct {
	store  *Store
	engine *SettlementEngine
	clock  Clock
	idGen  IDGenerator
	logger zerolog.Logger
}

// NewFinanceUseCase creates a new FinanceUseCase.
func NewFinanceUseCase(
	store *Store,
	engine *SettlementEngine,
	clock Clock,
	idGen IDGenerator,
	logger zerolog.Logger,
) *FinanceUseCase {
	return &FinanceUseCase{
		store:  store,
		engine: engine,
		clock:  clock,
		idGen:  idGen,
		logger: logger,
	}
}

// AddRecordInput represents input for adding a finance record.
type AddRecordInput struct {
	Kind        domain.RecordKind
	Amount      decimal.Decimal
	Description string
	Category    string
	Currency    domain.Currency
}

// RecordResult is the outcome of adding a record.
type RecordResult struct {
	Record *domain.FinanceRecord
	// Offset reports whether a CZK income was offset against the shared balance.
	Offset bool
}

// ListRecordsInput filters records. A zero Month means any month.
type ListRecordsInput struct {
	Kind     domain.RecordKind
	Currency domain.Currency
	Category string
	Month    time.Time
}

// CurrencyTotals aggregates records of one currency.
type CurrencyTotals struct {
	Income     decimal.Decimal
	Expense    decimal.Decimal
	Net        decimal.Decimal
	ByCategory map[string]decimal.Decimal
}

// MonthlySummary aggregates a calendar month.
type MonthlySummary struct {
	Year       int
	Month      time.Month
	Count      int
	Currencies map[domain.Currency]*CurrencyTotals
}

// Add records an income or expense dated now. A CZK income is offset against
// the shared balance when today's earnings cover it.
func (uc *FinanceUseCase) Add(ctx context.Context, input AddRecordInput) (*RecordResult, error) {
	record, err := uc.newRecord(input)
	if err != nil {
		return nil, err
	}

	result := &RecordResult{}
	err = uc.store.Mutate(ctx, func(st *State) error {
		uc.apply(st, record, result)
		return nil
	})

	uc.logger.Info().
		Str("record_id", record.ID).
		Str("kind", string(record.Kind)).
		Str("amount", record.Amount.String()).
		Str("currency", string(record.Currency)).
		Bool("offset", result.Offset).
		Msg("finance record added")

	return result, err
}

// Edit replaces a record: the original is deleted, reversing its offset, and
// the edited version is added as a new record dated now.
func (uc *FinanceUseCase) Edit(ctx context.Context, id string, input AddRecordInput) (*RecordResult, error) {
	record, err := uc.newRecord(input)
	if err != nil {
		return nil, err
	}

	result := &RecordResult{}
	err = uc.store.Mutate(ctx, func(st *State) error {
		if _, err := uc.remove(st, id); err != nil {
			return err
		}
		uc.apply(st, record, result)
		return nil
	})
	if result.Record == nil {
		return nil, err
	}

	uc.logger.Info().
		Str("original_id", id).
		Str("record_id", record.ID).
		Msg("finance record edited")

	return result, err
}

// Delete removes a record. An income that was offset against the shared
// balance is credited back.
func (uc *FinanceUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Mutate(ctx, func(st *State) error {
		removed, err := uc.remove(st, id)
		if err != nil {
			return err
		}

		uc.logger.Info().
			Str("record_id", id).
			Bool("offset_reversed", removed.OffsetApplied).
			Msg("finance record deleted")

		return nil
	})
}

// Get returns a record by ID.
func (uc *FinanceUseCase) Get(ctx context.Context, id string) (*domain.FinanceRecord, error) {
	var (
		record *domain.FinanceRecord
		err    error
	)

	uc.store.View(func(st *State) {
		var r *domain.FinanceRecord
		r, err = st.Finance.Find(id)
		if err == nil {
			record = r.Clone()
		}
	})

	return record, err
}

// List returns records matching the filter, oldest first.
func (uc *FinanceUseCase) List(ctx context.Context, input ListRecordsInput) ([]*domain.FinanceRecord, error) {
	var records []*domain.FinanceRecord

	uc.store.View(func(st *State) {
		for _, r := range st.Finance.Records {
			if matchRecord(r, input) {
				records = append(records, r.Clone())
			}
		}
	})

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	return records, nil
}

// MonthlySummary totals the records of one calendar month per currency and
// category.
func (uc *FinanceUseCase) MonthlySummary(ctx context.Context, year int, month time.Month) (*MonthlySummary, error) {
	loc := uc.clock.Now().Location()
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)

	summary := &MonthlySummary{
		Year:       year,
		Month:      month,
		Currencies: make(map[domain.Currency]*CurrencyTotals),
	}

	uc.store.View(func(st *State) {
		for _, r := range st.Finance.Records {
			if !domain.SameMonth(r.Date, first) {
				continue
			}

			totals, ok := summary.Currencies[r.Currency]
			if !ok {
				totals = &CurrencyTotals{
					Income:     decimal.Zero,
					Expense:    decimal.Zero,
					Net:        decimal.Zero,
					ByCategory: make(map[string]decimal.Decimal),
				}
				summary.Currencies[r.Currency] = totals
			}

			if r.Kind == domain.KindIncome {
				totals.Income = totals.Income.Add(r.Amount)
			} else {
				totals.Expense = totals.Expense.Add(r.Amount)
			}
			totals.Net = totals.Net.Add(r.Signed())
			totals.ByCategory[r.Category] = totals.ByCategory[r.Category].Add(r.Signed())
			summary.Count++
		}
	})

	return summary, nil
}

func (uc *FinanceUseCase) newRecord(input AddRecordInput) (*domain.FinanceRecord, error) {
	category := strings.TrimSpace(input.Category)
	if category == "" {
		category = DefaultCategory
	}

	record := &domain.FinanceRecord{
		ID:          uc.idGen.Generate(),
		Kind:        input.Kind,
		Amount:      input.Amount,
		Description: strings.TrimSpace(input.Description),
		Date:        uc.clock.Now(),
		Category:    category,
		Currency:    input.Currency,
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	return record, nil
}

func (uc *FinanceUseCase) apply(st *State, record *domain.FinanceRecord, result *RecordResult) {
	if record.Kind == domain.KindIncome && record.Currency == domain.CZK {
		record.OffsetApplied = uc.engine.OffsetTodayEarnings(st, record.Amount)
	}

	st.Finance.Append(record)
	result.Record = record.Clone()
	result.Offset = record.OffsetApplied
}

func (uc *FinanceUseCase) remove(st *State, id string) (*domain.FinanceRecord, error) {
	removed, err := st.Finance.Remove(id)
	if err != nil {
		return nil, err
	}

	if removed.OffsetApplied {
		st.Budget.Credit(domain.CZK, removed.Amount)
	}

	return removed, nil
}

func matchRecord(r *domain.FinanceRecord, input ListRecordsInput) bool {
	if input.Kind != "" && r.Kind != input.Kind {
		return false
	}
	if input.Currency != "" && r.Currency != input.Currency {
		return false
	}
	if input.Category != "" && !strings.EqualFold(r.Category, input.Category) {
		return false
	}
	if !input.Month.IsZero() && !domain.SameMonth(r.Date, input.Month) {
		return false
	}
	return true
}
