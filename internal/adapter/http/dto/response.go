package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Meta carries the persistence warning of a mutation that was applied in
// memory but could not be saved.
type Meta struct {
	Warning string `json:"warning,omitempty"`
}

// SetWarning sets the warning.
func (m *Meta) SetWarning(warning string) {
	m.Warning = warning
}

// SessionResponse represents a work session with its derived values.
type SessionResponse struct {
	ID            string          `json:"id"`
	Person        string          `json:"person"`
	Activity      string          `json:"activity"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Note          string          `json:"note,omitempty"`
	Start         time.Time       `json:"start"`
	End           *time.Time      `json:"end,omitempty"`
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	DeductionRate decimal.Decimal `json:"deduction_rate"`
	Manual        bool            `json:"manual"`
	Hours         decimal.Decimal `json:"hours"`
	Earnings      decimal.Decimal `json:"earnings"`
	Deduction     decimal.Decimal `json:"deduction"`
}

// SessionFromDomain converts a domain session; now is used for an open session.
func SessionFromDomain(s *domain.WorkSession, now time.Time) *SessionResponse {
	if s == nil {
		return nil
	}

	return &SessionResponse{
		ID:            s.ID,
		Person:        s.Person,
		Activity:      s.Activity,
		Subcategory:   s.Subcategory,
		Note:          s.Note,
		Start:         s.Start,
		End:           s.End,
		HourlyRate:    s.HourlyRate,
		DeductionRate: s.DeductionRate,
		Manual:        s.Manual,
		Hours:         s.Hours(now).Round(4),
		Earnings:      s.Earnings(now).Round(2),
		Deduction:     s.Deduction(now).Round(2),
	}
}

// SessionsFromDomain converts domain sessions.
func SessionsFromDomain(sessions []*domain.WorkSession, now time.Time) []*SessionResponse {
	result := make([]*SessionResponse, len(sessions))
	for i, s := range sessions {
		result[i] = SessionFromDomain(s, now)
	}
	return result
}

// PaymentResponse represents one payment of a debt.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Date      time.Time       `json:"date"`
	Automatic bool            `json:"automatic"`
}

// AppliedPaymentResponse is an automatic payment made by a settlement pass.
type AppliedPaymentResponse struct {
	DebtID string `json:"debt_id"`
	PaymentResponse
}

// SettlementResponse describes a settlement pass.
type SettlementResponse struct {
	BalanceBefore decimal.Decimal           `json:"balance_before"`
	BalanceAfter  decimal.Decimal           `json:"balance_after"`
	Total         decimal.Decimal           `json:"total"`
	Payments      []*AppliedPaymentResponse `json:"payments"`
}

// SettlementFromUseCase converts a settlement result. A nil result gives nil.
func SettlementFromUseCase(r *usecase.SettlementResult) *SettlementResponse {
	if r == nil {
		return nil
	}

	payments := make([]*AppliedPaymentResponse, len(r.Payments))
	for i, p := range r.Payments {
		payments[i] = &AppliedPaymentResponse{
			DebtID:          p.DebtID,
			PaymentResponse: paymentFromDomain(p.Payment),
		}
	}

	return &SettlementResponse{
		BalanceBefore: r.BalanceBefore,
		BalanceAfter:  r.BalanceAfter,
		Total:         r.Total(),
		Payments:      payments,
	}
}

// SessionResultResponse is returned by every session mutation.
type SessionResultResponse struct {
	Session    *SessionResponse    `json:"session"`
	Stopped    *SessionResponse    `json:"stopped,omitempty"`
	Settlement *SettlementResponse `json:"settlement,omitempty"`
	Meta
}

// SessionResultFromUseCase converts a session mutation result.
func SessionResultFromUseCase(r *usecase.SessionResult, now time.Time) *SessionResultResponse {
	return &SessionResultResponse{
		Session:    SessionFromDomain(r.Session, now),
		Stopped:    SessionFromDomain(r.Stopped, now),
		Settlement: SettlementFromUseCase(r.Settlement),
	}
}

// TimerResponse is the state of the timer.
type TimerResponse struct {
	Running   bool             `json:"running"`
	Session   *SessionResponse `json:"session,omitempty"`
	Elapsed   string           `json:"elapsed,omitempty"`
	Seconds   int64            `json:"elapsed_seconds"`
	Earnings  decimal.Decimal  `json:"earnings"`
	Deduction decimal.Decimal  `json:"deduction"`
}

// TimerFromUseCase converts the running session status. Nil means stopped.
func TimerFromUseCase(s *usecase.SessionStatus, now time.Time) *TimerResponse {
	if s == nil {
		return &TimerResponse{Earnings: decimal.Zero, Deduction: decimal.Zero}
	}

	return &TimerResponse{
		Running:   true,
		Session:   SessionFromDomain(s.Session, now),
		Elapsed:   s.Elapsed.Truncate(time.Second).String(),
		Seconds:   int64(s.Elapsed / time.Second),
		Earnings:  s.Earnings.Round(2),
		Deduction: s.Deduction.Round(2),
	}
}

// SessionSummaryResponse aggregates finished sessions.
type SessionSummaryResponse struct {
	Person    string          `json:"person,omitempty"`
	Count     int             `json:"count"`
	Hours     decimal.Decimal `json:"hours"`
	Earnings  decimal.Decimal `json:"earnings"`
	Deduction decimal.Decimal `json:"deduction"`
}

// SessionSummaryFromUseCase converts a session summary.
func SessionSummaryFromUseCase(s *usecase.SessionSummary) *SessionSummaryResponse {
	return &SessionSummaryResponse{
		Person:    s.Person,
		Count:     s.Count,
		Hours:     s.Hours.Round(4),
		Earnings:  s.Earnings.Round(2),
		Deduction: s.Deduction.Round(2),
	}
}

// RecordResponse represents a finance record.
type RecordResponse struct {
	ID            string          `json:"id"`
	Kind          string          `json:"kind"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
	Date          time.Time       `json:"date"`
	Category      string          `json:"category"`
	Currency      string          `json:"currency"`
	OffsetApplied bool            `json:"offset_applied"`
}

// RecordFromDomain converts a domain finance record.
func RecordFromDomain(r *domain.FinanceRecord) *RecordResponse {
	if r == nil {
		return nil
	}

	return &RecordResponse{
		ID:            r.ID,
		Kind:          string(r.Kind),
		Amount:        r.Amount,
		Description:   r.Description,
		Date:          r.Date,
		Category:      r.Category,
		Currency:      string(r.Currency),
		OffsetApplied: r.OffsetApplied,
	}
}

// RecordsFromDomain converts domain finance records.
func RecordsFromDomain(records []*domain.FinanceRecord) []*RecordResponse {
	result := make([]*RecordResponse, len(records))
	for i, r := range records {
		result[i] = RecordFromDomain(r)
	}
	return result
}

// RecordResultResponse is returned by finance mutations.
type RecordResultResponse struct {
	Record *RecordResponse `json:"record"`
	Offset bool            `json:"offset"`
	Meta
}

// CurrencyTotalsResponse holds the totals of one currency.
type CurrencyTotalsResponse struct {
	Income     decimal.Decimal            `json:"income"`
	Expense    decimal.Decimal            `json:"expense"`
	Net        decimal.Decimal            `json:"net"`
	ByCategory map[string]decimal.Decimal `json:"by_category"`
}

// MonthlySummaryResponse aggregates one month of finance records.
type MonthlySummaryResponse struct {
	Year       int                                `json:"year"`
	Month      int                                `json:"month"`
	Count      int                                `json:"count"`
	Currencies map[string]*CurrencyTotalsResponse `json:"currencies"`
}

// MonthlySummaryFromUseCase converts a monthly summary.
func MonthlySummaryFromUseCase(s *usecase.MonthlySummary) *MonthlySummaryResponse {
	resp := &MonthlySummaryResponse{
		Year:       s.Year,
		Month:      int(s.Month),
		Count:      s.Count,
		Currencies: make(map[string]*CurrencyTotalsResponse, len(s.Currencies)),
	}

	for c, t := range s.Currencies {
		resp.Currencies[string(c)] = &CurrencyTotalsResponse{
			Income:     t.Income,
			Expense:    t.Expense,
			Net:        t.Net,
			ByCategory: t.ByCategory,
		}
	}

	return resp
}

// DebtResponse represents a debt with its derived totals.
type DebtResponse struct {
	ID            string             `json:"id"`
	Creditor      string             `json:"creditor"`
	Debtor        string             `json:"debtor"`
	Amount        decimal.Decimal    `json:"amount"`
	Paid          decimal.Decimal    `json:"paid"`
	Remaining     decimal.Decimal    `json:"remaining"`
	Settled       bool               `json:"settled"`
	Description   string             `json:"description"`
	Currency      string             `json:"currency"`
	DueDate       *time.Time         `json:"due_date,omitempty"`
	CommonExpense bool               `json:"common_expense"`
	Payments      []*PaymentResponse `json:"payments"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DebtFromDomain converts a domain debt.
func DebtFromDomain(d *domain.Debt) *DebtResponse {
	if d == nil {
		return nil
	}

	payments := make([]*PaymentResponse, len(d.Payments))
	for i, p := range d.Payments {
		resp := paymentFromDomain(p)
		payments[i] = &resp
	}

	return &DebtResponse{
		ID:            d.ID,
		Creditor:      d.Creditor,
		Debtor:        d.Debtor,
		Amount:        d.Amount,
		Paid:          d.Paid(),
		Remaining:     d.Remaining(),
		Settled:       d.IsSettled(),
		Description:   d.Description,
		Currency:      string(d.Currency),
		DueDate:       d.DueDate,
		CommonExpense: d.CommonExpense,
		Payments:      payments,
		CreatedAt:     d.CreatedAt,
	}
}

// DebtsFromDomain converts domain debts.
func DebtsFromDomain(debts []*domain.Debt) []*DebtResponse {
	result := make([]*DebtResponse, len(debts))
	for i, d := range debts {
		result[i] = DebtFromDomain(d)
	}
	return result
}

// DebtResultResponse is returned by debt mutations.
type DebtResultResponse struct {
	Debt *DebtResponse `json:"debt"`
	Meta
}

// OutstandingResponse holds open debt totals per currency.
type OutstandingResponse struct {
	Count  int                        `json:"count"`
	Totals map[string]decimal.Decimal `json:"totals"`
}

// OutstandingFromUseCase converts outstanding totals.
func OutstandingFromUseCase(o *usecase.Outstanding) *OutstandingResponse {
	totals := make(map[string]decimal.Decimal, len(o.Totals))
	for c, v := range o.Totals {
		totals[string(c)] = v
	}
	return &OutstandingResponse{Count: o.Count, Totals: totals}
}

// BudgetResponse represents the shared budget.
type BudgetResponse struct {
	Balances  map[string]decimal.Decimal `json:"balances"`
	Reserve   decimal.Decimal            `json:"reserve"`
	Available decimal.Decimal            `json:"available"`
}

// BudgetFromUseCase converts the budget status.
func BudgetFromUseCase(s *usecase.BudgetStatus) *BudgetResponse {
	balances := make(map[string]decimal.Decimal, len(s.Balances))
	for c, v := range s.Balances {
		balances[string(c)] = v
	}
	return &BudgetResponse{Balances: balances, Reserve: s.Reserve, Available: s.Available}
}

// SettleResponse is returned by an explicit settlement pass.
type SettleResponse struct {
	Settlement *SettlementResponse `json:"settlement"`
	Meta
}

// RentResponse is returned by a rent accrual check.
type RentResponse struct {
	Accrued bool            `json:"accrued"`
	Record  *RecordResponse `json:"record,omitempty"`
	Debt    *DebtResponse   `json:"debt,omitempty"`
	Meta
}

// RentFromUseCase converts a rent accrual. Nil means nothing was due.
func RentFromUseCase(a *usecase.RentAccrual) *RentResponse {
	if a == nil {
		return &RentResponse{}
	}
	return &RentResponse{
		Accrued: true,
		Record:  RecordFromDomain(a.Record),
		Debt:    DebtFromDomain(a.Debt),
	}
}

// DeletedResponse is returned by deletions.
type DeletedResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
	Meta
}

func paymentFromDomain(p domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		Date:      p.Date,
		Automatic: p.Automatic,
	}
}
