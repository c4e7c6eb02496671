package usecase

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// TimeUseCase handles work-session tracking.
type TimeUseCase struct {
	store    *Store
	engine   *SettlementEngine
	rates    RateTable
	clock    Clock
	idGen    IDGenerator
	recorder Recorder
	logger   zerolog.Logger
}

// NewTimeUseCase creates a new TimeUseCase.
func NewTimeUseCase(
	store *Store,
	engine *SettlementEngine,
	rates RateTable,
	clock Clock,
	idGen IDGenerator,
	recorder Recorder,
	logger zerolog.Logger,
) *TimeUseCase {
	if recorder == nil {
		recorder = NopRecorder{}
	}

	return &TimeUseCase{
		store:    store,
		engine:   engine,
		rates:    rates,
		clock:    clock,
		idGen:    idGen,
		recorder: recorder,
		logger:   logger,
	}
}

// StartSessionInput represents input for starting the timer.
type StartSessionInput struct {
	Person      string
	Activity    string
	Subcategory string
	Note        string
}

// ManualSessionInput represents input for a manually entered session.
// Nil rates fall back to the person's defaults.
type ManualSessionInput struct {
	Person        string
	Activity      string
	Subcategory   string
	Note          string
	Start         time.Time
	End           time.Time
	HourlyRate    *decimal.Decimal
	DeductionRate *decimal.Decimal
}

// SessionResult is the outcome of a session mutation.
type SessionResult struct {
	Session *domain.WorkSession
	// Stopped is the session that Start closed implicitly, if any.
	Stopped    *domain.WorkSession
	Settlement *SettlementResult
}

// SessionStatus is a read-only view of the running session.
type SessionStatus struct {
	Session   *domain.WorkSession
	Elapsed   time.Duration
	Earnings  decimal.Decimal
	Deduction decimal.Decimal
}

// ListSessionsInput filters sessions by person and by start in [From, To).
type ListSessionsInput struct {
	Person string
	From   *time.Time
	To     *time.Time
}

// SessionSummary aggregates finalized sessions.
type SessionSummary struct {
	Person    string
	Count     int
	Hours     decimal.Decimal
	Earnings  decimal.Decimal
	Deduction decimal.Decimal
}

// Start opens a new session, stopping the running one first.
func (uc *TimeUseCase) Start(ctx context.Context, input StartSessionInput) (*SessionResult, error) {
	rate := uc.rates.Lookup(input.Person)
	now := uc.clock.Now()

	session := &domain.WorkSession{
		ID:            uc.idGen.Generate(),
		Person:        input.Person,
		Activity:      input.Activity,
		Subcategory:   input.Subcategory,
		Note:          input.Note,
		Start:         now,
		HourlyRate:    rate.Hourly,
		DeductionRate: rate.Deduction,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	result := &SessionResult{}
	err := uc.store.Mutate(ctx, func(st *State) error {
		if open := st.Sessions.Open(); open != nil {
			open.Close(now)
			result.Stopped = open.Clone()
			result.Settlement = uc.finalize(st, open, now)
		}

		st.Sessions.Append(session)
		result.Session = session.Clone()

		return nil
	})
	if result.Session == nil {
		return nil, err
	}

	uc.logger.Info().
		Str("session_id", session.ID).
		Str("person", session.Person).
		Str("activity", session.Activity).
		Msg("timer started")

	return result, err
}

// Stop closes the running session. It returns a nil Session when no session
// is running.
func (uc *TimeUseCase) Stop(ctx context.Context) (*SessionResult, error) {
	result := &SessionResult{}

	err := uc.store.Mutate(ctx, func(st *State) error {
		open := st.Sessions.Open()
		if open == nil {
			return errUnchanged
		}

		now := uc.clock.Now()
		open.Close(now)
		result.Session = open.Clone()
		result.Settlement = uc.finalize(st, open, now)

		return nil
	})
	if err != nil && result.Session == nil {
		return nil, err
	}

	if result.Session != nil {
		uc.logger.Info().
			Str("session_id", result.Session.ID).
			Dur("duration", result.Session.Duration(*result.Session.End)).
			Msg("timer stopped")
	}

	return result, err
}

// AddManual records an already finished session.
func (uc *TimeUseCase) AddManual(ctx context.Context, input ManualSessionInput) (*SessionResult, error) {
	session, err := uc.manualSession(input, uc.rates.Lookup(input.Person))
	if err != nil {
		return nil, err
	}

	result := &SessionResult{}
	err = uc.store.Mutate(ctx, func(st *State) error {
		st.Sessions.Append(session)
		result.Session = session.Clone()
		result.Settlement = uc.finalize(st, session, uc.clock.Now())
		return nil
	})
	if result.Session == nil {
		return nil, err
	}

	return result, err
}

// Edit replaces a finished session: the original is removed and its
// deduction taken back out of the shared balance, then the edited version is
// added as a new manual session, which posts its deduction and may trigger
// automatic debt payments. Nil rates keep the original session's rates.
func (uc *TimeUseCase) Edit(ctx context.Context, id string, input ManualSessionInput) (*SessionResult, error) {
	result := &SessionResult{}

	err := uc.store.Mutate(ctx, func(st *State) error {
		original, err := st.Sessions.Find(id)
		if err != nil {
			return err
		}
		if original.IsOpen() {
			return domain.ErrSessionOpen
		}

		edited, err := uc.manualSession(input, Rate{Hourly: original.HourlyRate, Deduction: original.DeductionRate})
		if err != nil {
			return err
		}

		now := uc.clock.Now()
		if _, err := st.Sessions.Remove(id); err != nil {
			return err
		}
		st.Budget.Debit(domain.CZK, original.Deduction(now))

		st.Sessions.Append(edited)
		result.Session = edited.Clone()
		result.Settlement = uc.finalize(st, edited, now)

		return nil
	})
	if result.Session == nil {
		return nil, err
	}

	uc.logger.Info().
		Str("original_id", id).
		Str("session_id", result.Session.ID).
		Msg("session edited")

	return result, err
}

// Delete removes a session. A finished session's deduction is taken back out
// of the shared balance.
func (uc *TimeUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Mutate(ctx, func(st *State) error {
		removed, err := st.Sessions.Remove(id)
		if err != nil {
			return err
		}

		if !removed.IsOpen() {
			st.Budget.Debit(domain.CZK, removed.Deduction(uc.clock.Now()))
		}

		uc.logger.Info().Str("session_id", id).Msg("session deleted")

		return nil
	})
}

// Get returns a session by ID.
func (uc *TimeUseCase) Get(ctx context.Context, id string) (*domain.WorkSession, error) {
	var (
		session *domain.WorkSession
		err     error
	)

	uc.store.View(func(st *State) {
		var s *domain.WorkSession
		s, err = st.Sessions.Find(id)
		if err == nil {
			session = s.Clone()
		}
	})

	return session, err
}

// List returns sessions matching the filter, oldest first.
func (uc *TimeUseCase) List(ctx context.Context, input ListSessionsInput) ([]*domain.WorkSession, error) {
	var sessions []*domain.WorkSession

	uc.store.View(func(st *State) {
		for _, s := range st.Sessions.Sessions {
			if matchSession(s, input) {
				sessions = append(sessions, s.Clone())
			}
		}
	})

	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Start.Before(sessions[j].Start)
	})

	return sessions, nil
}

// Current returns the running session with its elapsed time and derived
// values, or nil when the timer is stopped. It never mutates state.
func (uc *TimeUseCase) Current(ctx context.Context) (*SessionStatus, error) {
	var status *SessionStatus

	uc.store.View(func(st *State) {
		open := st.Sessions.Open()
		if open == nil {
			return
		}

		now := uc.clock.Now()
		status = &SessionStatus{
			Session:   open.Clone(),
			Elapsed:   open.Duration(now),
			Earnings:  open.Earnings(now),
			Deduction: open.Deduction(now),
		}
	})

	return status, nil
}

// Summary aggregates finished sessions that match the filter.
func (uc *TimeUseCase) Summary(ctx context.Context, input ListSessionsInput) (*SessionSummary, error) {
	summary := &SessionSummary{
		Person:    input.Person,
		Hours:     decimal.Zero,
		Earnings:  decimal.Zero,
		Deduction: decimal.Zero,
	}

	uc.store.View(func(st *State) {
		now := uc.clock.Now()
		for _, s := range st.Sessions.Sessions {
			if s.IsOpen() || !matchSession(s, input) {
				continue
			}
			summary.Count++
			summary.Hours = summary.Hours.Add(s.Hours(now))
			summary.Earnings = summary.Earnings.Add(s.Earnings(now))
			summary.Deduction = summary.Deduction.Add(s.Deduction(now))
		}
	})

	return summary, nil
}

func (uc *TimeUseCase) manualSession(input ManualSessionInput, defaults Rate) (*domain.WorkSession, error) {
	hourly := defaults.Hourly
	if input.HourlyRate != nil {
		hourly = *input.HourlyRate
	}

	deduction := defaults.Deduction
	if input.DeductionRate != nil {
		deduction = *input.DeductionRate
	}

	end := input.End
	session := &domain.WorkSession{
		ID:            uc.idGen.Generate(),
		Person:        input.Person,
		Activity:      input.Activity,
		Subcategory:   input.Subcategory,
		Note:          input.Note,
		Start:         input.Start,
		End:           &end,
		HourlyRate:    hourly,
		DeductionRate: deduction,
		Manual:        true,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

func (uc *TimeUseCase) finalize(st *State, session *domain.WorkSession, now time.Time) *SettlementResult {
	deduction := session.Deduction(now)
	uc.recorder.SessionFinalized(deduction)

	return uc.engine.PostDeduction(st, deduction)
}

func matchSession(s *domain.WorkSession, input ListSessionsInput) bool {
	if input.Person != "" && normalizePerson(s.Person) != normalizePerson(input.Person) {
		return false
	}
	if input.From != nil && s.Start.Before(*input.From) {
		return false
	}
	if input.To != nil && !s.Start.Before(*input.To) {
		return false
	}
	return true
}
