package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

var nanosPerHour = decimal.NewFromInt(int64(time.Hour))

// WorkSession is a tracked interval of billable work.
// Earnings and deduction are derived on read and never stored.
type WorkSession struct {
	ID            string          `json:"id"`
	Person        string          `json:"person"`
	Activity      string          `json:"activity"`
	Subcategory   string          `json:"subcategory,omitempty"`
	Note          string          `json:"note,omitempty"`
	Start         time.Time       `json:"start"`
	End           *time.Time      `json:"end,omitempty"`
	HourlyRate    decimal.Decimal `json:"hourlyRate"`
	DeductionRate decimal.Decimal `json:"deductionRate"`
	Manual        bool            `json:"manual"`
}

// IsOpen reports whether the session is still running.
func (s *WorkSession) IsOpen() bool {
	return s.End == nil
}

// Duration returns end - start, using now for an open session.
func (s *WorkSession) Duration(now time.Time) time.Duration {
	end := now
	if s.End != nil {
		end = *s.End
	}
	return end.Sub(s.Start)
}

// Hours returns the duration in hours as an exact decimal.
func (s *WorkSession) Hours(now time.Time) decimal.Decimal {
	return decimal.NewFromInt(int64(s.Duration(now))).Div(nanosPerHour)
}

// Earnings returns hours × hourly rate.
func (s *WorkSession) Earnings(now time.Time) decimal.Decimal {
	return s.Hours(now).Mul(s.HourlyRate)
}

// Deduction returns earnings × deduction rate.
func (s *WorkSession) Deduction(now time.Time) decimal.Decimal {
	return s.Earnings(now).Mul(s.DeductionRate)
}

// Close finalizes an open session at the given instant.
func (s *WorkSession) Close(at time.Time) {
	end := at
	s.End = &end
}

// Validate checks the fields required for any session.
func (s *WorkSession) Validate() error {
	if err := ValidateText("person", s.Person); err != nil {
		return err
	}

	if err := ValidateText("activity", s.Activity); err != nil {
		return err
	}

	if err := ValidateRate(s.HourlyRate); err != nil {
		return err
	}

	if err := ValidateRate(s.DeductionRate); err != nil {
		return err
	}

	if s.Start.IsZero() || (s.End != nil && s.End.IsZero()) {
		return ErrMissingInterval
	}

	if s.End != nil && s.End.Before(s.Start) {
		return ErrInvalidInterval
	}

	return nil
}

// TimeLedger owns all work sessions in insertion order.
type TimeLedger struct {
	Sessions []*WorkSession `json:"items"`
}

// Open returns the running session, if any.
func (l *TimeLedger) Open() *WorkSession {
	for _, s := range l.Sessions {
		if s.IsOpen() {
			return s
		}
	}
	return nil
}

// Find returns the session with the given ID.
func (l *TimeLedger) Find(id string) (*WorkSession, error) {
	for _, s := range l.Sessions {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// Append adds a session to the ledger.
func (l *TimeLedger) Append(s *WorkSession) {
	l.Sessions = append(l.Sessions, s)
}

// Remove deletes a session and returns it.
func (l *TimeLedger) Remove(id string) (*WorkSession, error) {
	for i, s := range l.Sessions {
		if s.ID == id {
			l.Sessions = append(l.Sessions[:i], l.Sessions[i+1:]...)
			return s, nil
		}
	}
	return nil, ErrSessionNotFound
}

// EarningsOn sums the earnings of sessions that started on the calendar day
// of day, in day's location.
func (l *TimeLedger) EarningsOn(day, now time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, s := range l.Sessions {
		if SameDay(s.Start, day) {
			total = total.Add(s.Earnings(now))
		}
	}
	return total
}

// SameDay reports whether t falls on the calendar day of day, in day's location.
func SameDay(t, day time.Time) bool {
	t = t.In(day.Location())
	y1, m1, d1 := t.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// SameMonth reports whether t falls in the calendar month of day, in day's location.
func SameMonth(t, day time.Time) bool {
	t = t.In(day.Location())
	return t.Year() == day.Year() && t.Month() == day.Month()
}

// Clone returns a copy that shares no memory with s.
func (s *WorkSession) Clone() *WorkSession {
	c := *s
	if s.End != nil {
		end := *s.End
		c.End = &end
	}
	return &c
}
