package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/domain"
)

// Rate is a person's default hourly rate and deduction rate.
type Rate struct {
	Hourly    decimal.Decimal
	Deduction decimal.Decimal
}

// RateTable holds per-person default rates.
type RateTable map[string]Rate

// NewRateTable builds a table from "person -> value" string maps as read from
// configuration. A person present in only one map gets zero for the other rate.
func NewRateTable(hourly, deduction map[string]string) (RateTable, error) {
	table := make(RateTable, len(hourly))

	for person, raw := range hourly {
		v, err := parseRate(person, raw)
		if err != nil {
			return nil, err
		}
		r := table[normalizePerson(person)]
		r.Hourly = v
		table[normalizePerson(person)] = r
	}

	for person, raw := range deduction {
		v, err := parseRate(person, raw)
		if err != nil {
			return nil, err
		}
		if v.GreaterThan(decimal.NewFromInt(1)) {
			return nil, fmt.Errorf("deduction rate for %s must be at most 1, got %s", person, raw)
		}
		r := table[normalizePerson(person)]
		r.Deduction = v
		table[normalizePerson(person)] = r
	}

	return table, nil
}

// Lookup returns the rates for a person, or zero rates if the person is unknown.
func (t RateTable) Lookup(person string) Rate {
	r, ok := t[normalizePerson(person)]
	if !ok {
		return Rate{Hourly: decimal.Zero, Deduction: decimal.Zero}
	}
	return r
}

func parseRate(person, raw string) (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate for %s: %w", person, err)
	}
	if err := domain.ValidateRate(v); err != nil {
		return decimal.Zero, fmt.Errorf("rate for %s: %w", person, err)
	}
	return v, nil
}

func normalizePerson(person string) string {
	return strings.ToLower(strings.TrimSpace(person))
}
