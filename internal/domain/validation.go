package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidRate     = errors.New("rate must not be negative")
	ErrInvalidCurrency = errors.New("invalid currency code")
	ErrInvalidKind     = errors.New("invalid record kind")
	ErrAmountTooLarge  = errors.New("amount exceeds maximum allowed")
	ErrEmptyField      = errors.New("required field is empty")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
)

// Validation constants
const (
	MaxTextLength = 255
	MaxAmount     = "1000000000" // 1 billion
)

// ValidateCurrency validates and normalizes a currency code.
func ValidateCurrency(currency string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(currency)))

	if !c.Valid() {
		return "", fmt.Errorf("%w: %s is not one of CZK, EUR, USD", ErrInvalidCurrency, currency)
	}

	return c, nil
}

// ValidateAmount validates a payment, record or debt amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ValidateRate validates an hourly or deduction rate.
func ValidateRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return ErrInvalidRate
	}
	return nil
}

// ValidateText checks a required free-text field such as a person or activity.
func ValidateText(field, value string) error {
	value = strings.TrimSpace(value)

	if value == "" {
		return fmt.Errorf("%w: %s", ErrEmptyField, field)
	}

	if len(value) > MaxTextLength {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrFieldTooLong, field, MaxTextLength)
	}

	return nil
}

// ValidateKind validates a finance record kind.
func ValidateKind(kind string) (RecordKind, error) {
	k := RecordKind(strings.ToLower(strings.TrimSpace(kind)))

	switch k {
	case KindIncome, KindExpense:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
}
