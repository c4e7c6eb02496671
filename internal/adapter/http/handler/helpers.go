package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/domain"
)

// PersistenceWarningHeader is set when a mutation was applied in memory but
// could not be saved.
const PersistenceWarningHeader = "X-Persistence-Warning"

// Clock provides the instant used for derived session values.
type Clock interface {
	Now() time.Time
}

type warner interface {
	SetWarning(string)
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeMutation writes the result of a mutation. A persistence failure does
// not fail the request: the result is written with a warning.
func writeMutation(w http.ResponseWriter, status int, data warner, err error) {
	if err != nil {
		w.Header().Set(PersistenceWarningHeader, err.Error())
		data.SetWarning(err.Error())
	}
	writeJSON(w, status, data)
}

// currencyQuery parses an optional currency query parameter.
func currencyQuery(r *http.Request) (domain.Currency, error) {
	val := r.URL.Query().Get("currency")
	if val == "" {
		return "", nil
	}
	return domain.ValidateCurrency(val)
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSessionOpen):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAutomaticPayment):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOverpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrMissingInterval),
		errors.Is(err, domain.ErrSameCreditorDebtor),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountTooLarge),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidCurrency),
		errors.Is(err, domain.ErrInvalidKind),
		errors.Is(err, domain.ErrEmptyField),
		errors.Is(err, domain.ErrFieldTooLong):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON decodes the request body into v and rejects unknown fields.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// parseBoolQuery parses an optional boolean query parameter.
func parseBoolQuery(r *http.Request, key string) (*bool, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return &b, nil
}

// parseTimeQuery parses an optional RFC 3339 or YYYY-MM-DD query parameter.
// Dates are midnight in loc.
func parseTimeQuery(r *http.Request, key string, loc *time.Location) (*time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, val); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(time.DateOnly, val, loc)
	if err != nil {
		return nil, fmt.Errorf("%s: want RFC 3339 or YYYY-MM-DD, got %q", key, val)
	}
	return &t, nil
}

// parseMonthQuery parses an optional YYYY-MM query parameter as the first of
// that month in loc.
func parseMonthQuery(r *http.Request, key string, loc *time.Location) (time.Time, error) {
	val := strings.TrimSpace(r.URL.Query().Get(key))
	if val == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation("2006-01", val, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: want YYYY-MM, got %q", key, val)
	}
	return t, nil
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// latest keeps the last n items of a list sorted oldest first. n <= 0 keeps
// everything.
func latest[T any](items []T, n int) []T {
	if n <= 0 || len(items) <= n {
		return items
	}
	return items[len(items)-n:]
}
