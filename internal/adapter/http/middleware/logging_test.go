package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLoggingMiddleware(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		warning string
		level   string
	}{
		{"success", http.StatusOK, "", "info"},
		{"server error", http.StatusInternalServerError, "", "error"},
		{"persistence warning", http.StatusCreated, "save snapshot: disk full", "warn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			mw := NewLoggingMiddleware(zerolog.New(&buf))

			handler := chimiddleware.RequestID(mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.warning != "" {
					w.Header().Set("X-Persistence-Warning", tt.warning)
				}
				w.WriteHeader(tt.status)
			})))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/finance", nil))

			var entry map[string]any
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("decode log line %q: %v", buf.String(), err)
			}
			if entry["level"] != tt.level {
				t.Fatalf("expected level %s, got %v", tt.level, entry["level"])
			}
			if int(entry["status"].(float64)) != tt.status {
				t.Fatalf("expected status %d, got %v", tt.status, entry["status"])
			}
			if entry["request_id"] == nil || entry["request_id"] == "" {
				t.Fatalf("expected request_id field, got %v", entry)
			}
		})
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	rec := httptest.NewRecorder()

	Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/budget", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Body.String() != `{"error":"internal server error"}` {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}
