package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiter_PerClient(t *testing.T) {
	var limited []string
	rl := NewRateLimiter(1, 1).OnLimit(func(r *http.Request) {
		limited = append(limited, r.URL.Path)
	})
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/budget", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := send("10.0.0.1:1111"); code != http.StatusOK {
		t.Fatalf("expected first request to pass, got %d", code)
	}
	if code := send("10.0.0.1:2222"); code != http.StatusTooManyRequests {
		t.Fatalf("expected same host on another port to be throttled, got %d", code)
	}
	if code := send("10.0.0.2:1111"); code != http.StatusOK {
		t.Fatalf("expected other client to pass, got %d", code)
	}

	if len(limited) != 1 || limited[0] != "/api/v1/budget" {
		t.Fatalf("expected one limit callback, got %v", limited)
	}
}

func TestRateLimiter_CleanupLimiters(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.getLimiter("10.0.0.1")
	now = now.Add(10 * time.Minute)
	rl.getLimiter("10.0.0.2")

	if removed := rl.CleanupLimiters(5 * time.Minute); removed != 1 {
		t.Fatalf("expected one idle limiter to be removed, got %d", removed)
	}
	if _, ok := rl.limiters["10.0.0.2"]; !ok {
		t.Fatalf("active limiter must be kept")
	}
}
