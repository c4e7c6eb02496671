package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

var handlerNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type sessionServiceStub struct {
	startFn   func(ctx context.Context, input usecase.StartSessionInput) (*usecase.SessionResult, error)
	stopFn    func(ctx context.Context) (*usecase.SessionResult, error)
	currentFn func(ctx context.Context) (*usecase.SessionStatus, error)
	addFn     func(ctx context.Context, input usecase.ManualSessionInput) (*usecase.SessionResult, error)
	editFn    func(ctx context.Context, id string, input usecase.ManualSessionInput) (*usecase.SessionResult, error)
	deleteFn  func(ctx context.Context, id string) error
	getFn     func(ctx context.Context, id string) (*domain.WorkSession, error)
	listFn    func(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.WorkSession, error)
	summaryFn func(ctx context.Context, input usecase.ListSessionsInput) (*usecase.SessionSummary, error)
}

func (s *sessionServiceStub) Start(ctx context.Context, input usecase.StartSessionInput) (*usecase.SessionResult, error) {
	return s.startFn(ctx, input)
}

func (s *sessionServiceStub) Stop(ctx context.Context) (*usecase.SessionResult, error) {
	return s.stopFn(ctx)
}

func (s *sessionServiceStub) Current(ctx context.Context) (*usecase.SessionStatus, error) {
	return s.currentFn(ctx)
}

func (s *sessionServiceStub) AddManual(ctx context.Context, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
	return s.addFn(ctx, input)
}

func (s *sessionServiceStub) Edit(ctx context.Context, id string, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
	return s.editFn(ctx, id, input)
}

func (s *sessionServiceStub) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *sessionServiceStub) Get(ctx context.Context, id string) (*domain.WorkSession, error) {
	return s.getFn(ctx, id)
}

func (s *sessionServiceStub) List(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.WorkSession, error) {
	return s.listFn(ctx, input)
}

func (s *sessionServiceStub) Summary(ctx context.Context, input usecase.ListSessionsInput) (*usecase.SessionSummary, error) {
	return s.summaryFn(ctx, input)
}

func closedSession(id string) *domain.WorkSession {
	start := handlerNow.Add(-2 * time.Hour)
	end := handlerNow.Add(-time.Hour)
	return &domain.WorkSession{
		ID: id, Person: "A", Activity: "dev", Start: start, End: &end, Manual: true,
		HourlyRate: decimal.NewFromInt(275), DeductionRate: decimal.RequireFromString("0.333"),
	}
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestSessionHandler_Create_Success(t *testing.T) {
	var captured usecase.ManualSessionInput
	h := NewSessionHandler(&sessionServiceStub{
		addFn: func(ctx context.Context, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
			captured = input
			return &usecase.SessionResult{
				Session:    closedSession("s1"),
				Settlement: &usecase.SettlementResult{BalanceBefore: decimal.Zero, BalanceAfter: decimal.RequireFromString("91.575")},
			}, nil
		},
	}, fixedClock{handlerNow})

	body, _ := json.Marshal(dto.SessionRequest{
		Person: "A", Activity: "dev",
		Start: handlerNow.Add(-2 * time.Hour), End: handlerNow.Add(-time.Hour),
	})
	rec := httptest.NewRecorder()
	h.Create(rec, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewReader(body)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Person != "A" || !captured.End.Equal(handlerNow.Add(-time.Hour)) {
		t.Fatalf("unexpected input %+v", captured)
	}

	var resp dto.SessionResultResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Session.ID != "s1" || resp.Session.Deduction.String() != "91.58" {
		t.Fatalf("unexpected session %+v", resp.Session)
	}
	if resp.Settlement == nil || resp.Settlement.BalanceAfter.String() != "91.575" {
		t.Fatalf("unexpected settlement %+v", resp.Settlement)
	}
	if resp.Warning != "" {
		t.Fatalf("unexpected warning %q", resp.Warning)
	}
}

const sessionBody = `{"person":"A","activity":"dev","start":"2025-03-10T10:00:00Z","end":"2025-03-10T11:00:00Z"}`

func TestSessionHandler_Create_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		expected int
	}{
		{"malformed body", `{`, nil, http.StatusBadRequest},
		{"unknown field", `{"hours":3}`, nil, http.StatusBadRequest},
		{"missing start", `{"person":"A","activity":"dev","end":"2025-03-10T12:00:00Z"}`, nil, http.StatusBadRequest},
		{"missing end", `{"person":"A","activity":"dev","start":"2025-03-10T10:00:00Z"}`, nil, http.StatusBadRequest},
		{"invalid interval", sessionBody, domain.ErrInvalidInterval, http.StatusBadRequest},
		{"internal", sessionBody, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSessionHandler(&sessionServiceStub{
				addFn: func(ctx context.Context, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
					if tt.err == nil {
						t.Fatalf("rejected request reached the service")
					}
					return nil, tt.err
				},
			}, fixedClock{handlerNow})

			rec := httptest.NewRecorder()
			h.Create(rec, httptest.NewRequest(http.MethodPost, "/sessions", bytes.NewBufferString(tt.body)))

			if rec.Code != tt.expected {
				t.Fatalf("expected %d, got %d", tt.expected, rec.Code)
			}
		})
	}
}

func TestSessionHandler_StartWithPersistenceWarning(t *testing.T) {
	persistErr := &domain.PersistenceError{Op: "save", Err: errors.New("disk full")}
	h := NewSessionHandler(&sessionServiceStub{
		startFn: func(ctx context.Context, input usecase.StartSessionInput) (*usecase.SessionResult, error) {
			return &usecase.SessionResult{Session: &domain.WorkSession{ID: "s1", Person: input.Person, Start: handlerNow}}, persistErr
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.Start(rec, httptest.NewRequest(http.MethodPost, "/timer/start", bytes.NewBufferString(`{"person":"A","activity":"dev"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if rec.Header().Get(PersistenceWarningHeader) == "" {
		t.Fatalf("expected persistence warning header")
	}
}

func TestSessionHandler_StopWhenIdle(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		stopFn: func(ctx context.Context) (*usecase.SessionResult, error) {
			return &usecase.SessionResult{}, nil
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.Stop(rec, httptest.NewRequest(http.MethodPost, "/timer/stop", nil))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSessionHandler_Status(t *testing.T) {
	open := &domain.WorkSession{
		ID: "s1", Person: "A", Activity: "dev", Start: handlerNow.Add(-30 * time.Minute),
		HourlyRate: decimal.NewFromInt(275), DeductionRate: decimal.RequireFromString("0.333"),
	}
	h := NewSessionHandler(&sessionServiceStub{
		currentFn: func(ctx context.Context) (*usecase.SessionStatus, error) {
			return &usecase.SessionStatus{
				Session: open, Elapsed: 30 * time.Minute,
				Earnings: open.Earnings(handlerNow), Deduction: open.Deduction(handlerNow),
			}, nil
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.Status(rec, httptest.NewRequest(http.MethodGet, "/timer", nil))

	var resp dto.TimerResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Running || resp.Seconds != 1800 || resp.Earnings.String() != "137.5" {
		t.Fatalf("unexpected timer %+v", resp)
	}
}

func TestSessionHandler_UpdateOpenSession(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		editFn: func(ctx context.Context, id string, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
			if id != "s1" {
				t.Fatalf("expected id s1, got %s", id)
			}
			return nil, domain.ErrSessionOpen
		},
	}, fixedClock{handlerNow})

	req := withURLParams(httptest.NewRequest(http.MethodPut, "/sessions/s1", bytes.NewBufferString(sessionBody)), map[string]string{"id": "s1"})
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestSessionHandler_UpdateWithoutInterval(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		editFn: func(ctx context.Context, id string, input usecase.ManualSessionInput) (*usecase.SessionResult, error) {
			t.Fatalf("edit without start and end reached the service")
			return nil, nil
		},
	}, fixedClock{handlerNow})

	req := withURLParams(httptest.NewRequest(http.MethodPut, "/sessions/s1", bytes.NewBufferString(`{"person":"A","activity":"dev"}`)), map[string]string{"id": "s1"})
	rec := httptest.NewRecorder()
	h.Update(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var resp dto.ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != domain.ErrMissingInterval.Error() {
		t.Fatalf("unexpected details %q", resp.Message)
	}
}

func TestSessionHandler_DeleteAndGet(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		deleteFn: func(ctx context.Context, id string) error { return nil },
		getFn: func(ctx context.Context, id string) (*domain.WorkSession, error) {
			return nil, domain.ErrSessionNotFound
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.Delete(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/sessions/s1", nil), map[string]string{"id": "s1"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.Get(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/sessions/s1", nil), map[string]string{"id": "s1"}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSessionHandler_ListMonthFilter(t *testing.T) {
	var captured usecase.ListSessionsInput
	h := NewSessionHandler(&sessionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.WorkSession, error) {
			captured = input
			return []*domain.WorkSession{closedSession("s1")}, nil
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/sessions?person=A&month=2025-03", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if captured.Person != "A" || captured.From == nil || captured.To == nil {
		t.Fatalf("unexpected filter %+v", captured)
	}
	if !captured.To.Equal(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected range to end on April 1st, got %s", captured.To)
	}

	rec = httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/sessions?from=soon", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSessionHandler_ListLimit(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		listFn: func(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.WorkSession, error) {
			return []*domain.WorkSession{closedSession("s1"), closedSession("s2"), closedSession("s3")}, nil
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.List(rec, httptest.NewRequest(http.MethodGet, "/sessions?limit=2", nil))

	var got []dto.SessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s2" || got[1].ID != "s3" {
		t.Fatalf("expected the two most recent sessions, got %+v", got)
	}
}

func TestSessionHandler_Summary(t *testing.T) {
	h := NewSessionHandler(&sessionServiceStub{
		summaryFn: func(ctx context.Context, input usecase.ListSessionsInput) (*usecase.SessionSummary, error) {
			return &usecase.SessionSummary{
				Person: input.Person, Count: 2,
				Hours: decimal.NewFromInt(3), Earnings: decimal.NewFromInt(825), Deduction: decimal.RequireFromString("274.725"),
			}, nil
		},
	}, fixedClock{handlerNow})

	rec := httptest.NewRecorder()
	h.Summary(rec, httptest.NewRequest(http.MethodGet, "/sessions/summary?person=A", nil))

	var resp dto.SessionSummaryResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 || resp.Deduction.String() != "274.73" {
		t.Fatalf("unexpected summary %+v", resp)
	}
}
