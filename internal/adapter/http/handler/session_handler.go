package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// SessionService defines the behavior needed by SessionHandler.
type SessionService interface {
	Start(ctx context.Context, input usecase.StartSessionInput) (*usecase.SessionResult, error)
	Stop(ctx context.Context) (*usecase.SessionResult, error)
	Current(ctx context.Context) (*usecase.SessionStatus, error)
	AddManual(ctx context.Context, input usecase.ManualSessionInput) (*usecase.SessionResult, error)
	Edit(ctx context.Context, id string, input usecase.ManualSessionInput) (*usecase.SessionResult, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.WorkSession, error)
	List(ctx context.Context, input usecase.ListSessionsInput) ([]*domain.WorkSession, error)
	Summary(ctx context.Context, input usecase.ListSessionsInput) (*usecase.SessionSummary, error)
}

// SessionHandler handles timer and work-session HTTP requests.
type SessionHandler struct {
	timeUC SessionService
	clock  Clock
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(timeUC SessionService, clock Clock) *SessionHandler {
	return &SessionHandler{timeUC: timeUC, clock: clock}
}

// Status returns the running session, if any.
func (h *SessionHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.timeUC.Current(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to read timer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.TimerFromUseCase(status, h.clock.Now()))
}

// Start starts the timer, stopping a running session first.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req dto.StartTimerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.timeUC.Start(r.Context(), req.ToUseCaseInput())
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to start timer", err.Error())
		return
	}

	writeMutation(w, http.StatusCreated, dto.SessionResultFromUseCase(result, h.clock.Now()), err)
}

// Stop stops the running session.
func (h *SessionHandler) Stop(w http.ResponseWriter, r *http.Request) {
	result, err := h.timeUC.Stop(r.Context())
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to stop timer", err.Error())
		return
	}

	if result.Session == nil {
		writeError(w, http.StatusConflict, "timer is not running", "")
		return
	}

	writeMutation(w, http.StatusOK, dto.SessionResultFromUseCase(result, h.clock.Now()), err)
}

// Create records a finished session.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.SessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.timeUC.AddManual(r.Context(), input)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to add session", err.Error())
		return
	}

	writeMutation(w, http.StatusCreated, dto.SessionResultFromUseCase(result, h.clock.Now()), err)
}

// Update replaces a finished session.
func (h *SessionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req dto.SessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.timeUC.Edit(r.Context(), id, input)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to edit session", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, dto.SessionResultFromUseCase(result, h.clock.Now()), err)
}

// Delete removes a session.
func (h *SessionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.timeUC.Delete(r.Context(), id)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to delete session", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.DeletedResponse{ID: id, Deleted: true}, err)
}

// Get retrieves a session by ID.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.timeUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get session", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionFromDomain(session, h.clock.Now()))
}

// List lists sessions filtered by person and start range. limit keeps only
// the most recent ones.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	input, ok := h.filter(w, r)
	if !ok {
		return
	}

	sessions, err := h.timeUC.List(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list sessions", err.Error())
		return
	}

	sessions = latest(sessions, parseIntQuery(r, "limit", 0))
	writeJSON(w, http.StatusOK, dto.SessionsFromDomain(sessions, h.clock.Now()))
}

// Summary aggregates finished sessions.
func (h *SessionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	input, ok := h.filter(w, r)
	if !ok {
		return
	}

	summary, err := h.timeUC.Summary(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize sessions", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.SessionSummaryFromUseCase(summary))
}

// filter reads person, from, to and month query parameters. A month sets
// the whole range.
func (h *SessionHandler) filter(w http.ResponseWriter, r *http.Request) (usecase.ListSessionsInput, bool) {
	loc := h.clock.Now().Location()
	input := usecase.ListSessionsInput{Person: r.URL.Query().Get("person")}

	from, err := parseTimeQuery(r, "from", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return input, false
	}
	to, err := parseTimeQuery(r, "to", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return input, false
	}
	month, err := parseMonthQuery(r, "month", loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return input, false
	}

	if !month.IsZero() {
		end := month.AddDate(0, 1, 0)
		from, to = &month, &end
	}
	input.From, input.To = from, to

	return input, true
}
