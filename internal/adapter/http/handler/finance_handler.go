package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// FinanceService defines the behavior needed by FinanceHandler.
type FinanceService interface {
	Add(ctx context.Context, input usecase.AddRecordInput) (*usecase.RecordResult, error)
	Edit(ctx context.Context, id string, input usecase.AddRecordInput) (*usecase.RecordResult, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.FinanceRecord, error)
	List(ctx context.Context, input usecase.ListRecordsInput) ([]*domain.FinanceRecord, error)
	MonthlySummary(ctx context.Context, year int, month time.Month) (*usecase.MonthlySummary, error)
}

// FinanceHandler handles finance record HTTP requests.
type FinanceHandler struct {
	financeUC FinanceService
	clock     Clock
}

// NewFinanceHandler creates a new FinanceHandler.
func NewFinanceHandler(financeUC FinanceService, clock Clock) *FinanceHandler {
	return &FinanceHandler{financeUC: financeUC, clock: clock}
}

// Create adds a finance record.
func (h *FinanceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.financeUC.Add(r.Context(), input)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to add record", err.Error())
		return
	}

	writeMutation(w, http.StatusCreated, &dto.RecordResultResponse{
		Record: dto.RecordFromDomain(result.Record),
		Offset: result.Offset,
	}, err)
}

// Update replaces a finance record.
func (h *FinanceHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	result, err := h.financeUC.Edit(r.Context(), chi.URLParam(r, "id"), input)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to edit record", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.RecordResultResponse{
		Record: dto.RecordFromDomain(result.Record),
		Offset: result.Offset,
	}, err)
}

// Delete removes a finance record.
func (h *FinanceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.financeUC.Delete(r.Context(), id)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to delete record", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.DeletedResponse{ID: id, Deleted: true}, err)
}

// Get retrieves a finance record by ID.
func (h *FinanceHandler) Get(w http.ResponseWriter, r *http.Request) {
	record, err := h.financeUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get record", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordFromDomain(record))
}

// List lists finance records filtered by kind, currency, category and month.
// limit keeps only the most recent ones.
func (h *FinanceHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	month, err := parseMonthQuery(r, "month", h.clock.Now().Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	input := usecase.ListRecordsInput{Category: q.Get("category"), Month: month}
	if kind := q.Get("kind"); kind != "" {
		if input.Kind, err = domain.ValidateKind(kind); err != nil {
			writeError(w, http.StatusBadRequest, "invalid query", err.Error())
			return
		}
	}
	if input.Currency, err = currencyQuery(r); err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	records, err := h.financeUC.List(r.Context(), input)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.RecordsFromDomain(latest(records, parseIntQuery(r, "limit", 0))))
}

// Summary returns income and expense totals for a month. The month defaults
// to the current one.
func (h *FinanceHandler) Summary(w http.ResponseWriter, r *http.Request) {
	now := h.clock.Now()

	month, err := parseMonthQuery(r, "month", now.Location())
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	if month.IsZero() {
		month = now
	}

	summary, err := h.financeUC.MonthlySummary(r.Context(), month.Year(), month.Month())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to summarize records", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.MonthlySummaryFromUseCase(summary))
}
