package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/domain"
	"github.com/iho/kasa/internal/usecase"
)

// DebtService defines the behavior needed by DebtHandler.
type DebtService interface {
	Add(ctx context.Context, input usecase.AddDebtInput) (*domain.Debt, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*domain.Debt, error)
	List(ctx context.Context, input usecase.ListDebtsInput) ([]*domain.Debt, error)
	AddPayment(ctx context.Context, input usecase.AddPaymentInput) (*domain.Debt, error)
	DeletePayment(ctx context.Context, debtID, paymentID string) (*domain.Debt, error)
	Outstanding(ctx context.Context) (*usecase.Outstanding, error)
}

// DebtHandler handles debt HTTP requests.
type DebtHandler struct {
	debtUC DebtService
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtUC DebtService) *DebtHandler {
	return &DebtHandler{debtUC: debtUC}
}

// Create adds a debt.
func (h *DebtHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.DebtRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	debt, err := h.debtUC.Add(r.Context(), input)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to add debt", err.Error())
		return
	}

	writeMutation(w, http.StatusCreated, &dto.DebtResultResponse{Debt: dto.DebtFromDomain(debt)}, err)
}

// Delete removes a debt. Payments already made are not refunded.
func (h *DebtHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	err := h.debtUC.Delete(r.Context(), id)
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to delete debt", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.DeletedResponse{ID: id, Deleted: true}, err)
}

// Get retrieves a debt by ID.
func (h *DebtHandler) Get(w http.ResponseWriter, r *http.Request) {
	debt, err := h.debtUC.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get debt", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtFromDomain(debt))
}

// List lists debts filtered by open, common, currency and person.
func (h *DebtHandler) List(w http.ResponseWriter, r *http.Request) {
	open, err := parseBoolQuery(r, "open")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}
	common, err := parseBoolQuery(r, "common")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	currency, err := currencyQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid query", err.Error())
		return
	}

	debts, err := h.debtUC.List(r.Context(), usecase.ListDebtsInput{
		Open:     open,
		Common:   common,
		Currency: currency,
		Person:   r.URL.Query().Get("person"),
	})
	if err != nil {
		writeError(w, mapDomainError(err), "failed to list debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DebtsFromDomain(debts))
}

// AddPayment records a manual payment against a debt.
func (h *DebtHandler) AddPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	debt, err := h.debtUC.AddPayment(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "id")))
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to add payment", err.Error())
		return
	}

	writeMutation(w, http.StatusCreated, &dto.DebtResultResponse{Debt: dto.DebtFromDomain(debt)}, err)
}

// DeletePayment removes a manual payment.
func (h *DebtHandler) DeletePayment(w http.ResponseWriter, r *http.Request) {
	debt, err := h.debtUC.DeletePayment(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "paymentID"))
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to delete payment", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.DebtResultResponse{Debt: dto.DebtFromDomain(debt)}, err)
}

// Outstanding returns open debt totals per currency.
func (h *DebtHandler) Outstanding(w http.ResponseWriter, r *http.Request) {
	out, err := h.debtUC.Outstanding(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to compute outstanding debts", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.OutstandingFromUseCase(out))
}
