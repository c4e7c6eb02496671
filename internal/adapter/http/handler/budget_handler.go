package handler

import (
	"context"
	"net/http"

	"github.com/iho/kasa/internal/adapter/http/dto"
	"github.com/iho/kasa/internal/usecase"
)

// BudgetService defines the behavior needed by BudgetHandler.
type BudgetService interface {
	Get(ctx context.Context) (*usecase.BudgetStatus, error)
	Settle(ctx context.Context) (*usecase.SettlementResult, error)
	AccrueMonthlyRent(ctx context.Context) (*usecase.RentAccrual, error)
}

// BudgetHandler handles shared budget HTTP requests.
type BudgetHandler struct {
	budgetUC BudgetService
}

// NewBudgetHandler creates a new BudgetHandler.
func NewBudgetHandler(budgetUC BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetUC: budgetUC}
}

// Get returns the shared balances.
func (h *BudgetHandler) Get(w http.ResponseWriter, r *http.Request) {
	status, err := h.budgetUC.Get(r.Context())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get budget", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.BudgetFromUseCase(status))
}

// Settle runs a settlement pass.
func (h *BudgetHandler) Settle(w http.ResponseWriter, r *http.Request) {
	result, err := h.budgetUC.Settle(r.Context())
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to settle debts", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, &dto.SettleResponse{Settlement: dto.SettlementFromUseCase(result)}, err)
}

// Rent accrues this month's rent if it is due.
func (h *BudgetHandler) Rent(w http.ResponseWriter, r *http.Request) {
	accrual, err := h.budgetUC.AccrueMonthlyRent(r.Context())
	if err != nil && !usecase.IsPersistenceFailure(err) {
		writeError(w, mapDomainError(err), "failed to accrue rent", err.Error())
		return
	}

	writeMutation(w, http.StatusOK, dto.RentFromUseCase(accrual), err)
}
