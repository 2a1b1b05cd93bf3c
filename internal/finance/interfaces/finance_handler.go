package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
	"github.com/sebuszqo/FinBank/internal/identity"
)

type FinanceServiceInterface interface {
	Create(ctx context.Context, accountID int64, request domain.FinanceRequest) (*domain.Finance, error)
	List(ctx context.Context, accountID int64) ([]domain.Finance, error)
	Update(ctx context.Context, accountID int64, id uuid.UUID, update domain.FinanceUpdate) (*domain.Finance, error)
}

type FinanceHandler struct {
	service FinanceServiceInterface
	responders
}

func NewFinanceHandler(service FinanceServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *FinanceHandler {
	if service == nil {
		panic("finance service must not be nil")
	}
	return &FinanceHandler{
		service:    service,
		responders: newResponders(respondJSON, respondError),
	}
}

func (h *FinanceHandler) CreateFinance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var request domain.FinanceRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	finance, err := h.service.Create(r.Context(), accountID, request)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusCreated, newFinanceResponse(*finance))
}

func (h *FinanceHandler) ListFinances(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	finances, err := h.service.List(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := make([]financeResponse, 0, len(finances))
	for _, f := range finances {
		response = append(response, newFinanceResponse(f))
	}
	h.respondJSON(w, http.StatusOK, response)
}

func (h *FinanceHandler) UpdateFinance(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	financeID, err := uuid.Parse(r.PathValue("financeID"))
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid finance id")
		return
	}

	var update domain.FinanceUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	finance, err := h.service.Update(r.Context(), accountID, financeID, update)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.respondJSON(w, http.StatusOK, newFinanceResponse(*finance))
}
