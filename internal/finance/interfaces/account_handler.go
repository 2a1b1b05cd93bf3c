package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	"github.com/sebuszqo/FinBank/internal/identity"
)

type AccountServiceInterface interface {
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)
}

type AccountHandler struct {
	service AccountServiceInterface
	responders
}

func NewAccountHandler(service AccountServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *AccountHandler {
	if service == nil {
		panic("account service must not be nil")
	}
	return &AccountHandler{
		service:    service,
		responders: newResponders(respondJSON, respondError),
	}
}

// GetAccount returns the caller's account and balance.
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	account, err := h.service.GetAccount(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, accountResponse{
		ID:        account.ID,
		Balance:   account.Balance.StringFixed(2),
		CreatedAt: account.CreatedAt,
	})
}
