package interfaces

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	"github.com/sebuszqo/FinBank/internal/identity"
)

type TransferServiceInterface interface {
	Execute(ctx context.Context, request domain.TransferRequest, senderAccountID, receiverAccountID int64) (*domain.Transference, error)
	ListForAccount(ctx context.Context, accountID int64) ([]domain.Transference, error)
}

type TransferHandler struct {
	service TransferServiceInterface
	responders
}

func NewTransferHandler(service TransferServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *TransferHandler {
	if service == nil {
		panic("transfer service must not be nil")
	}
	return &TransferHandler{
		service:    service,
		responders: newResponders(respondJSON, respondError),
	}
}

// CreateTransfer handles POST /api/protected/transfer/{receiverAccountID}.
func (h *TransferHandler) CreateTransfer(w http.ResponseWriter, r *http.Request) {
	senderAccountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	receiverAccountID, err := strconv.ParseInt(r.PathValue("receiverAccountID"), 10, 64)
	if err != nil || receiverAccountID <= 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid receiver account id")
		return
	}

	var request domain.TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := request.Validate(); err != nil {
		h.writeServiceError(w, err)
		return
	}

	transference, err := h.service.Execute(r.Context(), request, senderAccountID, receiverAccountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, newTransferResponse(*transference))
}

// ListTransfers handles GET /api/protected/transfer.
func (h *TransferHandler) ListTransfers(w http.ResponseWriter, r *http.Request) {
	accountID, ok := identity.AccountID(r.Context())
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transferences, err := h.service.ListForAccount(r.Context(), accountID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	response := make([]transferResponse, 0, len(transferences))
	for _, t := range transferences {
		response = append(response, newTransferResponse(t))
	}
	h.respondJSON(w, http.StatusOK, response)
}
