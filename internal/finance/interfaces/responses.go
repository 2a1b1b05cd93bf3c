package interfaces

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})

type RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

type responders struct {
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func newResponders(respondJSON RespondJSONFunc, respondError RespondErrorFunc) responders {
	if respondJSON == nil || respondError == nil {
		panic("response functions must not be nil")
	}
	return responders{respondJSON: respondJSON, respondError: respondError}
}

// writeServiceError turns a finance error into a response. Storage failures are logged and answered generically.
func (r responders) writeServiceError(w http.ResponseWriter, err error) {
	var validationErrors *financeErrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		r.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
		return
	}

	status := financeErrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		slog.Error("finance request failed", slog.String("error", err.Error()))
	}
	r.respondError(w, status, financeErrors.PublicMessage(err))
}

type transferResponse struct {
	ID              string    `json:"id"`
	Description     string    `json:"description"`
	Date            string    `json:"date"`
	Value           string    `json:"value"`
	CreatedAt       time.Time `json:"createdAt"`
	ReceiverAccount int64     `json:"receiverAccount"`
	SenderAccount   int64     `json:"senderAccount"`
}

func newTransferResponse(t domain.Transference) transferResponse {
	return transferResponse{
		ID:              t.ID.String(),
		Description:     t.Description,
		Date:            t.Date.Format("2006-01-02"),
		Value:           t.Value.StringFixed(2),
		CreatedAt:       t.CreatedAt,
		ReceiverAccount: t.ReceiverAccountID,
		SenderAccount:   t.SenderAccountID,
	}
}

type financeResponse struct {
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Value       string            `json:"value"`
	IsIncome    bool              `json:"isIncome"`
	Categories  []domain.Category `json:"categories"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func newFinanceResponse(f domain.Finance) financeResponse {
	categories := f.Categories
	if categories == nil {
		categories = []domain.Category{}
	}
	return financeResponse{
		ID:          f.ID.String(),
		Description: f.Description,
		Value:       f.Value.StringFixed(2),
		IsIncome:    f.IsIncome,
		Categories:  categories,
		CreatedAt:   f.CreatedAt,
	}
}

type accountResponse struct {
	ID        int64     `json:"id"`
	Balance   string    `json:"balance"`
	CreatedAt time.Time `json:"createdAt"`
}
