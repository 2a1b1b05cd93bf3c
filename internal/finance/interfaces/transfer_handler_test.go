package interfaces

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTransferTestHandler(service *MockTransferService) *TransferHandler {
	return NewTransferHandler(service, respondJSON, respondError)
}

func TestCreateTransfer_Success(t *testing.T) {
	id := uuid.New()
	createdAt := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	service := &MockTransferService{
		transference: &domain.Transference{
			ID:                id,
			Description:       "rent",
			Date:              time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC),
			Value:             decimal.RequireFromString("100"),
			SenderAccountID:   1,
			ReceiverAccountID: 2,
			CreatedAt:         createdAt,
		},
	}
	handler := newTransferTestHandler(service)

	req := authedRequest(t, http.MethodPost, "/api/protected/transfer/2", map[string]interface{}{
		"description": "rent",
		"value":       100,
	}, 1)
	req.SetPathValue("receiverAccountID", "2")
	w := httptest.NewRecorder()

	handler.CreateTransfer(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]interface{}
	decodeBody(t, w, &body)
	assert.Equal(t, id.String(), body["id"])
	assert.Equal(t, "rent", body["description"])
	assert.Equal(t, "2024-05-10", body["date"])
	assert.Equal(t, "100.00", body["value"])
	assert.Equal(t, float64(2), body["receiverAccount"])
	assert.Equal(t, float64(1), body["senderAccount"])
	assert.Equal(t, 1, service.calls)
}

func TestCreateTransfer_RejectsBeforeExecuting(t *testing.T) {
	tests := []struct {
		name     string
		receiver string
		body     interface{}
		status   int
		message  string
	}{
		{
			name:     "zero value",
			receiver: "2",
			body:     map[string]interface{}{"description": "rent", "value": 0},
			status:   http.StatusBadRequest,
			message:  "Validation errors occurred",
		},
		{
			name:     "invalid date",
			receiver: "2",
			body:     map[string]interface{}{"description": "rent", "value": 10, "date": "10-05-2024"},
			status:   http.StatusBadRequest,
			message:  "Validation errors occurred",
		},
		{
			name:     "missing description",
			receiver: "2",
			body:     map[string]interface{}{"value": 10},
			status:   http.StatusBadRequest,
			message:  "Validation errors occurred",
		},
		{
			name:     "malformed body",
			receiver: "2",
			body:     "{not json",
			status:   http.StatusBadRequest,
			message:  "Invalid request body",
		},
		{
			name:     "receiver is not a number",
			receiver: "abc",
			body:     map[string]interface{}{"description": "rent", "value": 10},
			status:   http.StatusBadRequest,
			message:  "Invalid receiver account id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &MockTransferService{}
			handler := newTransferTestHandler(service)

			req := authedRequest(t, http.MethodPost, "/api/protected/transfer/"+tt.receiver, tt.body, 1)
			req.SetPathValue("receiverAccountID", tt.receiver)
			w := httptest.NewRecorder()

			handler.CreateTransfer(w, req)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]interface{}
			decodeBody(t, w, &body)
			assert.Equal(t, tt.message, body["message"])
			assert.Equal(t, 0, service.calls)
		})
	}
}

func TestCreateTransfer_ValidationMessagesAreListed(t *testing.T) {
	handler := newTransferTestHandler(&MockTransferService{})

	req := authedRequest(t, http.MethodPost, "/api/protected/transfer/2", map[string]interface{}{
		"description": "rent",
		"value":       "10.123",
	}, 1)
	req.SetPathValue("receiverAccountID", "2")
	w := httptest.NewRecorder()

	handler.CreateTransfer(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Errors []string `json:"errors"`
	}
	decodeBody(t, w, &body)
	assert.Equal(t, []string{"value must have at most two decimal places"}, body.Errors)
}

func TestCreateTransfer_MissingIdentity(t *testing.T) {
	handler := newTransferTestHandler(&MockTransferService{})

	req := authedRequest(t, http.MethodPost, "/api/protected/transfer/2", map[string]interface{}{"description": "rent", "value": 10}, 0)
	req.SetPathValue("receiverAccountID", "2")
	w := httptest.NewRecorder()

	handler.CreateTransfer(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateTransfer_MapsServiceErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"unknown receiver", financeErrors.ErrAccountNotFound, http.StatusNotFound, "account not found"},
		{"inactive receiver", financeErrors.ErrInactiveReceiver, http.StatusBadRequest, "cannot transfer to inactive user"},
		{"insufficient money", financeErrors.ErrInsufficientMoney, http.StatusUnauthorized, "insufficient money"},
		{"date in the past", financeErrors.ErrDateInPast, http.StatusBadRequest, "date cannot be in the past"},
		{"storage failure", financeErrors.NewStorageError("could not commit", assert.AnError), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := newTransferTestHandler(&MockTransferService{err: tt.err})

			req := authedRequest(t, http.MethodPost, "/api/protected/transfer/2", map[string]interface{}{"description": "rent", "value": 10}, 1)
			req.SetPathValue("receiverAccountID", "2")
			w := httptest.NewRecorder()

			handler.CreateTransfer(w, req)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]interface{}
			decodeBody(t, w, &body)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestListTransfers(t *testing.T) {
	older := domain.Transference{ID: uuid.New(), Description: "a", Value: decimal.RequireFromString("1.5"), SenderAccountID: 1, ReceiverAccountID: 2}
	newer := domain.Transference{ID: uuid.New(), Description: "b", Value: decimal.RequireFromString("3"), SenderAccountID: 1, ReceiverAccountID: 3}
	handler := newTransferTestHandler(&MockTransferService{list: []domain.Transference{newer, older}})

	req := authedRequest(t, http.MethodGet, "/api/protected/transfer", nil, 1)
	w := httptest.NewRecorder()

	handler.ListTransfers(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body []map[string]interface{}
	decodeBody(t, w, &body)
	require.Len(t, body, 2)
	assert.Equal(t, newer.ID.String(), body[0]["id"])
	assert.Equal(t, "3.00", body[0]["value"])
	assert.Equal(t, "1.50", body[1]["value"])
}

func TestListTransfers_EmptyIsArray(t *testing.T) {
	handler := newTransferTestHandler(&MockTransferService{})

	req := authedRequest(t, http.MethodGet, "/api/protected/transfer", nil, 1)
	w := httptest.NewRecorder()

	handler.ListTransfers(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestNewTransferHandler_PanicsWithoutService(t *testing.T) {
	assert.Panics(t, func() {
		NewTransferHandler(nil, respondJSON, respondError)
	})
}
