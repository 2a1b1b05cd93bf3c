package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ErrInvalidDateFormat, http.StatusBadRequest},
		{&ValidationErrors{Errors: []error{ErrDateInPast}}, http.StatusBadRequest},
		{ErrAccountNotFound, http.StatusNotFound},
		{ErrInactiveReceiver, http.StatusBadRequest},
		{ErrInsufficientMoney, http.StatusUnauthorized},
		{NewUnauthorizedError("no token"), http.StatusUnauthorized},
		{NewStorageError("boom", errors.New("db down")), http.StatusInternalServerError},
		{errors.New("unclassified"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", ErrAccountNotFound), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessageHidesStorageCause(t *testing.T) {
	err := NewStorageError("could not complete transfer", errors.New("pq: relation accounts is locked"))

	assert.Equal(t, "Internal server error", PublicMessage(err))
	assert.Contains(t, err.Error(), "relation accounts is locked")
	assert.Equal(t, "Internal server error", PublicMessage(errors.New("raw driver error")))
	assert.Equal(t, "insufficient money", PublicMessage(ErrInsufficientMoney))
	assert.Equal(t, "invalid date format", PublicMessage(ErrInvalidDateFormat))
}

func TestValidationErrorsErr(t *testing.T) {
	collected := &ValidationErrors{}
	assert.NoError(t, collected.Err())

	collected.Add(ErrMissingDescription)
	collected.Add(ErrNonPositiveValue)
	assert.Error(t, collected.Err())
	assert.True(t, IsValidationErrors(collected.Err()))
	assert.Equal(t, "multiple validation errors: description is required; value must be greater than zero", collected.Error())
}
