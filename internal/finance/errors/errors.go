package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInvalidOperation
	KindInsufficientFunds
	KindUnauthorized
	KindStorage
)

// AppError is a classified failure of a finance operation. Msg is safe to show to the caller.
type AppError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *AppError) Error() string {
	if e.Err != nil && e.Kind == KindStorage {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindInvalidOperation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindInsufficientFunds, KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the text that may be sent to a client. Storage failures never expose their cause.
func (e *AppError) Message() string {
	if e.Kind == KindStorage {
		return storageMessage
	}
	return e.Msg
}

const storageMessage = "Internal server error"

func NewNotFoundError(msg string) error {
	return &AppError{Kind: KindNotFound, Msg: msg}
}

func NewInvalidOperationError(msg string) error {
	return &AppError{Kind: KindInvalidOperation, Msg: msg}
}

func NewInsufficientFundsError(msg string) error {
	return &AppError{Kind: KindInsufficientFunds, Msg: msg}
}

func NewUnauthorizedError(msg string) error {
	return &AppError{Kind: KindUnauthorized, Msg: msg}
}

func NewStorageError(msg string, err error) error {
	return &AppError{Kind: KindStorage, Msg: msg, Err: err}
}

var (
	ErrAccountNotFound    = NewNotFoundError("account not found")
	ErrInactiveReceiver   = NewInvalidOperationError("cannot transfer to inactive user")
	ErrSelfTransfer       = NewInvalidOperationError("cannot transfer to your own account")
	ErrInsufficientMoney  = NewInsufficientFundsError("insufficient money")
	ErrFinanceNotFound    = NewNotFoundError("finance not found")
	ErrCategoryNotFound   = NewValidationError("category not found")
	ErrInvalidDateFormat  = NewValidationError("invalid date format")
	ErrDateInPast         = NewValidationError("date cannot be in the past")
	ErrNonPositiveValue   = NewValidationError("value must be greater than zero")
	ErrTooManyDecimals    = NewValidationError("value must have at most two decimal places")
	ErrMissingDescription = NewValidationError("description is required")
)

func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	if IsValidationError(err) || IsValidationErrors(err) {
		return KindValidation
	}
	return KindStorage
}

// StatusCode maps any error returned by the finance services onto an HTTP status.
func StatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode()
	}
	if IsValidationError(err) || IsValidationErrors(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message for err that is safe to put in a response body.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message()
	}
	var validationErrors *ValidationErrors
	if errors.As(err, &validationErrors) {
		return "Validation errors occurred"
	}
	var validationError *ValidationError
	if errors.As(err, &validationError) {
		return validationError.Msg
	}
	return storageMessage
}

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

func NewFieldValidationError(field, msg string) error {
	return &ValidationError{Msg: fmt.Sprintf("%s: %s", field, msg)}
}

type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := ve.Messages()
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return errorMessages
}

// Err returns nil when nothing was collected so callers can return it directly.
func (ve *ValidationErrors) Err() error {
	if len(ve.Errors) == 0 {
		return nil
	}
	return ve
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}
