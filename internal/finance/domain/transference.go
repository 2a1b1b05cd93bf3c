package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
)

const (
	maxDescriptionLength = 255
	moneyScale           = 2
)

var transferDateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	time.RFC3339,
}

// Transference is an executed money movement. It is never updated or deleted.
type Transference struct {
	ID                uuid.UUID
	Description       string
	Date              time.Time
	Value             decimal.Decimal
	SenderAccountID   int64
	ReceiverAccountID int64
	CreatedAt         time.Time
}

type TransferRequest struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	Date        *string         `json:"date,omitempty"`
}

// Validate checks the shape of the request. Date freshness depends on the clock and is left to the executor.
func (r TransferRequest) Validate() error {
	validationErrors := &financeErrors.ValidationErrors{}

	description := strings.TrimSpace(r.Description)
	if description == "" {
		validationErrors.Add(financeErrors.ErrMissingDescription)
	} else if len(description) > maxDescriptionLength {
		validationErrors.Add(financeErrors.NewFieldValidationError("description", "must be at most 255 characters"))
	}

	if err := ValidateAmount(r.Value); err != nil {
		validationErrors.Add(err)
	}

	if r.Date != nil {
		if _, err := ParseTransferDate(*r.Date); err != nil {
			validationErrors.Add(err)
		}
	}

	return validationErrors.Err()
}

func ValidateAmount(value decimal.Decimal) error {
	if !value.IsPositive() {
		return financeErrors.ErrNonPositiveValue
	}
	if !value.Equal(value.Truncate(moneyScale)) {
		return financeErrors.ErrTooManyDecimals
	}
	return nil
}

// ParseTransferDate accepts yyyy-mm-dd, yyyy/mm/dd or an RFC 3339 timestamp and returns midnight UTC of that day.
func ParseTransferDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range transferDateLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return StartOfDay(parsed), nil
		}
	}
	return time.Time{}, financeErrors.ErrInvalidDateFormat
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type TransferenceStore interface {
	Insert(ctx context.Context, transference *Transference) error
}

type TransferenceRepository interface {
	// ListBySender returns transfers sent from the account, newest first.
	ListBySender(ctx context.Context, accountID int64) ([]Transference, error)
}
