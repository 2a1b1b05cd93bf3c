package domain

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransferRequestValidate(t *testing.T) {
	bad := "31/12/2026"
	err := TransferRequest{
		Description: "   ",
		Value:       decimal.RequireFromString("-1"),
		Date:        &bad,
	}.Validate()
	require.Error(t, err)

	var validationErrors *financeErrors.ValidationErrors
	require.True(t, errors.As(err, &validationErrors))
	assert.Equal(t, []string{
		"description is required",
		"value must be greater than zero",
		"invalid date format",
	}, validationErrors.Messages())
}

func TestTransferRequestValidate_Valid(t *testing.T) {
	date := "2030-01-01"
	err := TransferRequest{Description: "rent", Value: decimal.RequireFromString("500.00"), Date: &date}.Validate()
	assert.NoError(t, err)

	err = TransferRequest{Description: "rent", Value: decimal.RequireFromString("0.01")}.Validate()
	assert.NoError(t, err)
}

func TestTransferRequestValidate_LongDescription(t *testing.T) {
	err := TransferRequest{Description: strings.Repeat("a", 256), Value: decimal.NewFromInt(1)}.Validate()
	assert.True(t, financeErrors.IsValidationErrors(err))
}

func TestParseTransferDate(t *testing.T) {
	parsed, err := ParseTransferDate("2026-07-04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), parsed)

	parsed, err = ParseTransferDate("2026/07/04")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC), parsed)

	_, err = ParseTransferDate("")
	assert.ErrorIs(t, err, financeErrors.ErrInvalidDateFormat)
}

func TestAccountHolderLive(t *testing.T) {
	now := time.Now()
	assert.True(t, (&AccountHolder{IsActive: true}).Live())
	assert.False(t, (&AccountHolder{IsActive: false}).Live())
	assert.False(t, (&AccountHolder{IsActive: true, DeletedAt: &now}).Live())
}

func TestCategoryNamesDeduplicates(t *testing.T) {
	names := CategoryNames([]CategoryRef{{Name: "Bills"}, {Name: " bills "}, {Name: ""}, {Name: "Water"}})
	assert.Equal(t, []string{"Bills", "Water"}, names)
}
