package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
)

const maxFinanceDescriptionLength = 100

// Finance is an income or expense entry booked against an account.
type Finance struct {
	ID          uuid.UUID
	AccountID   int64
	Description string
	Value       decimal.Decimal
	IsIncome    bool
	Categories  []Category
	CreatedAt   time.Time
}

type CategoryRef struct {
	Name string `json:"name"`
}

type FinanceRequest struct {
	Description string          `json:"description"`
	Value       decimal.Decimal `json:"value"`
	IsIncome    bool            `json:"isIncome"`
	Categories  []CategoryRef   `json:"category"`
}

func (r FinanceRequest) Validate() error {
	validationErrors := &financeErrors.ValidationErrors{}
	validateFinanceDescription(r.Description, validationErrors)
	if err := ValidateAmount(r.Value); err != nil {
		validationErrors.Add(err)
	}
	if len(r.Categories) == 0 {
		validationErrors.Add(financeErrors.NewFieldValidationError("category", "at least one category is required"))
	}
	return validationErrors.Err()
}

type FinanceUpdate struct {
	Description *string        `json:"description,omitempty"`
	Categories  *[]CategoryRef `json:"category,omitempty"`
}

func (u FinanceUpdate) Validate() error {
	validationErrors := &financeErrors.ValidationErrors{}
	if u.Description == nil && u.Categories == nil {
		validationErrors.Add(financeErrors.NewValidationError("nothing to update"))
	}
	if u.Description != nil {
		validateFinanceDescription(*u.Description, validationErrors)
	}
	if u.Categories != nil && len(*u.Categories) == 0 {
		validationErrors.Add(financeErrors.NewFieldValidationError("category", "at least one category is required"))
	}
	return validationErrors.Err()
}

func validateFinanceDescription(description string, validationErrors *financeErrors.ValidationErrors) {
	description = strings.TrimSpace(description)
	if description == "" {
		validationErrors.Add(financeErrors.ErrMissingDescription)
	} else if len(description) > maxFinanceDescriptionLength {
		validationErrors.Add(financeErrors.NewFieldValidationError("description", "must be at most 100 characters"))
	}
}

func CategoryNames(refs []CategoryRef) []string {
	names := make([]string, 0, len(refs))
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		name := strings.TrimSpace(ref.Name)
		if name == "" || seen[strings.ToLower(name)] {
			continue
		}
		seen[strings.ToLower(name)] = true
		names = append(names, name)
	}
	return names
}

type FinanceStore interface {
	Insert(ctx context.Context, finance *Finance) error
	UpdateDescription(ctx context.Context, id uuid.UUID, description string) error
	ReplaceCategories(ctx context.Context, id uuid.UUID, categories []Category) error
}

type FinanceRepository interface {
	FindByID(ctx context.Context, accountID int64, id uuid.UUID) (*Finance, error)
	ListByAccount(ctx context.Context, accountID int64) ([]Finance, error)
}
