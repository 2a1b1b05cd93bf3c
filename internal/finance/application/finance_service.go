package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
	"github.com/sebuszqo/FinBank/internal/telemetry"
)

type CategoryResolver interface {
	ResolveCategories(ctx context.Context, refs []domain.CategoryRef) ([]domain.Category, error)
}

type FinanceService struct {
	repo       domain.FinanceRepository
	categories CategoryResolver
	uow        domain.UnitOfWork
	logger     *slog.Logger
	now        func() time.Time
}

func NewFinanceService(repo domain.FinanceRepository, categories CategoryResolver, uow domain.UnitOfWork, logger *slog.Logger) *FinanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceService{
		repo:       repo,
		categories: categories,
		uow:        uow,
		logger:     logger,
		now:        time.Now,
	}
}

// Create books an income (credit) or expense (debit) on the account together with the finance row.
func (s *FinanceService) Create(ctx context.Context, accountID int64, request domain.FinanceRequest) (*domain.Finance, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	categories, err := s.categories.ResolveCategories(ctx, request.Categories)
	if err != nil {
		return nil, err
	}

	finance := &domain.Finance{
		ID:          uuid.New(),
		AccountID:   accountID,
		Description: strings.TrimSpace(request.Description),
		Value:       request.Value,
		IsIncome:    request.IsIncome,
		Categories:  categories,
		CreatedAt:   s.now().UTC(),
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx domain.Tx) error {
		if finance.IsIncome {
			if err := tx.Accounts().Credit(ctx, accountID, finance.Value); err != nil {
				return err
			}
		} else {
			if err := tx.Accounts().Debit(ctx, accountID, finance.Value); err != nil {
				if errors.Is(err, domain.ErrBalanceTooLow) {
					return financeErrors.ErrInsufficientMoney
				}
				return err
			}
		}
		return tx.Finances().Insert(ctx, finance)
	})
	if err != nil {
		if financeErrors.KindOf(err) != financeErrors.KindStorage {
			return nil, err
		}
		s.logger.Error("finance booking failed", slog.Int64("account", accountID), slog.String("error", err.Error()))
		return nil, financeErrors.NewStorageError("could not create finance", err)
	}

	direction := "expense"
	if finance.IsIncome {
		direction = "income"
	}
	telemetry.FinancesTotal.WithLabelValues(direction).Inc()
	return finance, nil
}

func (s *FinanceService) List(ctx context.Context, accountID int64) ([]domain.Finance, error) {
	finances, err := s.repo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, financeErrors.NewStorageError("could not list finances", err)
	}
	if finances == nil {
		return []domain.Finance{}, nil
	}
	return finances, nil
}

// Update changes the description and/or categories of a finance owned by the account. Value and direction never change.
func (s *FinanceService) Update(ctx context.Context, accountID int64, id uuid.UUID, update domain.FinanceUpdate) (*domain.Finance, error) {
	if err := update.Validate(); err != nil {
		return nil, err
	}

	finance, err := s.repo.FindByID(ctx, accountID, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, financeErrors.ErrFinanceNotFound
		}
		return nil, financeErrors.NewStorageError("could not load finance", err)
	}

	var categories []domain.Category
	if update.Categories != nil {
		categories, err = s.categories.ResolveCategories(ctx, *update.Categories)
		if err != nil {
			return nil, err
		}
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx domain.Tx) error {
		if update.Description != nil {
			if err := tx.Finances().UpdateDescription(ctx, id, strings.TrimSpace(*update.Description)); err != nil {
				return err
			}
		}
		if update.Categories != nil {
			return tx.Finances().ReplaceCategories(ctx, id, categories)
		}
		return nil
	})
	if err != nil {
		return nil, financeErrors.NewStorageError("could not update finance", err)
	}

	if update.Description != nil {
		finance.Description = strings.TrimSpace(*update.Description)
	}
	if update.Categories != nil {
		finance.Categories = categories
	}
	return finance, nil
}
