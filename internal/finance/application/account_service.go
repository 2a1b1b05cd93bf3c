package application

import (
	"context"
	"errors"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
)

type AccountService struct {
	repo domain.AccountRepository
}

func NewAccountService(repo domain.AccountRepository) *AccountService {
	return &AccountService{repo: repo}
}

func (s *AccountService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, financeErrors.ErrAccountNotFound
		}
		return nil, financeErrors.NewStorageError("could not load account", err)
	}
	return account, nil
}
