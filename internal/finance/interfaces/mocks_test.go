package interfaces

import (
	"context"
	"errors"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

type MockTransferService struct {
	transference *domain.Transference
	list         []domain.Transference
	err          error
	calls        int
}

func (m *MockTransferService) Execute(_ context.Context, request domain.TransferRequest, senderAccountID, receiverAccountID int64) (*domain.Transference, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.transference, nil
}

func (m *MockTransferService) ListForAccount(_ context.Context, accountID int64) ([]domain.Transference, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.list, nil
}

type MockCategoryService struct {
	categories []domain.Category
	shouldFail bool
}

func (m *MockCategoryService) GetAllCategories(_ context.Context) ([]domain.Category, error) {
	if m.shouldFail {
		return nil, errors.New("service error")
	}
	return m.categories, nil
}
