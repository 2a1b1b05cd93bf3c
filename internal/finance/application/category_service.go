package application

import (
	"context"
	"strings"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
)

type CategoryService struct {
	repo domain.CategoryRepository
}

func NewCategoryService(repo domain.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

func (s *CategoryService) GetAllCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, financeErrors.NewStorageError("could not load categories", err)
	}
	if categories == nil {
		return []domain.Category{}, nil
	}
	return categories, nil
}

// ResolveCategories maps the requested names onto stored categories. Every name must exist.
func (s *CategoryService) ResolveCategories(ctx context.Context, refs []domain.CategoryRef) ([]domain.Category, error) {
	names := domain.CategoryNames(refs)
	if len(names) == 0 {
		return nil, financeErrors.ErrCategoryNotFound
	}

	categories, err := s.repo.FindByNames(ctx, names)
	if err != nil {
		return nil, financeErrors.NewStorageError("could not load categories", err)
	}

	found := make(map[string]bool, len(categories))
	for _, category := range categories {
		found[strings.ToLower(category.Name)] = true
	}
	for _, name := range names {
		if !found[strings.ToLower(name)] {
			return nil, financeErrors.NewFieldValidationError("category", "unknown category "+name)
		}
	}
	return categories, nil
}
