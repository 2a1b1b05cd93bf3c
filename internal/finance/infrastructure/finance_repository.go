package infrastructure

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

const financeSelect = `
	SELECT f.id, f.account_id, f.description, f.value, f.is_income, f.created_at, c.id, c.name
	FROM finances f
	LEFT JOIN finances_categories fc ON fc.finance_id = f.id
	LEFT JOIN categories c ON c.id = fc.category_id`

type FinanceRepository struct {
	db *sql.DB
}

func NewFinanceRepository(db *sql.DB) *FinanceRepository {
	return &FinanceRepository{db: db}
}

func (r *FinanceRepository) FindByID(ctx context.Context, accountID int64, id uuid.UUID) (*domain.Finance, error) {
	rows, err := r.db.QueryContext(ctx, financeSelect+`
		WHERE f.id = $1 AND f.account_id = $2
		ORDER BY c.name`, id, accountID)
	if err != nil {
		return nil, err
	}
	finances, err := scanFinances(rows)
	if err != nil {
		return nil, err
	}
	if len(finances) == 0 {
		return nil, domain.ErrNotFound
	}
	return &finances[0], nil
}

func (r *FinanceRepository) ListByAccount(ctx context.Context, accountID int64) ([]domain.Finance, error) {
	rows, err := r.db.QueryContext(ctx, financeSelect+`
		WHERE f.account_id = $1
		ORDER BY f.created_at DESC, f.id, c.name`, accountID)
	if err != nil {
		return nil, err
	}
	return scanFinances(rows)
}

// scanFinances folds the joined category rows into their finance, keeping the row order.
func scanFinances(rows *sql.Rows) ([]domain.Finance, error) {
	defer rows.Close()

	var finances []domain.Finance
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			finance      domain.Finance
			categoryID   sql.NullInt64
			categoryName sql.NullString
		)
		if err := rows.Scan(&finance.ID, &finance.AccountID, &finance.Description, &finance.Value,
			&finance.IsIncome, &finance.CreatedAt, &categoryID, &categoryName); err != nil {
			return nil, err
		}

		i, ok := index[finance.ID]
		if !ok {
			finance.Categories = []domain.Category{}
			finances = append(finances, finance)
			i = len(finances) - 1
			index[finance.ID] = i
		}
		if categoryID.Valid {
			finances[i].Categories = append(finances[i].Categories, domain.Category{
				ID:   int(categoryID.Int64),
				Name: categoryName.String,
			})
		}
	}
	return finances, rows.Err()
}

type financeStore struct {
	tx *sql.Tx
}

func (s *financeStore) Insert(ctx context.Context, finance *domain.Finance) error {
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO finances (id, account_id, description, value, is_income, is_transference, created_at)
		VALUES ($1, $2, $3, $4, $5, FALSE, $6)`,
		finance.ID, finance.AccountID, finance.Description, finance.Value, finance.IsIncome, finance.CreatedAt,
	)
	if err != nil {
		return err
	}
	return s.linkCategories(ctx, finance.ID, finance.Categories)
}

func (s *financeStore) UpdateDescription(ctx context.Context, id uuid.UUID, description string) error {
	result, err := s.tx.ExecContext(ctx, `UPDATE finances SET description = $1 WHERE id = $2`, description, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *financeStore) ReplaceCategories(ctx context.Context, id uuid.UUID, categories []domain.Category) error {
	if _, err := s.tx.ExecContext(ctx, `DELETE FROM finances_categories WHERE finance_id = $1`, id); err != nil {
		return err
	}
	return s.linkCategories(ctx, id, categories)
}

func (s *financeStore) linkCategories(ctx context.Context, id uuid.UUID, categories []domain.Category) error {
	for _, category := range categories {
		_, err := s.tx.ExecContext(ctx,
			`INSERT INTO finances_categories (finance_id, category_id) VALUES ($1, $2)`, id, category.ID)
		if err != nil {
			return fmt.Errorf("could not link category %s: %w", category.Name, err)
		}
	}
	return nil
}
