package infrastructure

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

// HolderRepository resolves the user owning an account, soft-deleted users included.
type HolderRepository struct {
	db *sql.DB
}

func NewHolderRepository(db *sql.DB) *HolderRepository {
	return &HolderRepository{db: db}
}

func (r *HolderRepository) FindByAccountID(ctx context.Context, accountID int64) (*domain.AccountHolder, error) {
	var (
		holder    domain.AccountHolder
		deletedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, account_id, is_active, deleted_at FROM users WHERE account_id = $1`, accountID,
	).Scan(&holder.UserID, &holder.AccountID, &holder.IsActive, &deletedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if deletedAt.Valid {
		holder.DeletedAt = &deletedAt.Time
	}
	return &holder, nil
}
