package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
	"github.com/shopspring/decimal"
)

type AccountRepository struct {
	db *sql.DB
}

func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var account domain.Account
	err := r.db.QueryRowContext(ctx,
		`SELECT id, money, created_at FROM accounts WHERE id = $1`, id,
	).Scan(&account.ID, &account.Balance, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

type accountStore struct {
	tx *sql.Tx
}

func (s *accountStore) LockForUpdate(ctx context.Context, ids ...int64) (map[int64]*domain.Account, error) {
	unique := uniqueSorted(ids)
	if len(unique) == 0 {
		return map[int64]*domain.Account{}, nil
	}

	placeholders := make([]string, len(unique))
	args := make([]interface{}, len(unique))
	for i, id := range unique {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}

	// ordered locking keeps opposite-direction transfers from deadlocking
	query := fmt.Sprintf(
		`SELECT id, money, created_at FROM accounts WHERE id IN (%s) ORDER BY id FOR UPDATE`,
		strings.Join(placeholders, ", "),
	)
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locked := make(map[int64]*domain.Account, len(unique))
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(&account.ID, &account.Balance, &account.CreatedAt); err != nil {
			return nil, err
		}
		locked[account.ID] = &account
	}
	return locked, rows.Err()
}

func (s *accountStore) Debit(ctx context.Context, id int64, amount decimal.Decimal) error {
	result, err := s.tx.ExecContext(ctx,
		`UPDATE accounts SET money = money - $1 WHERE id = $2 AND money >= $1`, amount, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 1 {
		return nil
	}

	var exists bool
	if err := s.tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return domain.ErrNotFound
	}
	return domain.ErrBalanceTooLow
}

func (s *accountStore) Credit(ctx context.Context, id int64, amount decimal.Decimal) error {
	result, err := s.tx.ExecContext(ctx, `UPDATE accounts SET money = money + $1 WHERE id = $2`, amount, id)
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

func uniqueSorted(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i] < unique[j] })
	return unique
}
