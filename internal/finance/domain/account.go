package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrBalanceTooLow  = errors.New("balance is lower than the requested amount")
	ErrAccountsLocked = errors.New("not every account could be locked")
)

type Account struct {
	ID        int64
	Balance   decimal.Decimal
	CreatedAt time.Time
}

func (a *Account) CanCover(amount decimal.Decimal) bool {
	return a.Balance.GreaterThanOrEqual(amount)
}

// AccountRepository reads accounts outside of a unit of work. Missing rows yield ErrNotFound.
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
}

// AccountStore mutates balances inside a unit of work.
type AccountStore interface {
	// LockForUpdate locks the rows in ascending id order and returns them keyed by id.
	LockForUpdate(ctx context.Context, ids ...int64) (map[int64]*Account, error)
	// Debit fails with ErrBalanceTooLow instead of driving the balance negative.
	Debit(ctx context.Context, id int64, amount decimal.Decimal) error
	Credit(ctx context.Context, id int64, amount decimal.Decimal) error
}

// AccountHolder is the part of a user the finance core cares about.
type AccountHolder struct {
	UserID    string
	AccountID int64
	IsActive  bool
	DeletedAt *time.Time
}

func (h *AccountHolder) Live() bool {
	return h.IsActive && h.DeletedAt == nil
}

type HolderDirectory interface {
	FindByAccountID(ctx context.Context, accountID int64) (*AccountHolder, error)
}
