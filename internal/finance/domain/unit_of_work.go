package domain

import "context"

// Tx exposes the stores bound to one database transaction.
type Tx interface {
	Accounts() AccountStore
	Transferences() TransferenceStore
	Finances() FinanceStore
}

// UnitOfWork runs fn in a transaction. It commits when fn returns nil and rolls back otherwise.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
