package infrastructure

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

type SQLUnitOfWork struct {
	db *sql.DB
}

func NewSQLUnitOfWork(db *sql.DB) *SQLUnitOfWork {
	return &SQLUnitOfWork{db: db}
}

func (u *SQLUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) (err error) {
	tx, err := u.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			safeRollback(tx)
			panic(p)
		}
	}()

	if err = fn(ctx, &sqlTx{tx: tx}); err != nil {
		safeRollback(tx)
		return err
	}
	return tx.Commit()
}

func safeRollback(tx *sql.Tx) {
	if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		slog.Error("error during transaction rollback", slog.String("error", err.Error()))
	}
}

type sqlTx struct {
	tx *sql.Tx
}

func (t *sqlTx) Accounts() domain.AccountStore {
	return &accountStore{tx: t.tx}
}

func (t *sqlTx) Transferences() domain.TransferenceStore {
	return &transferenceStore{tx: t.tx}
}

func (t *sqlTx) Finances() domain.FinanceStore {
	return &financeStore{tx: t.tx}
}
