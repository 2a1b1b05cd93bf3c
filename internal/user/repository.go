package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUserWithAccount(ctx context.Context, user *User) error
	getUserByID(ctx context.Context, id string) (*User, error)
	getUserByEmail(ctx context.Context, email string) (*User, error)
	getUserByCPF(ctx context.Context, cpf string) (*User, error)
	findByEmailOrCPF(ctx context.Context, email, cpf string) (*User, error)
	activate(ctx context.Context, id string) error
	updateProfile(ctx context.Context, user *User) error
	softDelete(ctx context.Context, id string, at time.Time) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) Repository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `id, name, email, password_hash, birthdate, cpf, is_active, two_factor_enabled, two_factor_method, account_id, created_at, updated_at, deleted_at`

// createUserWithAccount opens the user's account with a zero balance and inserts the user in the same transaction.
func (r *userRepository) createUserWithAccount(ctx context.Context, user *User) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx, `INSERT INTO accounts (money) VALUES (0) RETURNING id`).Scan(&user.AccountID)
	if err != nil {
		return fmt.Errorf("could not create account: %w", err)
	}

	query := `
		INSERT INTO users (id, name, email, password_hash, birthdate, cpf, is_active, account_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash, user.Birthdate, user.CPF, user.AccountID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("could not create user: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit user: %w", err)
	}
	return nil
}

// uniqueConflict maps a unique violation on users to the matching domain error.
func uniqueConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolationCode {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailAlreadyExists
	case "users_cpf_key":
		return ErrCPFAlreadyExists
	}
	return nil
}

func (r *userRepository) getUser(ctx context.Context, where string, args ...interface{}) (*User, error) {
	var (
		user      User
		deletedAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, args...).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.Birthdate, &user.CPF, &user.IsActive,
		&user.TwoFactorEnabled, &user.TwoFactorMethod, &user.AccountID, &user.CreatedAt, &user.UpdatedAt, &deletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not find user: %w", err)
	}
	if deletedAt.Valid {
		user.DeletedAt = &deletedAt.Time
	}
	return &user, nil
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	return r.getUser(ctx, `id = $1`, id)
}

func (r *userRepository) getUserByEmail(ctx context.Context, email string) (*User, error) {
	return r.getUser(ctx, `email = $1`, email)
}

func (r *userRepository) getUserByCPF(ctx context.Context, cpf string) (*User, error) {
	return r.getUser(ctx, `cpf = $1`, cpf)
}

// findByEmailOrCPF also sees soft-deleted users so their email and CPF stay taken.
func (r *userRepository) findByEmailOrCPF(ctx context.Context, email, cpf string) (*User, error) {
	return r.getUser(ctx, `email = $1 OR cpf = $2 LIMIT 1`, email, cpf)
}

func (r *userRepository) activate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("could not activate user: %w", err)
	}
	return nil
}

func (r *userRepository) updateProfile(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET name = $1, email = $2, password_hash = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		if conflict := uniqueConflict(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("could not update user: %w", err)
	}
	return nil
}

func (r *userRepository) softDelete(ctx context.Context, id string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET is_active = FALSE, deleted_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("could not delete user: %w", err)
	}
	return nil
}
