package infrastructure

import (
	"context"
	"database/sql"

	"github.com/sebuszqo/FinBank/internal/finance/domain"
)

type TransferenceRepository struct {
	db *sql.DB
}

func NewTransferenceRepository(db *sql.DB) *TransferenceRepository {
	return &TransferenceRepository{db: db}
}

func (r *TransferenceRepository) ListBySender(ctx context.Context, accountID int64) ([]domain.Transference, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, description, date, value, sender_account_id, receiver_account_id, created_at
		FROM transferences
		WHERE sender_account_id = $1
		ORDER BY created_at DESC`, accountID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transferences []domain.Transference
	for rows.Next() {
		var t domain.Transference
		if err := rows.Scan(&t.ID, &t.Description, &t.Date, &t.Value, &t.SenderAccountID, &t.ReceiverAccountID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Date = domain.StartOfDay(t.Date)
		transferences = append(transferences, t)
	}
	return transferences, rows.Err()
}

type transferenceStore struct {
	tx *sql.Tx
}

func (s *transferenceStore) Insert(ctx context.Context, t *domain.Transference) error {
	_, err := s.tx.ExecContext(ctx, `
		INSERT INTO transferences (id, description, date, value, sender_account_id, receiver_account_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Description, t.Date.Format("2006-01-02"), t.Value, t.SenderAccountID, t.ReceiverAccountID, t.CreatedAt,
	)
	return err
}
