package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FinBank/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FinBank/internal/finance/errors"
	"github.com/sebuszqo/FinBank/internal/telemetry"
)

type TransferService struct {
	accounts      domain.AccountRepository
	holders       domain.HolderDirectory
	transferences domain.TransferenceRepository
	uow           domain.UnitOfWork
	logger        *slog.Logger
	now           func() time.Time
}

func NewTransferService(
	accounts domain.AccountRepository,
	holders domain.HolderDirectory,
	transferences domain.TransferenceRepository,
	uow domain.UnitOfWork,
	logger *slog.Logger,
) *TransferService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransferService{
		accounts:      accounts,
		holders:       holders,
		transferences: transferences,
		uow:           uow,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock replaces the time source. Used by tests to pin "today".
func (s *TransferService) WithClock(now func() time.Time) *TransferService {
	s.now = now
	return s
}

// Execute moves request.Value from the sender account to the receiver account and records the transference.
// Nothing is written unless every check passes; the debit, the credit and the record commit together.
func (s *TransferService) Execute(ctx context.Context, request domain.TransferRequest, senderAccountID, receiverAccountID int64) (*domain.Transference, error) {
	transference, err := s.execute(ctx, request, senderAccountID, receiverAccountID)
	if err != nil {
		s.recordFailure(senderAccountID, receiverAccountID, err)
		return nil, err
	}

	telemetry.TransfersTotal.WithLabelValues(telemetry.TransferStatusSuccess).Inc()
	telemetry.TransferValue.Observe(transference.Value.InexactFloat64())
	s.logger.Info("transfer executed",
		slog.String("transference_id", transference.ID.String()),
		slog.Int64("sender_account", senderAccountID),
		slog.Int64("receiver_account", receiverAccountID),
		slog.String("value", transference.Value.StringFixed(2)),
	)
	return transference, nil
}

func (s *TransferService) execute(ctx context.Context, request domain.TransferRequest, senderAccountID, receiverAccountID int64) (*domain.Transference, error) {
	if _, err := s.accounts.FindByID(ctx, receiverAccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, financeErrors.ErrAccountNotFound
		}
		return nil, financeErrors.NewStorageError("could not load receiver account", err)
	}

	sender, err := s.accounts.FindByID(ctx, senderAccountID)
	if err != nil {
		// the caller's account comes from a verified token, so a missing row is a consistency failure
		return nil, financeErrors.NewStorageError("could not load sender account", err)
	}

	holder, err := s.holders.FindByAccountID(ctx, receiverAccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, financeErrors.ErrAccountNotFound
		}
		return nil, financeErrors.NewStorageError("could not load receiving user", err)
	}
	if !holder.Live() {
		return nil, financeErrors.ErrInactiveReceiver
	}

	if senderAccountID == receiverAccountID {
		return nil, financeErrors.ErrSelfTransfer
	}

	if err := domain.ValidateAmount(request.Value); err != nil {
		return nil, err
	}

	date, err := s.resolveDate(request.Date)
	if err != nil {
		return nil, err
	}

	if !sender.CanCover(request.Value) {
		return nil, financeErrors.ErrInsufficientMoney
	}

	transference := &domain.Transference{
		ID:                uuid.New(),
		Description:       request.Description,
		Date:              date,
		Value:             request.Value,
		SenderAccountID:   senderAccountID,
		ReceiverAccountID: receiverAccountID,
		CreatedAt:         s.now().UTC(),
	}

	err = s.uow.Do(ctx, func(ctx context.Context, tx domain.Tx) error {
		return moveMoney(ctx, tx, transference)
	})
	if err != nil {
		var appErr *financeErrors.AppError
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, financeErrors.NewStorageError("could not complete transfer", err)
	}

	return transference, nil
}

func moveMoney(ctx context.Context, tx domain.Tx, transference *domain.Transference) error {
	locked, err := tx.Accounts().LockForUpdate(ctx, transference.SenderAccountID, transference.ReceiverAccountID)
	if err != nil {
		return err
	}

	sender, ok := locked[transference.SenderAccountID]
	if !ok {
		return financeErrors.NewStorageError("sender account disappeared", domain.ErrAccountsLocked)
	}
	if _, ok := locked[transference.ReceiverAccountID]; !ok {
		return financeErrors.ErrAccountNotFound
	}
	if !sender.CanCover(transference.Value) {
		return financeErrors.ErrInsufficientMoney
	}

	if err := tx.Accounts().Debit(ctx, transference.SenderAccountID, transference.Value); err != nil {
		if errors.Is(err, domain.ErrBalanceTooLow) {
			return financeErrors.ErrInsufficientMoney
		}
		return err
	}
	if err := tx.Accounts().Credit(ctx, transference.ReceiverAccountID, transference.Value); err != nil {
		return err
	}
	return tx.Transferences().Insert(ctx, transference)
}

func (s *TransferService) resolveDate(raw *string) (time.Time, error) {
	today := domain.StartOfDay(s.now().UTC())
	if raw == nil {
		return today, nil
	}

	date, err := domain.ParseTransferDate(*raw)
	if err != nil {
		return time.Time{}, err
	}
	if date.Before(today) {
		return time.Time{}, financeErrors.ErrDateInPast
	}
	return date, nil
}

func (s *TransferService) recordFailure(senderAccountID, receiverAccountID int64, err error) {
	status := telemetry.TransferStatusRejected
	switch financeErrors.KindOf(err) {
	case financeErrors.KindInsufficientFunds:
		status = telemetry.TransferStatusInsufficientFunds
	case financeErrors.KindStorage:
		status = telemetry.TransferStatusFailed
	}
	telemetry.TransfersTotal.WithLabelValues(status).Inc()

	attrs := []any{
		slog.Int64("sender_account", senderAccountID),
		slog.Int64("receiver_account", receiverAccountID),
		slog.String("error", err.Error()),
	}
	if status == telemetry.TransferStatusFailed {
		s.logger.Error("transfer failed", attrs...)
		return
	}
	s.logger.Warn("transfer rejected", attrs...)
}

// ListForAccount returns the transfers sent from accountID, newest first.
func (s *TransferService) ListForAccount(ctx context.Context, accountID int64) ([]domain.Transference, error) {
	transferences, err := s.transferences.ListBySender(ctx, accountID)
	if err != nil {
		return nil, financeErrors.NewStorageError("could not list transfers", err)
	}
	if transferences == nil {
		return []domain.Transference{}, nil
	}
	return transferences, nil
}
