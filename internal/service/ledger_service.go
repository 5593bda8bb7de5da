package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

// pgLockNotAvailable is PostgreSQL's SQLSTATE for an expired lock_timeout.
const pgLockNotAvailable = "55P03"

// LedgerServiceImpl implements ports.LedgerService with pessimistic locking.
//
// Every operation runs inside one database transaction: the wallet row is
// locked for the full read-validate-write span, and the wallet update, the
// transaction record, and the audit entry commit as a single unit. Validation
// failures happen before any write and leave no side effects.
type LedgerServiceImpl struct {
	walletRepo ports.WalletRepository
	txRepo     ports.TransactionRepository
	auditRepo  ports.AuditRepository
	transactor ports.DBTransactor
	log        zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(
	walletRepo ports.WalletRepository,
	txRepo ports.TransactionRepository,
	auditRepo ports.AuditRepository,
	transactor ports.DBTransactor,
	log zerolog.Logger,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		walletRepo: walletRepo,
		txRepo:     txRepo,
		auditRepo:  auditRepo,
		transactor: transactor,
		log:        log,
	}
}

// ApplyOperation validates and applies a deposit or withdrawal, returning the
// wallet's new balance. The caller layer validates input too; the engine
// re-checks and fails closed.
func (s *LedgerServiceImpl) ApplyOperation(ctx context.Context, req ports.OperationRequest) (int64, error) {
	if req.Amount <= 0 {
		return 0, apperror.ErrInvalidAmount()
	}
	if !req.Type.Valid() {
		return 0, apperror.ErrInvalidOperationType()
	}

	// Begin database transaction; the wallet lock below lives until commit.
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return 0, apperror.InternalError(fmt.Errorf("begin tx: %w", err))
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock & get wallet
	wallet, err := s.walletRepo.GetByIDForUpdate(ctx, dbTx, req.WalletID)
	if err != nil {
		if isLockTimeout(err) {
			s.log.Warn().
				Str("wallet_id", req.WalletID.String()).
				Msg("wallet lock acquisition timed out")
			return 0, apperror.ErrLockTimeout(err)
		}
		return 0, apperror.InternalError(fmt.Errorf("lock wallet: %w", err))
	}
	if wallet == nil {
		s.log.Warn().Str("wallet_id", req.WalletID.String()).Msg("wallet not found")
		return 0, apperror.ErrWalletNotFound()
	}

	// Business rule: only ACTIVE wallets accept operations
	if !wallet.IsActive() {
		s.log.Warn().
			Str("wallet_id", wallet.ID.String()).
			Str("status", string(wallet.Status)).
			Msg("attempt to operate on non-active wallet")
		return 0, apperror.ErrWalletNotActive()
	}

	// Business rule: sufficient funds
	if req.Type == domain.TransactionTypeWithdraw && req.Amount > wallet.Balance {
		s.log.Warn().
			Str("wallet_id", wallet.ID.String()).
			Int64("balance", wallet.Balance).
			Int64("amount", req.Amount).
			Msg("insufficient funds")
		return 0, apperror.ErrInsufficientFunds()
	}

	// Calculate new balance
	newBalance := wallet.Balance + req.Amount
	if req.Type == domain.TransactionTypeWithdraw {
		newBalance = wallet.Balance - req.Amount
	}

	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:        uuid.New(),
		WalletID:  wallet.ID,
		Type:      req.Type,
		Amount:    req.Amount,
		Status:    domain.TransactionStatusSuccess,
		CreatedAt: now,
	}
	entry := &domain.AuditEntry{
		ID:         uuid.New(),
		WalletID:   wallet.ID,
		Action:     domain.AuditActionFor(req.Type),
		OldBalance: wallet.Balance,
		NewBalance: newBalance,
		CreatedAt:  now,
	}

	// Persist: update wallet balance
	if err := s.walletRepo.UpdateBalance(ctx, dbTx, wallet.ID, newBalance); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("update balance: %w", err))
	}

	// Persist: create transaction record
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("create transaction: %w", err))
	}

	// Persist: append audit entry
	if err := s.auditRepo.Create(ctx, dbTx, entry); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("create audit entry: %w", err))
	}

	// Commit releases the wallet lock.
	if err := dbTx.Commit(ctx); err != nil {
		return 0, apperror.ErrPersistenceFailure(fmt.Errorf("commit tx: %w", err))
	}

	s.log.Info().
		Str("tx_id", txn.ID.String()).
		Str("wallet_id", wallet.ID.String()).
		Str("type", string(req.Type)).
		Int64("amount", req.Amount).
		Int64("new_balance", newBalance).
		Msg("operation applied")

	return newBalance, nil
}

// isLockTimeout reports whether err is PostgreSQL's lock_not_available error.
func isLockTimeout(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgLockNotAvailable
}
