package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// WalletServiceImpl implements ports.WalletService: wallet creation, lookup
// and the status state machine. It never touches balances.
type WalletServiceImpl struct {
	walletRepo ports.WalletRepository
	log        zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(walletRepo ports.WalletRepository, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{walletRepo: walletRepo, log: log}
}

// Create opens a new wallet with zero balance and ACTIVE status.
func (s *WalletServiceImpl) Create(ctx context.Context) (*domain.Wallet, error) {
	w := domain.NewWallet()
	if err := s.walletRepo.Create(ctx, w); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().Str("wallet_id", w.ID.String()).Msg("wallet created")
	return w, nil
}

// Get returns a wallet by ID. DELETED wallets are returned with their last
// balance and status rather than hidden.
func (s *WalletServiceImpl) Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error) {
	w, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		return nil, apperror.ErrWalletNotFound()
	}
	return w, nil
}

// UpdateStatus transitions a wallet's status. ACTIVE and FROZEN may move
// freely between each other and to DELETED; DELETED is terminal. A no-op
// transition is allowed and still refreshes updated_at.
func (s *WalletServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error) {
	if !status.Valid() {
		return nil, apperror.Validation(fmt.Sprintf("unknown wallet status: %s", status))
	}

	w, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get wallet: %w", err))
	}
	if w == nil {
		s.log.Warn().Str("wallet_id", id.String()).Msg("wallet not found for status update")
		return nil, apperror.ErrWalletNotFound()
	}
	if !w.CanTransitionTo(status) {
		s.log.Warn().Str("wallet_id", id.String()).Msg("attempt to modify deleted wallet")
		return nil, apperror.ErrWalletGone()
	}

	updated, err := s.walletRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("update status: %w", err))
	}
	if !updated {
		// The wallet was deleted between the read and the guarded update.
		return nil, apperror.ErrWalletGone()
	}

	fresh, err := s.walletRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("reload wallet: %w", err))
	}
	if fresh == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	s.log.Info().
		Str("wallet_id", id.String()).
		Str("status", string(fresh.Status)).
		Msg("wallet status updated")

	return fresh, nil
}
