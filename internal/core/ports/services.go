package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
)

// LedgerService is the core ledger engine: it validates and applies a single
// deposit or withdrawal atomically under the wallet's exclusive lock.
type LedgerService interface {
	// ApplyOperation returns the wallet's balance after the operation.
	ApplyOperation(ctx context.Context, req OperationRequest) (int64, error)
}

// OperationRequest holds validated input for a balance operation.
type OperationRequest struct {
	WalletID uuid.UUID
	Type     domain.TransactionType
	Amount   int64
}

// WalletService manages wallet lifecycle independent of balance mutation.
type WalletService interface {
	Create(ctx context.Context) (*domain.Wallet, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.WalletStatus) (*domain.Wallet, error)
}
