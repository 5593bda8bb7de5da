package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside a transaction block; GetByIDForUpdate
// takes the wallet's exclusive row lock for the remainder of that transaction.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*domain.Wallet, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, newBalance int64) error
	// UpdateStatus refreshes status and updated_at. It never modifies a
	// DELETED wallet; the returned bool is false when no row was changed.
	UpdateStatus(ctx context.Context, walletID uuid.UUID, status domain.WalletStatus) (bool, error)
}

// TransactionRepository defines persistence operations for transaction records.
// Creation always happens inside the ledger engine's open transaction.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
}

// AuditRepository persists append-only audit entries. Create is only ever
// called inside the same transaction that commits the balance change it
// describes.
type AuditRepository interface {
	Create(ctx context.Context, tx pgx.Tx, entry *domain.AuditEntry) error
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
