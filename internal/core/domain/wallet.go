package domain

import (
	"time"

	"github.com/google/uuid"
)

// WalletStatus represents the lifecycle state of a wallet.
type WalletStatus string

const (
	WalletStatusActive  WalletStatus = "ACTIVE"
	WalletStatusFrozen  WalletStatus = "FROZEN"
	WalletStatusDeleted WalletStatus = "DELETED"
)

// Valid reports whether s is one of the known wallet statuses.
func (s WalletStatus) Valid() bool {
	switch s {
	case WalletStatusActive, WalletStatusFrozen, WalletStatusDeleted:
		return true
	}
	return false
}

// Wallet represents a single account holding a balance in minor currency units.
// Balance is only ever mutated by the ledger engine under a per-wallet row lock;
// status changes never touch it.
type Wallet struct {
	ID        uuid.UUID    `json:"id"`
	Balance   int64        `json:"balance"` // minor units, never negative
	Status    WalletStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"` // nil until first mutation
}

// NewWallet creates a wallet with zero balance and ACTIVE status.
func NewWallet() *Wallet {
	return &Wallet{
		ID:        uuid.New(),
		Balance:   0,
		Status:    WalletStatusActive,
		CreatedAt: time.Now().UTC(),
	}
}

// IsActive returns true if the wallet accepts balance operations.
func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}

// CanTransitionTo reports whether a status change to target is permitted.
// DELETED is terminal; every other transition (including a no-op) is allowed.
func (w *Wallet) CanTransitionTo(target WalletStatus) bool {
	return w.Status != WalletStatusDeleted
}
