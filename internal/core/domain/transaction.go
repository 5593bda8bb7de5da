package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType represents the direction of a balance operation.
type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "DEPOSIT"
	TransactionTypeWithdraw TransactionType = "WITHDRAW"
)

// Valid reports whether t is a known operation type.
func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw
}

// TransactionStatus represents the lifecycle state of a transaction.
// The synchronous flow only ever produces SUCCESS; PENDING and FAILED are
// reserved for asynchronous settlement.
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "PENDING"
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
)

// Transaction is an immutable record of one completed balance mutation.
// It is created exactly once per successful operation and never updated.
type Transaction struct {
	ID        uuid.UUID         `json:"id"`
	WalletID  uuid.UUID         `json:"wallet_id"`
	Type      TransactionType   `json:"type"`
	Amount    int64             `json:"amount"` // positive, minor units
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}
