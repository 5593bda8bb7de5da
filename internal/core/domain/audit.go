package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditAction tags an audit entry with the kind of change it records.
type AuditAction string

const (
	AuditActionBalanceDeposit  AuditAction = "BALANCE_DEPOSIT"
	AuditActionBalanceWithdraw AuditAction = "BALANCE_WITHDRAW"
)

// AuditActionFor returns the audit action tag for an operation type.
func AuditActionFor(t TransactionType) AuditAction {
	if t == TransactionTypeWithdraw {
		return AuditActionBalanceWithdraw
	}
	return AuditActionBalanceDeposit
}

// AuditEntry is an append-only record of a balance change's before/after
// values. It is persisted in the same database transaction as the wallet
// update and the Transaction row, never on its own.
type AuditEntry struct {
	ID         uuid.UUID   `json:"id"`
	WalletID   uuid.UUID   `json:"wallet_id"`
	Action     AuditAction `json:"action"`
	OldBalance int64       `json:"old_balance"`
	NewBalance int64       `json:"new_balance"`
	CreatedAt  time.Time   `json:"created_at"`
}
