package dto

// WalletResponse is the wallet representation returned by all wallet endpoints.
type WalletResponse struct {
	ID        string  `json:"id"`
	Balance   int64   `json:"balance"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt *string `json:"updated_at,omitempty"`
}

// UpdateStatusRequest is the request body for wallet status changes.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=ACTIVE FROZEN DELETED"`
}

// OperationRequest is the request body for balance operations.
type OperationRequest struct {
	OperationType string `json:"operation_type" binding:"required,oneof=DEPOSIT WITHDRAW"`
	Amount        int64  `json:"amount" binding:"required,gt=0"`
}

// OperationResponse is the response body for a successful balance operation.
type OperationResponse struct {
	NewBalance int64 `json:"new_balance"`
}
