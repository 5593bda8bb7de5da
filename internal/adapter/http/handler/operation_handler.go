package handler

import (
	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OperationHandler handles balance operation endpoints.
type OperationHandler struct {
	ledgerSvc ports.LedgerService
}

// NewOperationHandler creates a new OperationHandler.
func NewOperationHandler(ledgerSvc ports.LedgerService) *OperationHandler {
	return &OperationHandler{ledgerSvc: ledgerSvc}
}

// Apply handles POST /api/v1/wallets/:wallet_id/operations.
func (h *OperationHandler) Apply(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("wallet_id"))
	if err != nil {
		response.Error(c, apperror.Validation("wallet_id must be a valid UUID"))
		return
	}

	var req dto.OperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	newBalance, err := h.ledgerSvc.ApplyOperation(c.Request.Context(), ports.OperationRequest{
		WalletID: walletID,
		Type:     domain.TransactionType(req.OperationType),
		Amount:   req.Amount,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.OperationResponse{NewBalance: newBalance})
}
