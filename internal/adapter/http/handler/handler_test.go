package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func walletIDParam(c *gin.Context, id string) {
	c.Params = gin.Params{{Key: "wallet_id", Value: id}}
}

// --- Wallet Handler Tests ---

func TestCreateWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	walletID := uuid.New()
	mockWallet.EXPECT().Create(gomock.Any()).Return(&domain.Wallet{
		ID:        walletID,
		Balance:   0,
		Status:    domain.WalletStatusActive,
		CreatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/wallets", nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, walletID.String(), data["id"])
	assert.Equal(t, float64(0), data["balance"])
	assert.Equal(t, "ACTIVE", data["status"])
}

func TestGetWallet_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	walletID := uuid.New()
	mockWallet.EXPECT().Get(gomock.Any(), walletID).Return(&domain.Wallet{
		ID:        walletID,
		Balance:   750,
		Status:    domain.WalletStatusActive,
		CreatedAt: time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	walletIDParam(c, walletID.String())

	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(750), data["balance"])
}

func TestGetWallet_BadUUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	walletIDParam(c, "not-a-uuid")

	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetWallet_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	walletID := uuid.New()
	mockWallet.EXPECT().Get(gomock.Any(), walletID).Return(nil, apperror.ErrWalletNotFound())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	walletIDParam(c, walletID.String())

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WAL_001", resp["error_code"])
}

func TestUpdateStatus_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	walletID := uuid.New()
	now := time.Now().UTC()
	mockWallet.EXPECT().UpdateStatus(gomock.Any(), walletID, domain.WalletStatusFrozen).Return(&domain.Wallet{
		ID:        walletID,
		Balance:   100,
		Status:    domain.WalletStatusFrozen,
		CreatedAt: now,
		UpdatedAt: &now,
	}, nil)

	body, _ := json.Marshal(dto.UpdateStatusRequest{Status: "FROZEN"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, walletID.String())

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "FROZEN", data["status"])
	assert.NotEmpty(t, data["updated_at"])
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	// "SUSPENDED" fails the oneof binding before the service is called.
	body := []byte(`{"status":"SUSPENDED"}`)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, uuid.New().String())

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_DeletedWallet(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockWallet := mocks.NewMockWalletService(ctrl)
	h := NewWalletHandler(mockWallet)

	walletID := uuid.New()
	mockWallet.EXPECT().UpdateStatus(gomock.Any(), walletID, domain.WalletStatusActive).
		Return(nil, apperror.ErrWalletGone())

	body, _ := json.Marshal(dto.UpdateStatusRequest{Status: "ACTIVE"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPatch, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, walletID.String())

	h.UpdateStatus(c)

	assert.Equal(t, http.StatusGone, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "WAL_003", resp["error_code"])
}

// --- Operation Handler Tests ---

func TestApplyOperation_Deposit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewOperationHandler(mockLedger)

	walletID := uuid.New()
	mockLedger.EXPECT().ApplyOperation(gomock.Any(), ports.OperationRequest{
		WalletID: walletID,
		Type:     domain.TransactionTypeDeposit,
		Amount:   1000,
	}).Return(int64(1000), nil)

	body, _ := json.Marshal(dto.OperationRequest{OperationType: "DEPOSIT", Amount: 1000})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, walletID.String())

	h.Apply(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, float64(1000), data["new_balance"])
}

func TestApplyOperation_InsufficientFunds(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewOperationHandler(mockLedger)

	walletID := uuid.New()
	mockLedger.EXPECT().ApplyOperation(gomock.Any(), gomock.Any()).
		Return(int64(0), apperror.ErrInsufficientFunds())

	body, _ := json.Marshal(dto.OperationRequest{OperationType: "WITHDRAW", Amount: 999999})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, walletID.String())

	h.Apply(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "LED_001", resp["error_code"])
}

func TestApplyOperation_ValidationErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewOperationHandler(mockLedger)

	cases := []struct {
		name string
		body string
	}{
		{"unknown type", `{"operation_type":"TRANSFER","amount":100}`},
		{"zero amount", `{"operation_type":"DEPOSIT","amount":0}`},
		{"negative amount", `{"operation_type":"DEPOSIT","amount":-5}`},
		{"missing fields", `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte(tc.body)))
			c.Request.Header.Set("Content-Type", "application/json")
			walletIDParam(c, uuid.New().String())

			h.Apply(c)

			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestApplyOperation_LockTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := mocks.NewMockLedgerService(ctrl)
	h := NewOperationHandler(mockLedger)

	walletID := uuid.New()
	mockLedger.EXPECT().ApplyOperation(gomock.Any(), gomock.Any()).
		Return(int64(0), apperror.ErrLockTimeout(nil))

	body, _ := json.Marshal(dto.OperationRequest{OperationType: "DEPOSIT", Amount: 100})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	walletIDParam(c, walletID.String())

	h.Apply(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_002", resp["error_code"])
}

// --- Health Check Test ---

func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck()(c)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp["status"])
}
