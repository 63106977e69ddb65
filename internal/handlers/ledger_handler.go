package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// LedgerHandler handles reward-ledger and claim HTTP requests
type LedgerHandler struct {
	ledgerService services.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: ledgerService,
	}
}

// Ledger handles GET /ledger
func (h *LedgerHandler) Ledger(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.Ledger(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}

// Claim handles POST /ledger/claim
func (h *LedgerHandler) Claim(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	receipt, err := h.ledgerService.Claim(c.Request.Context(), accountID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipt)
}

// Receipts handles GET /ledger/claims
func (h *LedgerHandler) Receipts(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	receipts, err := h.ledgerService.Receipts(c.Request.Context(), accountID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, receipts)
}

// Wallet handles GET /wallet
func (h *LedgerHandler) Wallet(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	wallet, err := h.ledgerService.Wallet(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallet)
}

// GrantVoucherRequest is the admin body for crediting a free-play voucher
type GrantVoucherRequest struct {
	AccountID string          `json:"accountId" binding:"required"`
	Game      models.GameKind `json:"game" binding:"required"`
	AssetKind string          `json:"assetKind" binding:"required"`
	Stake     int64           `json:"stake" binding:"required"`
}

// GrantVoucher handles POST /admin/vouchers
func (h *LedgerHandler) GrantVoucher(c *gin.Context) {
	var req GrantVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accountID, err := primitive.ObjectIDFromHex(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	voucher, err := h.ledgerService.GrantVoucher(c.Request.Context(), accountID, req.Game, req.AssetKind, req.Stake)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, voucher)
}

// DepositRequest is the admin body for crediting spendable funds
type DepositRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	AssetKind string `json:"assetKind" binding:"required"`
	Amount    int64  `json:"amount" binding:"required"`
}

// DepositToWallet handles POST /admin/wallets/deposit
func (h *LedgerHandler) DepositToWallet(c *gin.Context) {
	var req DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accountID, err := primitive.ObjectIDFromHex(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	if err := h.ledgerService.DepositToWallet(c.Request.Context(), accountID, req.AssetKind, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit completed"})
}

// AccountLedger handles GET /admin/accounts/:id/ledger
func (h *LedgerHandler) AccountLedger(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	ledger, err := h.ledgerService.Ledger(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ledger)
}
