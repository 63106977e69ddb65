package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/services"
)

// TreasuryHandler handles treasury pool HTTP requests
type TreasuryHandler struct {
	treasuryService services.TreasuryService
}

// NewTreasuryHandler creates a new TreasuryHandler
func NewTreasuryHandler(treasuryService services.TreasuryService) *TreasuryHandler {
	return &TreasuryHandler{
		treasuryService: treasuryService,
	}
}

// TreasuryMoveRequest is the admin body for deposits and extractions
type TreasuryMoveRequest struct {
	AssetKind string `json:"assetKind" binding:"required"`
	Amount    int64  `json:"amount" binding:"required"`
}

// Status handles GET /admin/treasury
func (h *TreasuryHandler) Status(c *gin.Context) {
	status, err := h.treasuryService.Status(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

// Pool handles GET /admin/treasury/:kind
func (h *TreasuryHandler) Pool(c *gin.Context) {
	pool, err := h.treasuryService.Pool(c.Request.Context(), c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pool)
}

// Deposit handles POST /admin/treasury/deposit
func (h *TreasuryHandler) Deposit(c *gin.Context) {
	var req TreasuryMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.treasuryService.Deposit(c.Request.Context(), req.AssetKind, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deposit completed"})
}

// Extract handles POST /admin/treasury/extract
func (h *TreasuryHandler) Extract(c *gin.Context) {
	var req TreasuryMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.treasuryService.Extract(c.Request.Context(), req.AssetKind, req.Amount); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Extraction completed"})
}

// Toggle handles POST /admin/treasury/toggle/:kind
func (h *TreasuryHandler) Toggle(c *gin.Context) {
	pool, err := h.treasuryService.ToggleActive(c.Request.Context(), c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pool)
}
