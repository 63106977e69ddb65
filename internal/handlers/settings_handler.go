package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// SettingsHandler handles platform settings and blacklist requests
type SettingsHandler struct {
	settingsService services.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler
func NewSettingsHandler(settingsService services.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
	}
}

// Get handles GET /admin/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.Get(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// Update handles PUT /admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	settings, err := h.settingsService.Update(c.Request.Context(), &req, c.GetString("accountID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

// BlacklistRequest is the admin body for banning an account
type BlacklistRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Reason    string `json:"reason"`
}

// Blacklist handles POST /admin/blacklist
func (h *SettingsHandler) Blacklist(c *gin.Context) {
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accountID, err := primitive.ObjectIDFromHex(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	if err := h.settingsService.Blacklist(c.Request.Context(), accountID, req.Reason, c.GetString("accountID")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Account blacklisted"})
}

// Unblacklist handles DELETE /admin/blacklist/:id
func (h *SettingsHandler) Unblacklist(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.settingsService.Unblacklist(c.Request.Context(), accountID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account removed from blacklist"})
}

// ListBlacklist handles GET /admin/blacklist
func (h *SettingsHandler) ListBlacklist(c *gin.Context) {
	page, limit := pagination(c)

	entries, err := h.settingsService.ListBlacklist(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
