package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/services"
)

// InventoryHandler handles platform collectible inventory requests
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// AddInventoryRequest is the admin body for registering voucher references
type AddInventoryRequest struct {
	Refs       []string `json:"refs" binding:"required"`
	Collection string   `json:"collection"`
}

// Add handles POST /admin/inventory
func (h *InventoryHandler) Add(c *gin.Context) {
	var req AddInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	added, err := h.inventoryService.Add(c.Request.Context(), req.Refs, req.Collection, c.GetString("accountID"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": added})
}

// List handles GET /admin/inventory
func (h *InventoryHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	items, err := h.inventoryService.List(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// CountAvailable handles GET /admin/inventory/available
func (h *InventoryHandler) CountAvailable(c *gin.Context) {
	available, err := h.inventoryService.CountAvailable(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"available": available})
}
