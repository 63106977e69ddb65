package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// GameConfigHandler handles administrator game configuration requests
type GameConfigHandler struct {
	configService services.GameConfigService
}

// NewGameConfigHandler creates a new GameConfigHandler
func NewGameConfigHandler(configService services.GameConfigService) *GameConfigHandler {
	return &GameConfigHandler{
		configService: configService,
	}
}

// List handles GET /admin/games/configs
func (h *GameConfigHandler) List(c *gin.Context) {
	configs, err := h.configService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, configs)
}

// Get handles GET /admin/games/configs/:game/:kind
func (h *GameConfigHandler) Get(c *gin.Context) {
	config, err := h.configService.Get(c.Request.Context(), gameParam(c), c.Param("kind"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, config)
}

// Upsert handles PUT /admin/games/configs
func (h *GameConfigHandler) Upsert(c *gin.Context) {
	var config models.GameConfig
	if err := c.ShouldBindJSON(&config); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	written, err := h.configService.Upsert(c.Request.Context(), &config)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, written)
}

// SetActive handles POST /admin/games/configs/:game/:kind/set-active
func (h *GameConfigHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.configService.SetActive(c.Request.Context(), gameParam(c), c.Param("kind"), *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game config active flag set"})
}

// Delete handles DELETE /admin/games/configs/:game/:kind
func (h *GameConfigHandler) Delete(c *gin.Context) {
	if err := h.configService.Delete(c.Request.Context(), gameParam(c), c.Param("kind")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Game config deleted"})
}
