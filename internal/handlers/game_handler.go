package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// GameHandler handles settlement-engine HTTP requests
type GameHandler struct {
	gameService services.GameService
}

// NewGameHandler creates a new GameHandler
func NewGameHandler(gameService services.GameService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
	}
}

// gameParam reads the :game path parameter; the engine validates the kind
func gameParam(c *gin.Context) models.GameKind {
	return models.GameKind(strings.ToUpper(c.Param("game")))
}

// Play handles POST /games/:game/play
func (h *GameHandler) Play(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.PlayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcome, err := h.gameService.Play(c.Request.Context(), accountID, gameParam(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// PlayMultiple handles POST /games/:game/play-multiple
func (h *GameHandler) PlayMultiple(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	var req models.PlayMultipleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	outcomes, err := h.gameService.PlayMultiple(c.Request.Context(), accountID, gameParam(c), &req)
	if err != nil {
		// Completed iterations are part of the answer even when a later
		// iteration fails.
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "outcomes": outcomes})
		return
	}
	c.JSON(http.StatusOK, gin.H{"outcomes": outcomes})
}

// History handles GET /plays
func (h *GameHandler) History(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	plays, err := h.gameService.History(c.Request.Context(), accountID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plays)
}

// AllHistory handles GET /admin/plays
func (h *GameHandler) AllHistory(c *gin.Context) {
	page, limit := pagination(c)

	plays, err := h.gameService.AllHistory(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plays)
}
