package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// EventHandler handles observability event listing requests
type EventHandler struct {
	eventService *services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{
		eventService: eventService,
	}
}

// List handles GET /admin/events?type=PLAY_SETTLED
func (h *EventHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	eventType := models.EventType(strings.ToUpper(c.Query("type")))

	events, err := h.eventService.ListEvents(c.Request.Context(), page, limit, eventType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ListByAccount handles GET /admin/accounts/:id/events
func (h *EventHandler) ListByAccount(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}
	page, limit := pagination(c)

	events, err := h.eventService.ListAccountEvents(c.Request.Context(), accountID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
