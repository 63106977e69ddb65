package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/spinforge/arcade-backend/internal/models"
	"github.com/spinforge/arcade-backend/internal/services"
)

// RaffleHandler handles raffle HTTP requests
type RaffleHandler struct {
	raffleService services.RaffleService
}

// NewRaffleHandler creates a new RaffleHandler
func NewRaffleHandler(raffleService services.RaffleService) *RaffleHandler {
	return &RaffleHandler{
		raffleService: raffleService,
	}
}

// Create handles POST /admin/raffles
func (h *RaffleHandler) Create(c *gin.Context) {
	var req models.CreateRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, raffle)
}

// Enter handles POST /raffles/:id/enter
func (h *RaffleHandler) Enter(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}
	raffleID, ok := pathID(c)
	if !ok {
		return
	}
	var req models.EnterRaffleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	raffle, err := h.raffleService.Enter(c.Request.Context(), accountID, raffleID, req.Tickets)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// Get handles GET /raffles/:id
func (h *RaffleHandler) Get(c *gin.Context) {
	raffleID, ok := pathID(c)
	if !ok {
		return
	}

	raffle, err := h.raffleService.Get(c.Request.Context(), raffleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffle)
}

// List handles GET /raffles?status=OPEN
func (h *RaffleHandler) List(c *gin.Context) {
	page, limit := pagination(c)
	status := models.RaffleStatus(strings.ToUpper(c.Query("status")))

	raffles, err := h.raffleService.List(c.Request.Context(), status, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, raffles)
}

// SetActiveRequest is the admin body for opening or closing a raffle
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles POST /admin/raffles/:id/set-active
func (h *RaffleHandler) SetActive(c *gin.Context) {
	raffleID, ok := pathID(c)
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.raffleService.SetActive(c.Request.Context(), raffleID, *req.Active); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Raffle active flag set"})
}

// PickWinnersRequest is the admin body for resolving a raffle
type PickWinnersRequest struct {
	NumWinners int `json:"numWinners" binding:"required,min=1"`
}

// PickWinners handles POST /admin/raffles/:id/pick-winners
func (h *RaffleHandler) PickWinners(c *gin.Context) {
	raffleID, ok := pathID(c)
	if !ok {
		return
	}
	var req PickWinnersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	winners, err := h.raffleService.PickWinners(c.Request.Context(), raffleID, req.NumWinners)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"winners": winners})
}

// Winners handles GET /admin/raffles/:id/winners
func (h *RaffleHandler) Winners(c *gin.Context) {
	raffleID, ok := pathID(c)
	if !ok {
		return
	}

	winners, err := h.raffleService.Winners(c.Request.Context(), raffleID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, winners)
}

// Archives handles GET /admin/archives
func (h *RaffleHandler) Archives(c *gin.Context) {
	page, limit := pagination(c)

	archives, err := h.raffleService.Archives(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, archives)
}

// TicketBalance handles GET /tickets
func (h *RaffleHandler) TicketBalance(c *gin.Context) {
	accountID, ok := callerID(c)
	if !ok {
		return
	}

	balance, err := h.raffleService.TicketBalance(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, balance)
}

// IssueTicketsRequest is the admin body for granting raffle tickets
type IssueTicketsRequest struct {
	AccountID string `json:"accountId" binding:"required"`
	Tickets   int64  `json:"tickets" binding:"required,min=1"`
}

// IssueTickets handles POST /admin/tickets
func (h *RaffleHandler) IssueTickets(c *gin.Context) {
	var req IssueTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	accountID, err := primitive.ObjectIDFromHex(req.AccountID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID format"})
		return
	}

	if err := h.raffleService.IssueTickets(c.Request.Context(), accountID, req.Tickets); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Tickets issued"})
}
