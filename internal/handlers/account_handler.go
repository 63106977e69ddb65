package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/spinforge/arcade-backend/internal/services"
)

// AccountHandler handles administrator account visibility requests
type AccountHandler struct {
	authService services.AuthService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(authService services.AuthService) *AccountHandler {
	return &AccountHandler{
		authService: authService,
	}
}

// List handles GET /admin/accounts
func (h *AccountHandler) List(c *gin.Context) {
	page, limit := pagination(c)

	accounts, err := h.authService.ListAccounts(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// Get handles GET /admin/accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	accountID, ok := pathID(c)
	if !ok {
		return
	}

	account, err := h.authService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, account)
}
