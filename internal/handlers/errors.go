package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/spinforge/arcade-backend/internal/gamemath"
	"github.com/spinforge/arcade-backend/internal/services"
)

// statusFor maps the service error taxonomy onto HTTP statuses: authz
// failures to 401/403, missing resources to 404, state conflicts to 409,
// funding shortfalls to 422, malformed input to 400. Anything outside the
// taxonomy is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized

	case errors.Is(err, services.ErrBlacklisted):
		return http.StatusForbidden

	case errors.Is(err, services.ErrMaintenance):
		return http.StatusServiceUnavailable

	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrGameNotConfigured),
		errors.Is(err, mongo.ErrNoDocuments):
		return http.StatusNotFound

	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrGameInactive),
		errors.Is(err, services.ErrPoolInactive),
		errors.Is(err, services.ErrRafflePaused),
		errors.Is(err, services.ErrRaffleActive),
		errors.Is(err, services.ErrRaffleResolved):
		return http.StatusConflict

	case errors.Is(err, services.ErrInsufficientFunds),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInsufficientTickets),
		errors.Is(err, services.ErrInsufficientInventory),
		errors.Is(err, services.ErrNoParticipants):
		return http.StatusUnprocessableEntity

	case errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrAmountOverflow),
		errors.Is(err, services.ErrStakeOutOfBounds),
		errors.Is(err, services.ErrTicketLimitExceeded),
		errors.Is(err, services.ErrPlayCountExceeded),
		errors.Is(err, services.ErrInvalidWinnerCount),
		errors.Is(err, services.ErrInvalidSelector),
		errors.Is(err, services.ErrInvalidGameKind),
		errors.Is(err, services.ErrInvalidRaffleKind),
		errors.Is(err, services.ErrInvalidCoinFace),
		errors.Is(err, gamemath.ErrInvalidTierTable),
		errors.Is(err, gamemath.ErrInvalidHouseEdge),
		errors.Is(err, gamemath.ErrInvalidBetVector),
		errors.Is(err, gamemath.ErrInvalidBallCount),
		errors.Is(err, gamemath.ErrInvalidWinningPercent):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the taxonomy-mapped status with the error message
func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// callerID reads the authenticated account ID placed in the context by the
// auth middleware. A missing or malformed subject aborts with 401.
func callerID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("accountID"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pathID parses the :id path parameter
func pathID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// pagination parses the page and limit query parameters with sane defaults
func pagination(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}
