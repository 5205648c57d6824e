package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"casino-engine-backend/internal/services"
)

// statusFor maps the service sentinels onto HTTP codes. Anything unmapped
// is a server fault.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrInsufficientFunds):
		return http.StatusPaymentRequired
	case errors.Is(err, services.ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrRoundNotActive),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrNothingToCashOut),
		errors.Is(err, services.ErrSeedInUse),
		errors.Is(err, services.ErrSeedNotRevealed):
		return http.StatusConflict
	case errors.Is(err, services.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, services.ErrDuplicateInFlight):
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)

	body := gin.H{"error": err.Error()}
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		body["error"] = "internal error"
	}

	c.JSON(status, body)
}
