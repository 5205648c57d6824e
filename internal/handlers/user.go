package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

type UserHandler struct {
	engine *services.Engine
	jwt    *services.JWTService
}

func NewUserHandler(engine *services.Engine, jwt *services.JWTService) *UserHandler {
	return &UserHandler{engine: engine, jwt: jwt}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.engine.User(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    user,
		"balance": gin.H{
			"available":     user.AvailableBalance,
			"locked":        user.LockedBalance,
			"total_wagered": user.TotalWagered,
			"total_won":     user.TotalWon,
		},
	})
}

// CreateUser provisions a player and issues a session token. Internal
// surface only; in production the auth service calls this, in development
// it doubles as a login.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	user, err := h.engine.CreateUser(c.Request.Context(), req.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.jwt.GenerateToken(user.ID, uuid.New().String(), 24*time.Hour)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"user":    user,
		"token":   token,
	})
}

// Credit applies an external balance adjustment over HTTP. Same ledger
// path as the AMQP intake, for operators and services without a broker.
func (h *UserHandler) Credit(c *gin.Context) {
	var req models.CreditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	amount := req.Amount
	typ := models.TransactionTypeDeposit
	switch req.Type {
	case "", "deposit":
	case "bonus":
		typ = models.TransactionTypeBonus
	case "withdraw":
		typ = models.TransactionTypeWithdraw
		amount = -amount
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown credit type"})
		return
	}

	user, err := h.engine.Ledger().Credit(c.Request.Context(), req.UserID, amount, typ, req.Reference)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": gin.H{
			"available": user.AvailableBalance,
			"locked":    user.LockedBalance,
		},
	})
}
