package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

type GameHandler struct {
	engine *services.Engine
	log    *logrus.Logger
}

func NewGameHandler(engine *services.Engine, log *logrus.Logger) *GameHandler {
	return &GameHandler{engine: engine, log: log}
}

func (h *GameHandler) PlaceBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.PlaceBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	bet, replayed, err := h.engine.PlaceBet(c.Request.Context(), userID, &req)
	if err != nil {
		h.logFailure(userID, "place_bet", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"replayed": replayed,
		"bet":      h.engine.PublicBet(bet),
	})
}

func (h *GameHandler) AdvanceRound(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.AdvanceRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	bet, replayed, err := h.engine.AdvanceRound(c.Request.Context(), userID, &req)
	if err != nil {
		h.logFailure(userID, "advance_round", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"replayed": replayed,
		"bet":      h.engine.PublicBet(bet),
	})
}

func (h *GameHandler) CashOut(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.CashOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	bet, replayed, err := h.engine.CashOut(c.Request.Context(), userID, &req)
	if err != nil {
		h.logFailure(userID, "cash_out", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"replayed": replayed,
		"bet":      h.engine.PublicBet(bet),
	})
}

func (h *GameHandler) GetBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	balance, err := h.engine.Balance(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": balance,
	})
}

func (h *GameHandler) GetBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bet, err := h.engine.Bet(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bet":     h.engine.PublicBet(bet),
	})
}

func (h *GameHandler) GetActiveBets(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bets, err := h.engine.ActiveBets(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	public := make([]*models.Bet, 0, len(bets))
	for i := range bets {
		public = append(public, h.engine.PublicBet(&bets[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bets":    public,
		"count":   len(public),
	})
}

func (h *GameHandler) GetBetHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bets, err := h.engine.BetHistory(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	public := make([]*models.Bet, 0, len(bets))
	for i := range bets {
		public = append(public, h.engine.PublicBet(&bets[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bets":    public,
		"count":   len(public),
	})
}

func (h *GameHandler) GetTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	txns, err := h.engine.TransactionHistory(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": txns,
		"count":        len(txns),
	})
}

func queryLimit(c *gin.Context) int {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 100 {
		return 50
	}
	return limit
}

func (h *GameHandler) logFailure(userID int64, op string, err error) {
	// Expected rejections stay at debug; only genuine faults surface.
	entry := h.log.WithFields(logrus.Fields{"user_id": userID, "op": op})
	if statusFor(err) >= http.StatusInternalServerError {
		entry.WithError(err).Error("operation failed")
	} else {
		entry.WithError(err).Debug("operation rejected")
	}
}
