package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

// FairnessHandler exposes the provably fair disclosure surface: current
// commitment, per-bet reveals, seed rotation and independent verification.
type FairnessHandler struct {
	engine *services.Engine
}

func NewFairnessHandler(engine *services.Engine) *FairnessHandler {
	return &FairnessHandler{engine: engine}
}

func (h *FairnessHandler) GetFairness(c *gin.Context) {
	userID := c.GetInt64("user_id")

	fairness, err := h.engine.Fairness(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"fairness": fairness,
	})
}

func (h *FairnessHandler) RevealBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	reveal, err := h.engine.RevealBet(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"reveal":  reveal,
	})
}

func (h *FairnessHandler) RotateSeed(c *gin.Context) {
	userID := c.GetInt64("user_id")

	rotated, err := h.engine.RotateSeed(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"rotation": rotated,
	})
}

func (h *FairnessHandler) SetClientSeed(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.SetClientSeedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	fairness, err := h.engine.SetClientSeed(c.Request.Context(), userID, req.ClientSeed)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"fairness": fairness,
	})
}

// Verify is unauthenticated: anyone holding a revealed seed can recompute
// the outcome without an account.
func (h *FairnessHandler) Verify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	result, err := h.engine.Verify(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"verification": result,
	})
}
