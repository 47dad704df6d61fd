package handlers

import (
	"net/http"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SafetyHandler exposes the safety log store
type SafetyHandler struct {
	safety *services.SafetyService
}

// NewSafetyHandler creates a new safety handler
func NewSafetyHandler(safety *services.SafetyService) *SafetyHandler {
	return &SafetyHandler{safety: safety}
}

type appendSafetyRequest struct {
	CheckType string               `json:"check_type"`
	Status    string               `json:"status"`
	Score     float64              `json:"score"`
	Issues    []models.SafetyIssue `json:"issues"`
}

// Append handles POST /api/posts/:id/safety
func (h *SafetyHandler) Append(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req appendSafetyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	entry, err := h.safety.Append(id, req.CheckType, req.Status, req.Score, req.Issues)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// List handles GET /api/posts/:id/safety
func (h *SafetyHandler) List(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	logs, err := h.safety.ForPost(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(logs), "checks": logs})
}
