package handlers

import (
	"net/http"
	"time"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SourcesHandler exposes the content store to the generation pipeline
type SourcesHandler struct {
	sources *services.SourcesService
}

// NewSourcesHandler creates a new sources handler
func NewSourcesHandler(sources *services.SourcesService) *SourcesHandler {
	return &SourcesHandler{sources: sources}
}

type registerSourceRequest struct {
	SourceType  string     `json:"source_type"`
	Category    string     `json:"category"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	ContentHash string     `json:"content_hash"`
	ProcessedAt *time.Time `json:"processed_at"`
}

// Register handles POST /api/sources
func (h *SourcesHandler) Register(c *gin.Context) {
	var req registerSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	source, err := h.sources.Register(services.SourceInput{
		SourceType:  models.SourceType(req.SourceType),
		Category:    req.Category,
		URL:         req.URL,
		Title:       req.Title,
		ContentHash: req.ContentHash,
		ProcessedAt: req.ProcessedAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, source)
}

// Lookup handles GET /api/sources/lookup?hash=... — the dedup signal the
// generation pipeline checks before registering again.
func (h *SourcesHandler) Lookup(c *gin.Context) {
	hash := c.Query("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hash query parameter required"})
		return
	}
	sources, err := h.sources.LookupByHash(hash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(sources), "sources": sources})
}

// Get handles GET /api/sources/:id
func (h *SourcesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source id"})
		return
	}
	source, err := h.sources.GetByID(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, source)
}

// MarkProcessed handles POST /api/sources/:id/processed
func (h *SourcesHandler) MarkProcessed(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid source id"})
		return
	}
	if err := h.sources.MarkProcessed(id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"processed": true})
}
