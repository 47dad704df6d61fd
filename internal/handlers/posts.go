package handlers

import (
	"net/http"
	"strconv"
	"time"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PostsHandler exposes the post lifecycle to the generation and posting
// pipelines.
type PostsHandler struct {
	posts *services.PostsService
}

// NewPostsHandler creates a new posts handler
func NewPostsHandler(posts *services.PostsService) *PostsHandler {
	return &PostsHandler{posts: posts}
}

type createPostRequest struct {
	Platform     string     `json:"platform"`
	Content      string     `json:"content"`
	SourceID     *uuid.UUID `json:"source_id"`
	Status       string     `json:"status"`
	ContentHash  string     `json:"content_hash"`
	ScheduledFor *time.Time `json:"scheduled_for"`
}

// Create handles POST /api/posts
func (h *PostsHandler) Create(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	post, err := h.posts.Create(services.PostInput{
		Platform:     models.Platform(req.Platform),
		Content:      req.Content,
		SourceID:     req.SourceID,
		Status:       models.Status(req.Status),
		ContentHash:  req.ContentHash,
		ScheduledFor: req.ScheduledFor,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

type transitionRequest struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// Transition handles POST /api/posts/:id/status
func (h *PostsHandler) Transition(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	ok, err := h.posts.Transition(id, models.Status(req.Status), req.ErrorMessage)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": ok})
}

// List handles GET /api/posts?platform=&status=&days=&include_metrics=
func (h *PostsHandler) List(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))
	includeMetrics := c.DefaultQuery("include_metrics", "true") == "true"

	posts, err := h.posts.Query(services.PostFilter{
		Platform:       models.Platform(c.Query("platform")),
		Status:         models.Status(c.Query("status")),
		SinceDays:      days,
		IncludeMetrics: includeMetrics,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
}

// Performance handles GET /api/posts/:id/performance
func (h *PostsHandler) Performance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid post id"})
		return
	}
	report, err := h.posts.Performance(id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// Duplicates handles GET /api/posts/duplicates?hash=... — posts sharing a
// fingerprint; interpreting the match is the caller's decision.
func (h *PostsHandler) Duplicates(c *gin.Context) {
	hash := c.Query("hash")
	if hash == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hash query parameter required"})
		return
	}
	posts, err := h.posts.FindByContentHash(hash)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(posts), "posts": posts})
}
