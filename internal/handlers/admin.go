package handlers

import (
	"net/http"
	"os"

	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AdminHandler serves store health and integrity endpoints
type AdminHandler struct {
	db          *gorm.DB
	maintenance *services.MaintenanceService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *gorm.DB, maintenance *services.MaintenanceService) *AdminHandler {
	return &AdminHandler{db: db, maintenance: maintenance}
}

// AdminAuth middleware for basic password protection
func (h *AdminHandler) AdminAuth() gin.HandlerFunc {
	return gin.BasicAuth(gin.Accounts{
		"admin": getAdminPassword(),
	})
}

// getAdminPassword returns the admin password from environment or default
func getAdminPassword() string {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123" // Default password for development
	}
	return password
}

// Status handles GET /admin/status: table counts and index presence
func (h *AdminHandler) Status(c *gin.Context) {
	counts, err := h.maintenance.TableCounts()
	if err != nil {
		respondError(c, err)
		return
	}
	indexes, err := h.maintenance.CheckIndexes()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "indexes": indexes})
}

// Integrity handles GET /admin/integrity: the on-demand referential scan
// for posts whose source reference no longer resolves.
func (h *AdminHandler) Integrity(c *gin.Context) {
	orphans, err := h.maintenance.FindOrphanedPosts()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orphaned_count": len(orphans), "orphaned_posts": orphans})
}

// HealthCheck handles GET /health
func (h *AdminHandler) HealthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
