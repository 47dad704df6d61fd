package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func setupPostsRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	gin.SetMode(gin.TestMode)
	db := setupTestDB(t)

	postsHandler := NewPostsHandler(services.NewPostsService(db))
	metricsHandler := NewMetricsHandler(services.NewMetricsService(db))

	r := gin.New()
	r.POST("/api/posts", postsHandler.Create)
	r.POST("/api/posts/:id/status", postsHandler.Transition)
	r.GET("/api/posts/:id/performance", postsHandler.Performance)
	r.POST("/api/posts/:id/metrics", metricsHandler.Report)
	return r, db
}

func postJSON(t *testing.T, router *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("Failed to encode body: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreatePostEndpoint(t *testing.T) {
	router, _ := setupPostsRouter(t)

	w := postJSON(t, router, "/api/posts", map[string]interface{}{
		"platform": "twitter",
		"content":  "hi",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d (%s)", w.Code, w.Body.String())
	}

	var post models.Post
	if err := json.Unmarshal(w.Body.Bytes(), &post); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if post.Status != models.StatusPending {
		t.Errorf("Expected pending status, got %s", post.Status)
	}
}

func TestCreatePostEndpointRejectsUnknownPlatform(t *testing.T) {
	router, _ := setupPostsRouter(t)

	w := postJSON(t, router, "/api/posts", map[string]interface{}{
		"platform": "mastodon",
		"content":  "hi",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", w.Code)
	}
}

func TestPostLifecycleOverHTTP(t *testing.T) {
	router, _ := setupPostsRouter(t)

	w := postJSON(t, router, "/api/posts", map[string]interface{}{
		"platform": "twitter",
		"content":  "launch tweet",
		"status":   "generated",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed: %d (%s)", w.Code, w.Body.String())
	}
	var post models.Post
	json.Unmarshal(w.Body.Bytes(), &post)

	w = postJSON(t, router, "/api/posts/"+post.ID.String()+"/status", map[string]interface{}{
		"status": "posted",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Transition failed: %d (%s)", w.Code, w.Body.String())
	}

	w = postJSON(t, router, "/api/posts/"+post.ID.String()+"/metrics", map[string]interface{}{
		"likes": 3, "comments": 1, "shares": 0, "views": 20,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("Report failed: %d (%s)", w.Code, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/api/posts/"+post.ID.String()+"/performance", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Performance failed: %d (%s)", rec.Code, rec.Body.String())
	}

	var report services.PerformanceReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("Failed to decode report: %v", err)
	}
	if report.Current.EngagementRate != 0.2 {
		t.Errorf("Expected engagement rate 0.2, got %f", report.Current.EngagementRate)
	}
	if report.PostedAt == nil {
		t.Error("Expected posted_at set after transition")
	}
}

func TestTransitionEndpointUnknownPost(t *testing.T) {
	router, _ := setupPostsRouter(t)

	w := postJSON(t, router, "/api/posts/6f1e0cde-9e9b-4b5f-8c6e-3ce1a9f4a111/status", map[string]interface{}{
		"status": "posted",
	})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
