package services

import (
	"testing"

	"social-ledger/internal/models"

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

func createTestPost(t *testing.T, db *gorm.DB, platform models.Platform, content string) *models.Post {
	post, err := NewPostsService(db).Create(PostInput{
		Platform: platform,
		Content:  content,
	})
	if err != nil {
		t.Fatalf("Failed to create test post: %v", err)
	}
	return post
}

func intPtr(v int) *int {
	return &v
}

func floatPtr(v float64) *float64 {
	return &v
}
