package models

import (
	"time"

	"github.com/google/uuid"
)

// ContentSource represents an origin record (URL, article, generated draft)
// from which posts are derived. Immutable after creation apart from the
// processed_at marker.
type ContentSource struct {
	ID          uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid"`
	SourceType  SourceType `json:"source_type" gorm:"not null;index"`
	Category    string     `json:"category" gorm:"not null"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	ContentHash string     `json:"content_hash" gorm:"not null;index"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	ProcessedAt *time.Time `json:"processed_at"`
}

// TableName sets the table name for the ContentSource model
func (ContentSource) TableName() string {
	return "content_sources"
}
