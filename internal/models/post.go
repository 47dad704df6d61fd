package models

import (
	"time"

	"github.com/google/uuid"
)

// Post represents one attempt to publish content to one platform, tracked
// through the status lifecycle pending → generated → scheduled → posted,
// with failed reachable from any non-terminal state.
type Post struct {
	ID          uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	Platform    Platform  `json:"platform" gorm:"not null;index"`
	Content     string    `json:"content" gorm:"type:text;not null"`
	ContentHash string    `json:"content_hash" gorm:"not null;index"`

	// SourceID is a weak reference: the source may be deleted, or the content
	// may have been written by a different subsystem, without cascading here.
	SourceID *uuid.UUID `json:"source_id" gorm:"type:uuid;index"`

	Status       Status     `json:"status" gorm:"not null;index;default:pending"`
	PostedAt     *time.Time `json:"posted_at"`
	ScheduledFor *time.Time `json:"scheduled_for"`
	ErrorMessage string     `json:"error_message"`
	CreatedAt    time.Time  `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Metrics    *PostMetrics `json:"metrics,omitempty" gorm:"foreignKey:PostID"`
	SafetyLogs []SafetyLog  `json:"safety_logs,omitempty" gorm:"foreignKey:PostID"`
}

// TableName sets the table name for the Post model
func (Post) TableName() string {
	return "post_history"
}
