package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// SafetyIssue is one finding produced by a compliance or safety check.
type SafetyIssue struct {
	Severity string `json:"severity,omitempty"`
	Message  string `json:"message"`
}

// IssueList is the ordered set of findings for one check, stored as JSON.
type IssueList []SafetyIssue

// Value implements driver.Valuer
func (l IssueList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *IssueList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// SafetyLog records the outcome of one safety check run against a post.
// Append-only: one row per check performed, never rewritten.
type SafetyLog struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	PostID    uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index:safety_post_idx"`
	CheckType string    `json:"check_type" gorm:"not null"`
	Status    string    `json:"status" gorm:"not null"`
	Score     float64   `json:"score" gorm:"default:0"`
	Issues    IssueList `json:"issues" gorm:"type:text"`
	CheckedAt time.Time `json:"checked_at" gorm:"index:safety_time_idx"`
}

// TableName sets the table name for the SafetyLog model
func (SafetyLog) TableName() string {
	return "safety_logs"
}
