package services

import (
	"time"

	"social-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SafetyService appends compliance and safety check outcomes for posts
type SafetyService struct {
	db *gorm.DB
}

// NewSafetyService creates a new safety service
func NewSafetyService(db *gorm.DB) *SafetyService {
	return &SafetyService{db: db}
}

// Append records one check outcome. Pure insert; the post reference is not
// verified at write time — consistency checking is the maintenance scan's job.
func (s *SafetyService) Append(postID uuid.UUID, checkType, status string, score float64, issues []models.SafetyIssue) (*models.SafetyLog, error) {
	if checkType == "" {
		return nil, &ValidationError{Field: "check_type", Reason: "required"}
	}
	if status == "" {
		return nil, &ValidationError{Field: "status", Reason: "required"}
	}

	entry := &models.SafetyLog{
		ID:        uuid.New(),
		PostID:    postID,
		CheckType: checkType,
		Status:    status,
		Score:     score,
		Issues:    issues,
		CheckedAt: time.Now().UTC(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "append safety log", Err: err}
	}
	return entry, nil
}

// ForPost returns every check recorded for a post, most recent first
func (s *SafetyService) ForPost(postID uuid.UUID) ([]models.SafetyLog, error) {
	var logs []models.SafetyLog
	err := s.db.Where("post_id = ?", postID).
		Order("checked_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, &StorageError{Op: "list safety logs", Err: err}
	}
	return logs, nil
}
