package services

import (
	"social-ledger/internal/database"
	"social-ledger/internal/models"

	"gorm.io/gorm"
)

// MaintenanceService provides on-demand store health and integrity checks.
// These are read-only scans, deliberately separate from write-time
// validation: source references are weak, so broken links are reported
// rather than prevented.
type MaintenanceService struct {
	db *gorm.DB
}

// NewMaintenanceService creates a new maintenance service
func NewMaintenanceService(db *gorm.DB) *MaintenanceService {
	return &MaintenanceService{db: db}
}

// TableCounts returns the row count of every table
func (m *MaintenanceService) TableCounts() (map[string]int64, error) {
	report, err := database.Verify(m.db)
	if err != nil {
		return nil, &StorageError{Op: "count tables", Err: err}
	}
	return report.Counts, nil
}

// CheckIndexes reports whether each expected index exists
func (m *MaintenanceService) CheckIndexes() (map[string]bool, error) {
	status, err := database.CheckIndexes(m.db)
	if err != nil {
		return nil, &StorageError{Op: "check indexes", Err: err}
	}
	return status, nil
}

// FindOrphanedPosts returns posts whose source_id points at a content source
// that no longer exists. Null source ids are fine and are not reported.
func (m *MaintenanceService) FindOrphanedPosts() ([]models.Post, error) {
	var posts []models.Post
	err := m.db.
		Where("source_id IS NOT NULL AND source_id NOT IN (?)",
			m.db.Model(&models.ContentSource{}).Select("id")).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, &StorageError{Op: "scan for orphaned posts", Err: err}
	}
	return posts, nil
}
