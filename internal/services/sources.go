package services

import (
	"errors"
	"time"

	"social-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SourcesService owns content-source records
type SourcesService struct {
	db *gorm.DB
}

// NewSourcesService creates a new sources service
func NewSourcesService(db *gorm.DB) *SourcesService {
	return &SourcesService{db: db}
}

// SourceInput carries the fields accepted when registering a content source
type SourceInput struct {
	SourceType  models.SourceType
	Category    string
	URL         string
	Title       string
	ContentHash string
	ProcessedAt *time.Time
}

// Register validates and persists a new content source. The content hash is
// computed from url+title when the caller does not supply one. Duplicate
// hashes are allowed: dedup is a caller decision made via LookupByHash.
func (s *SourcesService) Register(input SourceInput) (*models.ContentSource, error) {
	if input.Category == "" {
		return nil, &ValidationError{Field: "category", Reason: "required"}
	}
	if input.SourceType == "" {
		input.SourceType = models.SourceTypeGenerated
	}

	hash := input.ContentHash
	if hash == "" {
		hash = HashSourceFields(input.URL, input.Title)
	}

	source := &models.ContentSource{
		ID:          uuid.New(),
		SourceType:  input.SourceType,
		Category:    input.Category,
		URL:         input.URL,
		Title:       input.Title,
		ContentHash: hash,
		CreatedAt:   time.Now().UTC(),
		ProcessedAt: input.ProcessedAt,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(source).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "register content source", Err: err}
	}
	return source, nil
}

// GetByID returns one content source
func (s *SourcesService) GetByID(id uuid.UUID) (*models.ContentSource, error) {
	var source models.ContentSource
	err := s.db.First(&source, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "content source", ID: id.String()}
	}
	if err != nil {
		return nil, &StorageError{Op: "get content source", Err: err}
	}
	return &source, nil
}

// LookupByHash returns every source carrying the given fingerprint, newest
// first. An empty result means the content has not been seen before.
func (s *SourcesService) LookupByHash(hash string) ([]models.ContentSource, error) {
	var sources []models.ContentSource
	err := s.db.Where("content_hash = ?", hash).
		Order("created_at DESC").
		Find(&sources).Error
	if err != nil {
		return nil, &StorageError{Op: "lookup content source by hash", Err: err}
	}
	return sources, nil
}

// MarkProcessed stamps processed_at once downstream posts have been derived
func (s *SourcesService) MarkProcessed(id uuid.UUID) error {
	now := time.Now().UTC()
	result := s.db.Model(&models.ContentSource{}).
		Where("id = ?", id).
		Update("processed_at", now)
	if result.Error != nil {
		return &StorageError{Op: "mark content source processed", Err: result.Error}
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Entity: "content source", ID: id.String()}
	}
	return nil
}
