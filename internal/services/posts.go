package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"social-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PostsService owns post records and their status lifecycle. It is the sole
// writer of post status.
type PostsService struct {
	db *gorm.DB
}

// NewPostsService creates a new posts service
func NewPostsService(db *gorm.DB) *PostsService {
	return &PostsService{db: db}
}

// PostInput carries the fields accepted when creating a post
type PostInput struct {
	Platform     models.Platform
	Content      string
	SourceID     *uuid.UUID
	Status       models.Status
	ContentHash  string
	ScheduledFor *time.Time
}

// Create validates and persists a new post. Platform and content are
// required; status defaults to pending; the content hash is derived from the
// content when absent. Hash collisions are not rejected here — different
// platforms may legitimately carry identical text, so duplicate detection is
// the caller's call via FindByContentHash.
func (s *PostsService) Create(input PostInput) (*models.Post, error) {
	if input.Platform == "" {
		return nil, &ValidationError{Field: "platform", Reason: "required"}
	}
	if !input.Platform.Valid() {
		return nil, &ValidationError{
			Field:  "platform",
			Reason: fmt.Sprintf("must be one of %v", models.Platforms()),
		}
	}
	if input.Content == "" {
		return nil, &ValidationError{Field: "content", Reason: "required"}
	}
	status := input.Status
	if status == "" {
		status = models.StatusPending
	}
	if !status.Valid() {
		return nil, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("must be one of %v", models.Statuses()),
		}
	}

	hash := input.ContentHash
	if hash == "" {
		hash = HashContent(input.Content)
	}

	now := time.Now().UTC()
	post := &models.Post{
		ID:           uuid.New(),
		Platform:     input.Platform,
		Content:      input.Content,
		ContentHash:  hash,
		SourceID:     input.SourceID,
		Status:       status,
		ScheduledFor: input.ScheduledFor,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(post).Error
	})
	if err != nil {
		return nil, &StorageError{Op: "create post", Err: err}
	}

	log.Printf("Created %s post %s (status %s)", post.Platform, post.ID, post.Status)
	return post, nil
}

// Transition moves a post to a new status. Any enumerated status is
// accepted as a target, including backward moves such as failed → pending:
// external retry flows depend on permissive reverts, so there is no edge
// validation against the state graph. Reaching posted stamps posted_at; a
// supplied error message is recorded regardless of the target status.
// Returns false when the post does not exist.
func (s *PostsService) Transition(postID uuid.UUID, status models.Status, errorMessage string) (bool, error) {
	if !status.Valid() {
		return false, &ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("must be one of %v", models.Statuses()),
		}
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return err
		}

		updates := map[string]interface{}{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}
		if errorMessage != "" {
			updates["error_message"] = errorMessage
		}
		if status == models.StatusPosted {
			updates["posted_at"] = time.Now().UTC()
		}
		return tx.Model(&post).Updates(updates).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, &NotFoundError{Entity: "post", ID: postID.String()}
	}
	if err != nil {
		return false, &StorageError{Op: "transition post status", Err: err}
	}
	return true, nil
}

// PostFilter narrows a post history query
type PostFilter struct {
	Platform       models.Platform
	Status         models.Status
	SinceDays      int
	IncludeMetrics bool
}

// Query returns posts matching the filter, newest first, optionally joined
// with their metrics row.
func (s *PostsService) Query(filter PostFilter) ([]models.Post, error) {
	query := s.db.Model(&models.Post{})

	if filter.Platform != "" {
		if !filter.Platform.Valid() {
			return nil, &ValidationError{
				Field:  "platform",
				Reason: fmt.Sprintf("must be one of %v", models.Platforms()),
			}
		}
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, &ValidationError{
				Field:  "status",
				Reason: fmt.Sprintf("must be one of %v", models.Statuses()),
			}
		}
		query = query.Where("status = ?", filter.Status)
	}
	if filter.SinceDays > 0 {
		cutoff := time.Now().UTC().AddDate(0, 0, -filter.SinceDays)
		query = query.Where("created_at >= ?", cutoff)
	}
	if filter.IncludeMetrics {
		query = query.Preload("Metrics")
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, &StorageError{Op: "query post history", Err: err}
	}
	return posts, nil
}

// FindByContentHash is the dedup lookup primitive: it returns every post
// carrying the given fingerprint, newest first.
func (s *PostsService) FindByContentHash(hash string) ([]models.Post, error) {
	var posts []models.Post
	err := s.db.Where("content_hash = ?", hash).
		Order("created_at DESC").
		Find(&posts).Error
	if err != nil {
		return nil, &StorageError{Op: "find posts by content hash", Err: err}
	}
	return posts, nil
}

// CurrentMetrics is the merged engagement state of one post
type CurrentMetrics struct {
	Likes          int     `json:"likes"`
	Comments       int     `json:"comments"`
	Shares         int     `json:"shares"`
	Views          int     `json:"views"`
	Clicks         int     `json:"clicks"`
	EngagementRate float64 `json:"engagement_rate"`
}

// PerformanceReport bundles a post's current metrics, history and score
type PerformanceReport struct {
	PostID           uuid.UUID              `json:"post_id"`
	Platform         models.Platform        `json:"platform"`
	PostedAt         *time.Time             `json:"posted_at"`
	Current          CurrentMetrics         `json:"current_metrics"`
	PlatformMetrics  models.PlatformMetrics `json:"platform_metrics"`
	History          models.MetricsHistory  `json:"metrics_history"`
	PerformanceScore float64                `json:"performance_score"`
}

// Performance returns the full performance picture for one post. A post
// without metrics yields a zero-valued report rather than an error, since
// metrics may legitimately not exist yet; only an unknown post id fails.
func (s *PostsService) Performance(postID uuid.UUID) (*PerformanceReport, error) {
	var post models.Post
	err := s.db.First(&post, "id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &NotFoundError{Entity: "post", ID: postID.String()}
	}
	if err != nil {
		return nil, &StorageError{Op: "get post performance", Err: err}
	}

	report := &PerformanceReport{
		PostID:          post.ID,
		Platform:        post.Platform,
		PostedAt:        post.PostedAt,
		PlatformMetrics: models.PlatformMetrics{},
		History:         models.MetricsHistory{},
	}

	var metrics models.PostMetrics
	err = s.db.First(&metrics, "post_id = ?", postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return report, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get post performance", Err: err}
	}

	report.Current = CurrentMetrics{
		Likes:          metrics.Likes,
		Comments:       metrics.Comments,
		Shares:         metrics.Shares,
		Views:          metrics.Views,
		Clicks:         metrics.Clicks,
		EngagementRate: metrics.EngagementRate,
	}
	if metrics.PlatformMetrics != nil {
		report.PlatformMetrics = metrics.PlatformMetrics
	}
	if metrics.MetricsHistory != nil {
		report.History = metrics.MetricsHistory
	}
	report.PerformanceScore = metrics.PerformanceScore

	return report, nil
}
