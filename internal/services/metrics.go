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

// SnapshotSink receives every accepted metrics snapshot. Used to feed the
// live metrics stream; delivery happens after the report has committed.
type SnapshotSink interface {
	Publish(postID uuid.UUID, snapshot models.MetricsSnapshot)
}

// MetricsService owns per-post metrics rows and their append-only history
type MetricsService struct {
	db   *gorm.DB
	sink SnapshotSink
}

// NewMetricsService creates a new metrics service
func NewMetricsService(db *gorm.DB) *MetricsService {
	return &MetricsService{db: db}
}

// AttachSink registers a sink for committed snapshots. Optional; call before
// serving traffic.
func (m *MetricsService) AttachSink(sink SnapshotSink) {
	m.sink = sink
}

// Report records one observed metrics poll for a post. The first report
// creates the row; later reports merge provided fields over the stored ones
// (last write wins per field, not a numeric delta). The engagement rate is
// recomputed from the merged counters whenever views is positive, and a
// snapshot of the input is appended to the history. The whole update is one
// transaction; on storage failure nothing is applied and ok is false.
func (m *MetricsService) Report(postID uuid.UUID, report models.MetricsReport) (bool, error) {
	now := time.Now().UTC()
	snapshot := models.MetricsSnapshot{Timestamp: now, Metrics: report}

	err := m.db.Transaction(func(tx *gorm.DB) error {
		var metrics models.PostMetrics
		err := tx.First(&metrics, "post_id = ?", postID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics = models.PostMetrics{
				ID:           uuid.New(),
				PostID:       postID,
				FirstTracked: now,
			}
		} else if err != nil {
			return err
		}

		mergeReport(&metrics, report)

		// views == 0 keeps the prior rate rather than faulting on division
		if metrics.Views > 0 {
			total := metrics.Likes + metrics.Comments + metrics.Shares
			metrics.EngagementRate = float64(total) / float64(metrics.Views)
		}

		metrics.MetricsHistory = append(metrics.MetricsHistory, snapshot)
		metrics.LastUpdated = now

		return tx.Save(&metrics).Error
	})
	if err != nil {
		log.Printf("Error updating metrics for post %s: %v", postID, err)
		return false, &StorageError{Op: "report post metrics", Err: err}
	}

	if m.sink != nil {
		m.sink.Publish(postID, snapshot)
	}
	return true, nil
}

// mergeReport overlays the provided fields onto the stored row
func mergeReport(metrics *models.PostMetrics, report models.MetricsReport) {
	if report.Likes != nil {
		metrics.Likes = *report.Likes
	}
	if report.Comments != nil {
		metrics.Comments = *report.Comments
	}
	if report.Shares != nil {
		metrics.Shares = *report.Shares
	}
	if report.Views != nil {
		metrics.Views = *report.Views
	}
	if report.Clicks != nil {
		metrics.Clicks = *report.Clicks
	}
	if report.PerformanceScore != nil {
		metrics.PerformanceScore = *report.PerformanceScore
	}
	if report.PlatformMetrics != nil {
		if metrics.PlatformMetrics == nil {
			metrics.PlatformMetrics = models.PlatformMetrics{}
		}
		for key, value := range report.PlatformMetrics {
			metrics.PlatformMetrics[key] = value
		}
	}
}

// EngagementTotals sums raw engagement across a set of posts
type EngagementTotals struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
	Views    int `json:"views"`
}

// PostAnalytics is the per-post detail inside a platform analytics result
type PostAnalytics struct {
	PostID   uuid.UUID      `json:"post_id"`
	Content  string         `json:"content"`
	PostedAt *time.Time     `json:"posted_at"`
	Metrics  CurrentMetrics `json:"metrics"`
}

// PlatformAnalytics aggregates engagement for one platform over a date range
type PlatformAnalytics struct {
	Platform              models.Platform  `json:"platform"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	TotalPosts            int              `json:"total_posts"`
	TotalEngagement       EngagementTotals `json:"total_engagement"`
	AverageEngagementRate float64          `json:"average_engagement_rate"`
	Posts                 []PostAnalytics  `json:"posts"`
}

// PlatformAnalytics scans posts of the platform whose posted_at falls in the
// range, joins each to its metrics, sums engagement and averages the per-post
// engagement rates (unweighted; 0 over an empty set). Posts that have no
// metrics row yet count toward total_posts but contribute nothing else.
func (m *MetricsService) PlatformAnalytics(platform models.Platform, startDate, endDate time.Time) (*PlatformAnalytics, error) {
	if !platform.Valid() {
		return nil, &ValidationError{
			Field:  "platform",
			Reason: fmt.Sprintf("must be one of %v", models.Platforms()),
		}
	}

	var posts []models.Post
	err := m.db.Where("platform = ? AND posted_at BETWEEN ? AND ?", platform, startDate, endDate).
		Find(&posts).Error
	if err != nil {
		return nil, &StorageError{Op: "platform analytics", Err: err}
	}

	result := &PlatformAnalytics{
		Platform:   platform,
		StartDate:  startDate,
		EndDate:    endDate,
		TotalPosts: len(posts),
		Posts:      []PostAnalytics{},
	}

	var rateSum float64
	for _, post := range posts {
		var metrics models.PostMetrics
		err := m.db.First(&metrics, "post_id = ?", post.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return nil, &StorageError{Op: "platform analytics", Err: err}
		}

		result.Posts = append(result.Posts, PostAnalytics{
			PostID:   post.ID,
			Content:  post.Content,
			PostedAt: post.PostedAt,
			Metrics: CurrentMetrics{
				Likes:          metrics.Likes,
				Comments:       metrics.Comments,
				Shares:         metrics.Shares,
				Views:          metrics.Views,
				Clicks:         metrics.Clicks,
				EngagementRate: metrics.EngagementRate,
			},
		})

		result.TotalEngagement.Likes += metrics.Likes
		result.TotalEngagement.Comments += metrics.Comments
		result.TotalEngagement.Shares += metrics.Shares
		result.TotalEngagement.Views += metrics.Views
		rateSum += metrics.EngagementRate
	}

	if len(result.Posts) > 0 {
		result.AverageEngagementRate = rateSum / float64(len(result.Posts))
	}

	return result, nil
}
