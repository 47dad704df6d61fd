package services

import (
	"math"
	"sync"
	"testing"
	"time"

	"social-ledger/internal/models"

	"github.com/google/uuid"
)

func TestReportCreatesThenMerges(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)
	post := createTestPost(t, db, models.PlatformTwitter, "tracked")

	ok, err := service.Report(post.ID, models.MetricsReport{
		Likes: intPtr(10),
		Views: intPtr(100),
	})
	if err != nil || !ok {
		t.Fatalf("First report failed: ok=%v err=%v", ok, err)
	}

	ok, err = service.Report(post.ID, models.MetricsReport{
		Comments: intPtr(5),
	})
	if err != nil || !ok {
		t.Fatalf("Second report failed: ok=%v err=%v", ok, err)
	}

	var metrics models.PostMetrics
	if err := db.First(&metrics, "post_id = ?", post.ID).Error; err != nil {
		t.Fatalf("Failed to load metrics: %v", err)
	}

	// Last write wins per field: untouched fields keep their values
	if metrics.Likes != 10 || metrics.Comments != 5 || metrics.Views != 100 {
		t.Errorf("Unexpected merged metrics: likes=%d comments=%d views=%d",
			metrics.Likes, metrics.Comments, metrics.Views)
	}
	if math.Abs(metrics.EngagementRate-0.15) > 1e-9 {
		t.Errorf("Expected engagement rate 0.15, got %f", metrics.EngagementRate)
	}
	if len(metrics.MetricsHistory) != 2 {
		t.Errorf("Expected 2 history entries, got %d", len(metrics.MetricsHistory))
	}
	if metrics.FirstTracked.IsZero() || metrics.LastUpdated.IsZero() {
		t.Error("Expected tracking timestamps to be stamped")
	}
}

func TestReportHistoryRecordsInput(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)
	post := createTestPost(t, db, models.PlatformTwitter, "tracked")

	service.Report(post.ID, models.MetricsReport{Likes: intPtr(10), Views: intPtr(100)})
	service.Report(post.ID, models.MetricsReport{Comments: intPtr(5)})

	var metrics models.PostMetrics
	db.First(&metrics, "post_id = ?", post.ID)

	// Snapshots hold the reported input, not the merged result
	second := metrics.MetricsHistory[1].Metrics
	if second.Comments == nil || *second.Comments != 5 {
		t.Error("Expected second snapshot to carry the reported comments")
	}
	if second.Likes != nil {
		t.Error("Expected second snapshot to omit unreported fields")
	}
}

func TestReportZeroViewsKeepsPriorRate(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)
	post := createTestPost(t, db, models.PlatformTwitter, "tracked")

	service.Report(post.ID, models.MetricsReport{
		Likes: intPtr(2), Comments: intPtr(1), Shares: intPtr(1), Views: intPtr(20),
	})
	service.Report(post.ID, models.MetricsReport{Views: intPtr(0)})

	var metrics models.PostMetrics
	db.First(&metrics, "post_id = ?", post.ID)

	if math.Abs(metrics.EngagementRate-0.2) > 1e-9 {
		t.Errorf("Expected rate to keep prior value 0.2, got %f", metrics.EngagementRate)
	}
}

func TestReportMergesPlatformMetrics(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)
	post := createTestPost(t, db, models.PlatformLinkedIn, "article")

	service.Report(post.ID, models.MetricsReport{
		PlatformMetrics: map[string]float64{"impressions": 500},
	})
	service.Report(post.ID, models.MetricsReport{
		PlatformMetrics:  map[string]float64{"impressions": 900, "reactions": 12},
		PerformanceScore: floatPtr(0.7),
	})

	var metrics models.PostMetrics
	db.First(&metrics, "post_id = ?", post.ID)

	if metrics.PlatformMetrics["impressions"] != 900 {
		t.Errorf("Expected impressions overwritten to 900, got %f", metrics.PlatformMetrics["impressions"])
	}
	if metrics.PlatformMetrics["reactions"] != 12 {
		t.Error("Expected new platform metric key to be added")
	}
	if metrics.PerformanceScore != 0.7 {
		t.Errorf("Expected performance score 0.7, got %f", metrics.PerformanceScore)
	}
}

// recordingSink captures published snapshots for assertions
type recordingSink struct {
	mu     sync.Mutex
	events []uuid.UUID
}

func (s *recordingSink) Publish(postID uuid.UUID, snapshot models.MetricsSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, postID)
}

func TestReportPublishesToSink(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)
	sink := &recordingSink{}
	service.AttachSink(sink)

	post := createTestPost(t, db, models.PlatformTwitter, "streamed")
	service.Report(post.ID, models.MetricsReport{Likes: intPtr(1)})

	sink.mu.Lock()
	defer sink.mu.Unlock()
	if len(sink.events) != 1 || sink.events[0] != post.ID {
		t.Errorf("Expected one published snapshot for post %s, got %v", post.ID, sink.events)
	}
}

func TestPlatformAnalyticsEmpty(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	analytics, err := service.PlatformAnalytics(models.PlatformTwitter, start, end)
	if err != nil {
		t.Fatalf("PlatformAnalytics failed: %v", err)
	}

	if analytics.TotalPosts != 0 {
		t.Errorf("Expected 0 posts, got %d", analytics.TotalPosts)
	}
	if analytics.AverageEngagementRate != 0 {
		t.Errorf("Expected 0 average rate, got %f", analytics.AverageEngagementRate)
	}
}

func TestPlatformAnalyticsAggregates(t *testing.T) {
	db := setupTestDB(t)
	posts := NewPostsService(db)
	service := NewMetricsService(db)

	first := createTestPost(t, db, models.PlatformTwitter, "one")
	second := createTestPost(t, db, models.PlatformTwitter, "two")
	offRange := createTestPost(t, db, models.PlatformLinkedIn, "other platform")

	for _, p := range []uuid.UUID{first.ID, second.ID, offRange.ID} {
		if ok, err := posts.Transition(p, models.StatusPosted, ""); !ok {
			t.Fatalf("Transition failed: %v", err)
		}
	}

	service.Report(first.ID, models.MetricsReport{
		Likes: intPtr(10), Views: intPtr(100),
	})
	service.Report(second.ID, models.MetricsReport{
		Likes: intPtr(20), Comments: intPtr(10), Views: intPtr(100),
	})

	end := time.Now().UTC().Add(time.Minute)
	start := end.AddDate(0, 0, -1)
	analytics, err := service.PlatformAnalytics(models.PlatformTwitter, start, end)
	if err != nil {
		t.Fatalf("PlatformAnalytics failed: %v", err)
	}

	if analytics.TotalPosts != 2 {
		t.Errorf("Expected 2 posts, got %d", analytics.TotalPosts)
	}
	if analytics.TotalEngagement.Likes != 30 || analytics.TotalEngagement.Views != 200 {
		t.Errorf("Unexpected totals: %+v", analytics.TotalEngagement)
	}
	// Unweighted mean of 0.1 and 0.3
	if math.Abs(analytics.AverageEngagementRate-0.2) > 1e-9 {
		t.Errorf("Expected average rate 0.2, got %f", analytics.AverageEngagementRate)
	}
	if len(analytics.Posts) != 2 {
		t.Errorf("Expected per-post detail for 2 posts, got %d", len(analytics.Posts))
	}
}

func TestPlatformAnalyticsRejectsUnknownPlatform(t *testing.T) {
	db := setupTestDB(t)
	service := NewMetricsService(db)

	_, err := service.PlatformAnalytics("mastodon", time.Now().Add(-time.Hour), time.Now())
	if !IsValidation(err) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}
