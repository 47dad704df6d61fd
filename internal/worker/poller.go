// Package worker runs the background metrics poller. The poller plays the
// metrics-polling collaborator role: it asks the platform for fresh numbers
// on a cadence and reports them into the core, which itself imposes no
// schedule.
package worker

import (
	"context"
	"log"
	"time"

	"social-ledger/internal/models"
	"social-ledger/internal/services"

	"gorm.io/gorm"
)

// PlatformMetricsFetcher fetches current engagement numbers for one post
// from its platform. Implementations live outside the core (they own the
// network calls); the poller only needs this contract.
type PlatformMetricsFetcher interface {
	FetchMetrics(ctx context.Context, post models.Post) (models.MetricsReport, error)
}

// MetricsPoller periodically refreshes metrics for recently posted records
type MetricsPoller struct {
	db       *gorm.DB
	metrics  *services.MetricsService
	fetcher  PlatformMetricsFetcher
	interval time.Duration
	window   time.Duration
}

// NewMetricsPoller creates a poller that refreshes posts published within
// the window, once per interval.
func NewMetricsPoller(db *gorm.DB, metrics *services.MetricsService, fetcher PlatformMetricsFetcher, interval, window time.Duration) *MetricsPoller {
	return &MetricsPoller{
		db:       db,
		metrics:  metrics,
		fetcher:  fetcher,
		interval: interval,
		window:   window,
	}
}

// Run polls until the context is cancelled
func (p *MetricsPoller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	log.Printf("Metrics poller started (every %s, window %s)", p.interval, p.window)
	for {
		select {
		case <-ctx.Done():
			log.Println("Metrics poller stopped")
			return
		case <-ticker.C:
			if err := p.PollOnce(ctx); err != nil {
				log.Printf("Metrics poll cycle failed: %v", err)
			}
		}
	}
}

// PollOnce refreshes every post published within the window. Per-post
// failures are logged and skipped; the cycle carries on.
func (p *MetricsPoller) PollOnce(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-p.window)

	var posts []models.Post
	err := p.db.
		Where("status = ? AND posted_at >= ?", models.StatusPosted, cutoff).
		Find(&posts).Error
	if err != nil {
		return err
	}

	for _, post := range posts {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report, err := p.fetcher.FetchMetrics(ctx, post)
		if err != nil {
			log.Printf("Failed to fetch metrics for post %s: %v", post.ID, err)
			continue
		}
		if ok, err := p.metrics.Report(post.ID, report); !ok {
			log.Printf("Failed to record metrics for post %s: %v", post.ID, err)
		}
	}
	return nil
}
