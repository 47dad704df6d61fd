package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricsReport carries the engagement fields of a single metrics poll.
// Pointer fields distinguish "not reported this time" from an explicit zero:
// only non-nil fields are merged over the stored row.
type MetricsReport struct {
	Likes            *int               `json:"likes,omitempty"`
	Comments         *int               `json:"comments,omitempty"`
	Shares           *int               `json:"shares,omitempty"`
	Views            *int               `json:"views,omitempty"`
	Clicks           *int               `json:"clicks,omitempty"`
	PerformanceScore *float64           `json:"performance_score,omitempty"`
	PlatformMetrics  map[string]float64 `json:"platform_metrics,omitempty"`
}

// MetricsSnapshot is one timestamped entry in a post's append-only
// performance history. It records the reported input, not the merged result.
type MetricsSnapshot struct {
	Timestamp time.Time     `json:"timestamp"`
	Metrics   MetricsReport `json:"metrics"`
}

// MetricsHistory is an ordered, append-only sequence of snapshots stored as
// a JSON column so it works on both sqlite and postgres.
type MetricsHistory []MetricsSnapshot

// Value implements driver.Valuer
func (h MetricsHistory) Value() (driver.Value, error) {
	if h == nil {
		return "[]", nil
	}
	b, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (h *MetricsHistory) Scan(value interface{}) error {
	return scanJSON(value, h)
}

// PlatformMetrics holds opaque per-platform figures (impressions, retweets,
// reaction breakdowns) keyed by the platform's own metric names.
type PlatformMetrics map[string]float64

// Value implements driver.Valuer
func (m PlatformMetrics) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (m *PlatformMetrics) Scan(value interface{}) error {
	return scanJSON(value, m)
}

// scanJSON decodes a JSON column regardless of whether the driver hands back
// bytes or a string. Empty values decode to the zero value.
func scanJSON(value interface{}, dest interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}

// PostMetrics aggregates engagement for one post. One row per post in
// practice; updated in place on every report, never replaced.
type PostMetrics struct {
	ID     uuid.UUID `json:"id" gorm:"primaryKey;type:uuid"`
	PostID uuid.UUID `json:"post_id" gorm:"type:uuid;not null;index:post_id_idx"`

	Likes    int `json:"likes" gorm:"default:0"`
	Comments int `json:"comments" gorm:"default:0"`
	Shares   int `json:"shares" gorm:"default:0"`
	Views    int `json:"views" gorm:"default:0"`
	Clicks   int `json:"clicks" gorm:"default:0"`

	// EngagementRate is (likes+comments+shares)/views, recomputed on every
	// report that leaves views > 0.
	EngagementRate   float64 `json:"engagement_rate" gorm:"default:0"`
	PerformanceScore float64 `json:"performance_score" gorm:"default:0"`

	PlatformMetrics PlatformMetrics `json:"platform_metrics" gorm:"type:text"`
	MetricsHistory  MetricsHistory  `json:"metrics_history" gorm:"type:text"`

	FirstTracked time.Time `json:"first_tracked" gorm:"index:metrics_time_idx"`
	LastUpdated  time.Time `json:"last_updated"`
}

// TableName sets the table name for the PostMetrics model
func (PostMetrics) TableName() string {
	return "content_metrics"
}
