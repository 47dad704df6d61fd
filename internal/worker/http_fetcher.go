package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"social-ledger/internal/models"
)

// HTTPFetcher pulls metrics from a relay service that fronts the actual
// platform APIs. The relay owns credentials and rate limits; this side only
// asks for the latest numbers per post.
type HTTPFetcher struct {
	baseURL string
	client  *http.Client
}

// NewHTTPFetcher creates a fetcher against the given relay base URL
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchMetrics implements PlatformMetricsFetcher
func (f *HTTPFetcher) FetchMetrics(ctx context.Context, post models.Post) (models.MetricsReport, error) {
	url := fmt.Sprintf("%s/metrics/%s/%s", f.baseURL, post.Platform, post.ID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.MetricsReport{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return models.MetricsReport{}, fmt.Errorf("failed to fetch metrics: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.MetricsReport{}, fmt.Errorf("HTTP %d from metrics relay", resp.StatusCode)
	}

	var report models.MetricsReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return models.MetricsReport{}, fmt.Errorf("failed to decode metrics: %w", err)
	}
	return report, nil
}
