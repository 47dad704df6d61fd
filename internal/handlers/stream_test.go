package handlers

import (
	"encoding/json"
	"testing"
	"time"

	"social-ledger/internal/models"

	"github.com/google/uuid"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewMetricsHub()

	events, cancel := hub.Subscribe()
	defer cancel()

	postID := uuid.New()
	likes := 5
	hub.Publish(postID, models.MetricsSnapshot{
		Timestamp: time.Now().UTC(),
		Metrics:   models.MetricsReport{Likes: &likes},
	})

	select {
	case payload := <-events:
		var event snapshotEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			t.Fatalf("Failed to decode event: %v", err)
		}
		if event.PostID != postID {
			t.Errorf("Expected event for post %s, got %s", postID, event.PostID)
		}
		if event.Metrics.Likes == nil || *event.Metrics.Likes != 5 {
			t.Error("Expected likes carried through the event")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for published snapshot")
	}
}

func TestHubUnsubscribeStopsDelivery(t *testing.T) {
	hub := NewMetricsHub()

	_, cancel := hub.Subscribe()
	if hub.SubscriberCount() != 1 {
		t.Fatalf("Expected 1 subscriber, got %d", hub.SubscriberCount())
	}

	cancel()
	if hub.SubscriberCount() != 0 {
		t.Errorf("Expected 0 subscribers after cancel, got %d", hub.SubscriberCount())
	}

	// Publishing with no subscribers must not panic or block
	hub.Publish(uuid.New(), models.MetricsSnapshot{Timestamp: time.Now().UTC()})
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	hub := NewMetricsHub()

	// Never drained: the buffered channel fills and further events drop
	_, cancel := hub.Subscribe()
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			hub.Publish(uuid.New(), models.MetricsSnapshot{Timestamp: time.Now().UTC()})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
