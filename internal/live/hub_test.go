package live

import (
	"testing"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
)

func TestHubPublishReachesSubscribers(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe()
	defer cancel()

	ev := Event{
		ChatID:  "chat-1",
		Sender:  domain.SenderStudent,
		Content: "hello",
		Status:  domain.StatusBot,
		At:      time.Now(),
	}
	hub.Publish(ev)

	select {
	case got := <-events:
		if got.ChatID != "chat-1" || got.Content != "hello" {
			t.Errorf("unexpected event: %+v", got)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestHubCancelRemovesSubscriber(t *testing.T) {
	hub := NewHub()
	events, cancel := hub.Subscribe()

	cancel()
	if hub.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after cancel, got %d", hub.SubscriberCount())
	}
	if _, ok := <-events; ok {
		t.Error("expected channel to be closed after cancel")
	}

	// A second cancel must be a no-op.
	cancel()

	// Publishing after cancel must not panic or block.
	hub.Publish(Event{ChatID: "chat-1"})
}

func TestHubDropsEventsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe()
	defer cancel()

	// Nobody drains the channel; the hub must not block once it fills.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.Publish(Event{ChatID: "chat-1"})
	}
}

func TestNilHubIsSafe(t *testing.T) {
	var hub *Hub
	hub.Publish(Event{ChatID: "chat-1"})
	if hub.SubscriberCount() != 0 {
		t.Error("expected 0 subscribers on nil hub")
	}
}
