// Package live streams message activity to connected admin dashboards.
package live

import (
	"log/slog"
	"sync"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
)

// subscriberBuffer is the per-subscriber event queue size. Events are
// dropped for a subscriber that falls this far behind.
const subscriberBuffer = 32

// Event describes one persisted message, pushed to every subscriber.
type Event struct {
	ChatID  string        `json:"chat_id"`
	Sender  domain.Sender `json:"sender"`
	Content string        `json:"content"`
	Status  domain.Status `json:"status"`
	At      time.Time     `json:"at"`
}

// Hub fans message events out to subscribers. Safe for concurrent use.
// A nil *Hub is valid and drops everything.
type Hub struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

// Subscribe registers a new subscriber. The returned cancel func must be
// called when the subscriber is done; the channel is closed by it.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[ch]; ok {
			delete(h.subs, ch)
			close(ch)
		}
	}
	return ch, cancel
}

// Publish delivers an event to all subscribers without blocking.
func (h *Hub) Publish(ev Event) {
	if h == nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			slog.Debug("live subscriber lagging, event dropped", "chat_id", ev.ChatID)
		}
	}
}

// SubscriberCount returns the number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
