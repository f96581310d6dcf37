package live

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
	"github.com/coder/websocket"
)

func TestHandlerStreamsEvents(t *testing.T) {
	hub := NewHub()
	srv := httptest.NewServer(NewHandler(hub))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ws, _, err := websocket.Dial(ctx, srv.URL, nil)
	if err != nil {
		t.Fatalf("failed to dial websocket: %v", err)
	}
	defer func() {
		_ = ws.Close(websocket.StatusNormalClosure, "test done")
	}()

	// Wait for the server side to register its subscription.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.SubscriberCount() == 0 {
		t.Fatal("subscriber never registered")
	}

	hub.Publish(Event{
		ChatID:  "chat-1",
		Sender:  domain.SenderAdmin,
		Content: "Hello from staff",
		Status:  domain.StatusHuman,
		At:      time.Now(),
	})

	_, data, err := ws.Read(ctx)
	if err != nil {
		t.Fatalf("failed to read event: %v", err)
	}

	var got Event
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("failed to decode event: %v", err)
	}
	if got.ChatID != "chat-1" || got.Sender != domain.SenderAdmin || got.Status != domain.StatusHuman {
		t.Errorf("unexpected event: %+v", got)
	}
}
