package live

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
)

// Handler upgrades admin dashboard connections to a WebSocket and relays
// hub events to them as JSON.
type Handler struct {
	hub *Hub
}

// NewHandler creates a WebSocket feed handler for the given hub.
func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// ServeHTTP implements http.Handler for the WebSocket upgrade.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("failed to accept live feed websocket", "error", err, "ip", r.RemoteAddr)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "feed closed"); closeErr != nil {
			slog.Debug("failed to close live feed websocket", "error", closeErr)
		}
	}()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	slog.Info("live feed connected", "ip", r.RemoteAddr)

	// No inbound messages are expected; CloseRead cancels the context
	// when the client goes away.
	ctx := ws.CloseRead(r.Context())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			buf, err := json.Marshal(ev)
			if err != nil {
				slog.Warn("failed to marshal live event", "error", err)
				continue
			}
			if err := ws.Write(ctx, websocket.MessageText, buf); err != nil {
				slog.Debug("live feed write failed", "error", err)
				return
			}
		}
	}
}
