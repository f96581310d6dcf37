// Package api provides HTTP handlers for the admissions chat API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/catsuniversity/admissions-chat/internal/auth"
	"github.com/catsuniversity/admissions-chat/internal/chat"
	"github.com/go-chi/chi/v5"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	svc   *chat.Service
	guard *auth.Guard
	live  http.Handler
}

// NewHandler creates a new Handler. live may be nil to disable the admin
// live feed endpoint.
func NewHandler(svc *chat.Service, guard *auth.Guard, live http.Handler) *Handler {
	return &Handler{
		svc:   svc,
		guard: guard,
		live:  live,
	}
}

// RegisterRoutes registers all routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Post("/chat/start", h.StartChat)
	r.Post("/chat/{chatID}/message", h.PostMessage)
	r.Post("/chat/{chatID}/followup", h.SaveFollowup)
	r.Post("/login", h.Login)
	r.Post("/logout", h.Logout)

	r.Route("/admin", func(r chi.Router) {
		r.Use(h.guard.Require)
		r.Get("/auth", h.AdminAuth)
		r.Get("/chats", h.ListChats)
		r.Get("/chat/{chatID}/messages", h.ListMessages)
		r.Post("/chat/{chatID}/reply", h.PostReply)
		if h.live != nil {
			r.Get("/chats/live", h.live.ServeHTTP)
		}
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
