package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type loginRequest struct {
	Password string `json:"password"`
}

// Login verifies the shared admin password and issues the session cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" {
		Error(w, http.StatusBadRequest, "Password is required")
		return
	}

	if !h.guard.Check(req.Password) {
		Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.guard.IssueCookie(w)
	slog.Info("admin logged in", "ip", r.RemoteAddr)
	JSON(w, http.StatusOK, map[string]string{"message": "Logged in"})
}

// Logout clears the admin session cookie.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.guard.ClearCookie(w)
	JSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

// AdminAuth confirms the caller holds a valid session cookie. The guard
// middleware has already rejected anyone else.
func (h *Handler) AdminAuth(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, "authenticated")
}

// ListChats returns the dashboard view of all chats.
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.svc.ListChats(r.Context())
	if err != nil {
		slog.Error("failed to list chats", "error", err)
		Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"chats": chats})
}

// ListMessages returns the full transcript of one chat.
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	messages, err := h.svc.ListMessages(r.Context(), chatID)
	if err != nil {
		h.chatError(w, err, "failed to list messages", chatID)
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"messages": messages})
}

// PostReply stores a staff reply to a chat.
func (h *Handler) PostReply(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		Error(w, http.StatusBadRequest, "Content is required")
		return
	}

	if err := h.svc.PostAdminReply(r.Context(), chatID, req.Content); err != nil {
		h.chatError(w, err, "failed to post admin reply", chatID)
		return
	}

	slog.Info("admin reply sent", "chat_id", chatID)
	JSON(w, http.StatusOK, map[string]string{"message": "Reply sent"})
}
