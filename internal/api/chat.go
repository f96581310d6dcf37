package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/catsuniversity/admissions-chat/internal/domain"
	"github.com/catsuniversity/admissions-chat/internal/store"
	"github.com/go-chi/chi/v5"
)

type messageRequest struct {
	Content string `json:"content"`
}

type followupRequest struct {
	StudentEmail  string `json:"student_email"`
	StudentPhone  string `json:"student_phone"`
	PreferredTime string `json:"preferred_time"`
}

// Root is a trivial liveness endpoint.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"message": "hello"})
}

// StartChat creates a new chat and returns its ID and greeting.
func (h *Handler) StartChat(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.StartChat(r.Context())
	if err != nil {
		slog.Error("failed to start chat", "error", err)
		Error(w, http.StatusInternalServerError, "Failed to start chat")
		return
	}

	slog.Info("chat started", "chat_id", result.ChatID)
	JSON(w, http.StatusOK, result)
}

// PostMessage accepts a student message and returns the stored exchange.
func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		Error(w, http.StatusBadRequest, "Content is required")
		return
	}

	exchange, err := h.svc.PostStudentMessage(r.Context(), chatID, req.Content)
	if err != nil {
		h.chatError(w, err, "failed to post student message", chatID)
		return
	}

	JSON(w, http.StatusOK, exchange)
}

// SaveFollowup records follow-up contact details for a chat.
func (h *Handler) SaveFollowup(w http.ResponseWriter, r *http.Request) {
	chatID := chi.URLParam(r, "chatID")

	var req followupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	f := &domain.Followup{
		ChatID:        chatID,
		StudentEmail:  strings.TrimSpace(req.StudentEmail),
		StudentPhone:  strings.TrimSpace(req.StudentPhone),
		PreferredTime: strings.TrimSpace(req.PreferredTime),
	}
	if f.Empty() {
		Error(w, http.StatusBadRequest, "At least one contact detail is required")
		return
	}

	if err := h.svc.SaveFollowup(r.Context(), f); err != nil {
		h.chatError(w, err, "failed to save followup", chatID)
		return
	}

	JSON(w, http.StatusOK, map[string]string{"message": "Follow-up saved"})
}

// chatError maps service errors to HTTP responses.
func (h *Handler) chatError(w http.ResponseWriter, err error, logMsg, chatID string) {
	if errors.Is(err, store.ErrChatNotFound) {
		Error(w, http.StatusNotFound, "Chat not found")
		return
	}
	slog.Error(logMsg, "error", err, "chat_id", chatID)
	Error(w, http.StatusInternalServerError, "Internal server error")
}
