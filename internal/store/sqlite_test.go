package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/domain"
)

func newTestStore(t *testing.T) Repository {
	t.Helper()
	repo, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	t.Cleanup(func() {
		if err := repo.Close(); err != nil {
			t.Errorf("failed to close test store: %v", err)
		}
	})
	return repo
}

func newTestChat(t *testing.T, repo Repository, id string) {
	t.Helper()
	now := time.Now()
	err := repo.CreateChat(context.Background(), &domain.Chat{
		ID:        id,
		Status:    domain.StatusBot,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("failed to create chat: %v", err)
	}
}

func TestChatStatusRoundTrip(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	newTestChat(t, repo, "chat-1")

	status, err := repo.GetChatStatus(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetChatStatus failed: %v", err)
	}
	if status != domain.StatusBot {
		t.Errorf("expected status %q, got %q", domain.StatusBot, status)
	}

	if err := repo.UpdateChatStatus(ctx, "chat-1", domain.StatusAwaitingHuman); err != nil {
		t.Fatalf("UpdateChatStatus failed: %v", err)
	}

	status, err = repo.GetChatStatus(ctx, "chat-1")
	if err != nil {
		t.Fatalf("GetChatStatus failed: %v", err)
	}
	if status != domain.StatusAwaitingHuman {
		t.Errorf("expected status %q, got %q", domain.StatusAwaitingHuman, status)
	}
}

func TestChatNotFound(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()

	if _, err := repo.GetChatStatus(ctx, "missing"); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("GetChatStatus: expected ErrChatNotFound, got %v", err)
	}
	if err := repo.UpdateChatStatus(ctx, "missing", domain.StatusHuman); !errors.Is(err, ErrChatNotFound) {
		t.Errorf("UpdateChatStatus: expected ErrChatNotFound, got %v", err)
	}
}

func TestMessagesOrderedByCreation(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	newTestChat(t, repo, "chat-1")

	base := time.Now().Add(-time.Minute)
	inputs := []*domain.Message{
		{ChatID: "chat-1", Sender: domain.SenderBot, Content: "greeting", CreatedAt: base},
		{ChatID: "chat-1", Sender: domain.SenderStudent, Content: "question", CreatedAt: base.Add(10 * time.Second)},
		{ChatID: "chat-1", Sender: domain.SenderBot, Content: "answer", CreatedAt: base.Add(20 * time.Second)},
	}
	for _, msg := range inputs {
		if err := repo.InsertMessage(ctx, msg); err != nil {
			t.Fatalf("InsertMessage failed: %v", err)
		}
		if msg.ID == 0 {
			t.Error("expected InsertMessage to assign an ID")
		}
	}

	messages, err := repo.ListMessages(ctx, "chat-1")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(messages))
	}
	for i, want := range []string{"greeting", "question", "answer"} {
		if messages[i].Content != want {
			t.Errorf("message %d: expected %q, got %q", i, want, messages[i].Content)
		}
	}

	other, err := repo.ListMessages(ctx, "chat-2")
	if err != nil {
		t.Fatalf("ListMessages failed: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("expected no messages for another chat, got %d", len(other))
	}
}

func TestListChatsJoinsFollowups(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	newTestChat(t, repo, "chat-1")
	newTestChat(t, repo, "chat-2")

	err := repo.UpsertFollowup(ctx, &domain.Followup{
		ChatID:        "chat-1",
		StudentEmail:  "kit@example.edu",
		PreferredTime: "afternoons",
		UpdatedAt:     time.Now(),
	})
	if err != nil {
		t.Fatalf("UpsertFollowup failed: %v", err)
	}

	chats, err := repo.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}

	byID := make(map[string]*domain.ChatSummary)
	for _, c := range chats {
		byID[c.ID] = c
	}
	if c := byID["chat-1"]; c == nil || c.StudentEmail != "kit@example.edu" || c.PreferredTime != "afternoons" {
		t.Errorf("expected followup fields on chat-1, got %+v", c)
	}
	if c := byID["chat-2"]; c == nil || c.StudentEmail != "" || c.StudentPhone != "" {
		t.Errorf("expected empty followup fields on chat-2, got %+v", c)
	}
}

func TestUpsertFollowupReplaces(t *testing.T) {
	repo := newTestStore(t)
	ctx := context.Background()
	newTestChat(t, repo, "chat-1")

	first := &domain.Followup{ChatID: "chat-1", StudentEmail: "old@example.edu", UpdatedAt: time.Now()}
	if err := repo.UpsertFollowup(ctx, first); err != nil {
		t.Fatalf("UpsertFollowup failed: %v", err)
	}

	second := &domain.Followup{ChatID: "chat-1", StudentPhone: "555-0101", UpdatedAt: time.Now()}
	if err := repo.UpsertFollowup(ctx, second); err != nil {
		t.Fatalf("UpsertFollowup failed: %v", err)
	}

	chats, err := repo.ListChats(ctx)
	if err != nil {
		t.Fatalf("ListChats failed: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat, got %d", len(chats))
	}
	if chats[0].StudentEmail != "" || chats[0].StudentPhone != "555-0101" {
		t.Errorf("expected the second followup to replace the first, got %+v", chats[0])
	}
}
