// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"errors"

	"github.com/catsuniversity/admissions-chat/internal/domain"
)

// ErrChatNotFound is returned when an operation references a chat ID that
// has no row in the store.
var ErrChatNotFound = errors.New("chat not found")

// Repository defines the interface for persisting chats, messages, and
// follow-up contact records.
type Repository interface {
	// CreateChat inserts a new chat row.
	CreateChat(ctx context.Context, chat *domain.Chat) error

	// GetChatStatus retrieves the current status of a chat.
	// Returns ErrChatNotFound if the chat does not exist.
	GetChatStatus(ctx context.Context, chatID string) (domain.Status, error)

	// UpdateChatStatus sets the status of a chat.
	// Returns ErrChatNotFound if the chat does not exist.
	UpdateChatStatus(ctx context.Context, chatID string, status domain.Status) error

	// InsertMessage appends a message and fills in its assigned ID.
	InsertMessage(ctx context.Context, msg *domain.Message) error

	// ListMessages returns all messages of a chat in creation order.
	ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error)

	// ListChats returns all chats joined with their follow-up records.
	ListChats(ctx context.Context) ([]*domain.ChatSummary, error)

	// UpsertFollowup creates or replaces the follow-up record of a chat.
	UpsertFollowup(ctx context.Context, f *domain.Followup) error

	// Ping verifies connectivity to the underlying database.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
