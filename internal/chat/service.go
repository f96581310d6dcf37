package chat

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/catsuniversity/admissions-chat/internal/assistant"
	"github.com/catsuniversity/admissions-chat/internal/domain"
	"github.com/catsuniversity/admissions-chat/internal/live"
	"github.com/catsuniversity/admissions-chat/internal/store"
	"github.com/google/uuid"
)

const (
	// Greeting is the fixed first bot message of every chat.
	Greeting = "Hello! I'm the Cats University admissions assistant. How can I help you today?"

	// CannedEscalationReply acknowledges a staff hand-off request.
	CannedEscalationReply = "Of course — I've let our admissions staff know. Someone will join this chat shortly."

	// FallbackReply is stored when the provider returns no content.
	FallbackReply = "Sorry, I don't have an answer for that right now. Please try again or ask to chat with an admissions staff."
)

// Service applies the state machine against the store and the assistant.
type Service struct {
	repo      store.Repository
	completer assistant.Completer
	hub       *live.Hub
}

// NewService creates a chat session service. hub may be nil.
func NewService(repo store.Repository, completer assistant.Completer, hub *live.Hub) *Service {
	return &Service{
		repo:      repo,
		completer: completer,
		hub:       hub,
	}
}

// StartResult is the response of starting a new chat.
type StartResult struct {
	ChatID   string `json:"chat_id"`
	Greeting string `json:"greeting"`
}

// Exchange is the outcome of posting a student message: the stored
// student message and the bot reply, when one was produced.
type Exchange struct {
	Student *domain.Message `json:"student"`
	Bot     *domain.Message `json:"bot,omitempty"`
}

// StartChat creates a chat in StatusBot and stores the greeting.
// A greeting insert failure is logged but does not fail the chat; callers
// must tolerate a chat with no initial message.
func (s *Service) StartChat(ctx context.Context) (*StartResult, error) {
	now := time.Now()
	c := &domain.Chat{
		ID:        uuid.NewString(),
		Status:    domain.StatusBot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateChat(ctx, c); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	greeting := &domain.Message{
		ChatID:    c.ID,
		Sender:    domain.SenderBot,
		Content:   Greeting,
		CreatedAt: now,
	}
	if err := s.repo.InsertMessage(ctx, greeting); err != nil {
		slog.Warn("failed to store greeting", "error", err, "chat_id", c.ID)
	} else {
		s.publish(greeting, c.Status)
	}

	return &StartResult{ChatID: c.ID, Greeting: Greeting}, nil
}

// PostStudentMessage stores a student message and routes it through the
// state machine: escalate, answer automatically, or stay silent.
func (s *Service) PostStudentMessage(ctx context.Context, chatID, content string) (*Exchange, error) {
	msg := &domain.Message{
		ChatID:    chatID,
		Sender:    domain.SenderStudent,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("store student message: %w", err)
	}

	status, err := s.repo.GetChatStatus(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("fetch chat status: %w", err)
	}

	d := Transition(status, ActorStudent, content)
	s.publish(msg, d.Next)

	switch d.Reply {
	case ReplyCanned:
		bot, err := s.storeBotReply(ctx, chatID, CannedEscalationReply, d.Next)
		if err != nil {
			return nil, err
		}
		if err := s.applyStatus(ctx, chatID, status, d.Next); err != nil {
			return nil, err
		}
		return &Exchange{Student: msg, Bot: bot}, nil

	case ReplyGenerated:
		text, err := s.completer.Complete(ctx, content)
		if err != nil {
			return nil, fmt.Errorf("generate reply: %w", err)
		}
		if strings.TrimSpace(text) == "" {
			text = FallbackReply
		}
		bot, err := s.storeBotReply(ctx, chatID, text, d.Next)
		if err != nil {
			return nil, err
		}
		return &Exchange{Student: msg, Bot: bot}, nil

	default:
		if err := s.applyStatus(ctx, chatID, status, d.Next); err != nil {
			return nil, err
		}
		return &Exchange{Student: msg}, nil
	}
}

// PostAdminReply stores a staff reply and, if the chat was waiting for a
// human, marks it as human-handled.
func (s *Service) PostAdminReply(ctx context.Context, chatID, content string) error {
	msg := &domain.Message{
		ChatID:    chatID,
		Sender:    domain.SenderAdmin,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertMessage(ctx, msg); err != nil {
		return fmt.Errorf("store admin reply: %w", err)
	}

	status, err := s.repo.GetChatStatus(ctx, chatID)
	if err != nil {
		return fmt.Errorf("fetch chat status: %w", err)
	}

	d := Transition(status, ActorAdmin, content)
	s.publish(msg, d.Next)

	return s.applyStatus(ctx, chatID, status, d.Next)
}

// ListChats returns the admin dashboard view of all chats.
func (s *Service) ListChats(ctx context.Context) ([]*domain.ChatSummary, error) {
	chats, err := s.repo.ListChats(ctx)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	return chats, nil
}

// ListMessages returns the full transcript of one chat.
func (s *Service) ListMessages(ctx context.Context, chatID string) ([]*domain.Message, error) {
	if _, err := s.repo.GetChatStatus(ctx, chatID); err != nil {
		return nil, fmt.Errorf("fetch chat status: %w", err)
	}
	messages, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// SaveFollowup records contact details for later staff outreach.
func (s *Service) SaveFollowup(ctx context.Context, f *domain.Followup) error {
	if _, err := s.repo.GetChatStatus(ctx, f.ChatID); err != nil {
		return fmt.Errorf("fetch chat status: %w", err)
	}
	f.UpdatedAt = time.Now()
	if err := s.repo.UpsertFollowup(ctx, f); err != nil {
		return fmt.Errorf("save followup: %w", err)
	}
	return nil
}

func (s *Service) storeBotReply(ctx context.Context, chatID, content string, status domain.Status) (*domain.Message, error) {
	bot := &domain.Message{
		ChatID:    chatID,
		Sender:    domain.SenderBot,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.repo.InsertMessage(ctx, bot); err != nil {
		return nil, fmt.Errorf("store bot reply: %w", err)
	}
	s.publish(bot, status)
	return bot, nil
}

func (s *Service) applyStatus(ctx context.Context, chatID string, current, next domain.Status) error {
	if next == current {
		return nil
	}
	if err := s.repo.UpdateChatStatus(ctx, chatID, next); err != nil {
		return fmt.Errorf("update chat status: %w", err)
	}
	return nil
}

func (s *Service) publish(msg *domain.Message, status domain.Status) {
	s.hub.Publish(live.Event{
		ChatID:  msg.ChatID,
		Sender:  msg.Sender,
		Content: msg.Content,
		Status:  status,
		At:      msg.CreatedAt,
	})
}
