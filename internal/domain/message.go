package domain

import (
	"time"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderStudent Sender = "student"
	SenderBot     Sender = "bot"
	SenderAdmin   Sender = "admin"
)

// Message is one utterance within a chat. Messages are immutable once
// stored; ordering is by creation time, assigned by the store.
type Message struct {
	ID        int64     `json:"id"`
	ChatID    string    `json:"chat_id"`
	Sender    Sender    `json:"sender"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
