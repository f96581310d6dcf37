// Package domain contains core domain types for the admissions chat service.
package domain

import (
	"time"
)

// Status is the handling mode of a chat. Once a chat leaves StatusBot the
// automated assistant never replies in it again.
type Status string

const (
	// StatusBot means the automated assistant answers student messages.
	StatusBot Status = "bot"
	// StatusAwaitingHuman means a staff hand-off was requested and nobody
	// has picked the chat up yet.
	StatusAwaitingHuman Status = "awaiting_human"
	// StatusHuman means admissions staff are engaged in the chat.
	StatusHuman Status = "human"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusBot, StatusAwaitingHuman, StatusHuman:
		return true
	}
	return false
}

// Chat is one conversation between a prospective student and the
// assistant or admissions staff.
type Chat struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ChatSummary is the admin dashboard view of a chat: the chat row joined
// with its follow-up contact record, when one was captured.
type ChatSummary struct {
	ID            string    `json:"id"`
	Status        Status    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	StudentEmail  string    `json:"student_email,omitempty"`
	StudentPhone  string    `json:"student_phone,omitempty"`
	PreferredTime string    `json:"preferred_time,omitempty"`
}
