// Package chat implements the chat status state machine and the session
// operations that apply it against the store and the assistant.
package chat

import (
	"strings"

	"github.com/catsuniversity/admissions-chat/internal/domain"
)

// EscalationPhrase is the exact student message (case-insensitive,
// trimmed) that hands the chat off to admissions staff.
const EscalationPhrase = "i want to chat with an admissions staff"

// Actor identifies who authored an incoming message.
type Actor string

const (
	ActorStudent Actor = "student"
	ActorAdmin   Actor = "admin"
)

// Reply names the automated reply, if any, a transition calls for.
type Reply int

const (
	// ReplyNone means no bot reply is produced.
	ReplyNone Reply = iota
	// ReplyCanned means the fixed escalation acknowledgment is stored,
	// without calling the completion provider.
	ReplyCanned
	// ReplyGenerated means the completion provider is asked for a reply.
	ReplyGenerated
)

// Decision is the outcome of feeding one message through the state
// machine: the status the chat should hold afterwards and the reply the
// caller must produce.
type Decision struct {
	Next  domain.Status
	Reply Reply
}

// IsEscalation reports whether content is the escalation phrase.
func IsEscalation(content string) bool {
	return strings.EqualFold(strings.TrimSpace(content), EscalationPhrase)
}

// Transition applies one incoming message to the current chat status.
//
// Escalation is one-way: once a chat has left StatusBot, the assistant
// never replies in it again. A student message while staff are engaged
// still moves the chat back to StatusAwaitingHuman, flagging it as
// waiting for a staff reply.
func Transition(status domain.Status, actor Actor, content string) Decision {
	if actor == ActorAdmin {
		if status == domain.StatusAwaitingHuman {
			return Decision{Next: domain.StatusHuman}
		}
		return Decision{Next: status}
	}

	if status != domain.StatusBot {
		return Decision{Next: domain.StatusAwaitingHuman}
	}
	if IsEscalation(content) {
		return Decision{Next: domain.StatusAwaitingHuman, Reply: ReplyCanned}
	}
	return Decision{Next: domain.StatusBot, Reply: ReplyGenerated}
}
