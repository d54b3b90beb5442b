package types

import (
	"time"

	"github.com/google/uuid"
)

type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// ChatSession is an append-only conversation log. UserID is nil for
// anonymous sessions.
type ChatSession struct {
	ID           uuid.UUID     `json:"id"`
	SessionID    string        `json:"session_id"`
	UserID       *uuid.UUID    `json:"user_id,omitempty"`
	Title        string        `json:"title"`
	Messages     []ChatMessage `json:"messages"`
	MessageCount int           `json:"message_count"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Timestamp time.Time   `json:"timestamp"`
}
