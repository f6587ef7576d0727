package domain

import (
	"context"
	"time"
)

// ChatMessage is a message on an event's chat board.
// swagger:model ChatMessage
type ChatMessage struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatRepository defines storage operations for event chat messages.
type ChatRepository interface {
	Create(ctx context.Context, msg *ChatMessage) error
	ListByEventID(ctx context.Context, eventID string) ([]*ChatMessage, error)
}

// ChatService gates chat reads and writes on the caller's participation state.
type ChatService interface {
	ListMessages(ctx context.Context, p Principal, eventID string) ([]*ChatMessage, error)
	PostMessage(ctx context.Context, p Principal, eventID, body string) (*ChatMessage, error)
}
