package domain

import (
	"context"
	"errors"
)

// Principal identifies the caller for per-conversation authorization.
type Principal struct {
	ID    string
	Role  string
	Admin bool
}

type Service interface {
	// GetMessages returns the thread of a service request, oldest first.
	// Only the request owner or an admin may read it.
	GetMessages(ctx context.Context, principal Principal, serviceRequestID string) ([]Message, error)

	// CreateMessage finds or creates the request's conversation and appends
	// the message, atomically.
	CreateMessage(ctx context.Context, principal Principal, serviceRequestID, text string) (Message, error)

	ListForUser(ctx context.Context, userID string) ([]ConversationPreview, error)
	ListAll(ctx context.Context) ([]ConversationPreview, error)
}

var (
	ErrNotParticipant = errors.New("conversation_not_participant")
	ErrEmptyMessage   = errors.New("empty_message_text")
	ErrInvalidID      = errors.New("invalid_conversation_id")
)
