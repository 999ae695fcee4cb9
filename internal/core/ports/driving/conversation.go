package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// ConversationService manages persisted conversations.
type ConversationService interface {
	// Start creates a conversation and returns its ID.
	Start(ctx context.Context, title string) (int64, error)

	// Append adds a message to a conversation.
	Append(ctx context.Context, conversationID int64, role domain.Role, content string) error

	// List returns conversations newest first.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Messages returns a conversation's messages oldest first.
	Messages(ctx context.Context, conversationID int64) ([]domain.Message, error)
}
