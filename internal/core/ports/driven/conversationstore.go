package driven

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// ConversationStore persists conversations and their messages.
// Backed by SQLite (chat.db).
//
// Conversation IDs passed to AppendMessage and Messages are not checked
// for existence. Callers must pass IDs they obtained from Create or List.
type ConversationStore interface {
	// Create starts a conversation and returns its ID.
	Create(ctx context.Context, title string) (int64, error)

	// AppendMessage adds a message to the end of a conversation.
	AppendMessage(ctx context.Context, msg *domain.Message) error

	// List returns conversations newest first.
	List(ctx context.Context) ([]domain.Conversation, error)

	// Messages returns a conversation's messages oldest first.
	Messages(ctx context.Context, conversationID int64) ([]domain.Message, error)

	// Counts returns the number of conversations and messages.
	Counts(ctx context.Context) (conversations, messages int, err error)
}
