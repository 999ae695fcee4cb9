package driving

import (
	"context"

	"github.com/custodia-labs/docagent/internal/core/domain"
)

// AssistantService answers questions from the indexed documents.
type AssistantService interface {
	// Ask answers question within a conversation. A zero conversationID
	// starts a new conversation.
	Ask(ctx context.Context, conversationID int64, question string) (*domain.Answer, error)
}
