package memory

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// Ensure ConversationStore implements the interface.
var _ driven.ConversationStore = (*ConversationStore)(nil)

// ConversationStore is an in-memory implementation of driven.ConversationStore.
type ConversationStore struct {
	mu            sync.RWMutex
	conversations []domain.Conversation
	messages      []domain.Message
}

// NewConversationStore creates a new in-memory conversation store.
func NewConversationStore() *ConversationStore {
	return &ConversationStore{}
}

// Create starts a conversation.
func (s *ConversationStore) Create(_ context.Context, title string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := int64(len(s.conversations) + 1)
	s.conversations = append(s.conversations, domain.Conversation{
		ID: id, Title: title, CreatedAt: time.Now().UTC(),
	})
	return id, nil
}

// AppendMessage adds a message without checking the conversation ID.
func (s *ConversationStore) AppendMessage(_ context.Context, msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg.ID = int64(len(s.messages) + 1)
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages = append(s.messages, *msg)
	return nil
}

// List returns conversations newest first.
func (s *ConversationStore) List(_ context.Context) ([]domain.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Conversation, 0, len(s.conversations))
	for i := len(s.conversations) - 1; i >= 0; i-- {
		out = append(out, s.conversations[i])
	}
	return out, nil
}

// Messages returns a conversation's messages oldest first.
func (s *ConversationStore) Messages(_ context.Context, conversationID int64) ([]domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Message
	for _, m := range s.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

// Counts returns the number of conversations and messages.
func (s *ConversationStore) Counts(_ context.Context) (conversations, messages int, err error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.conversations), len(s.messages), nil
}
