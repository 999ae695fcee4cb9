package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
)

// Ensure ConversationService implements the interface.
var _ driving.ConversationService = (*ConversationService)(nil)

// ConversationService manages conversation history.
type ConversationService struct {
	store    driven.ConversationStore
	notifier Notifier
}

// NewConversationService creates a new conversation service.
func NewConversationService(store driven.ConversationStore, notifier Notifier) *ConversationService {
	return &ConversationService{store: store, notifier: notifierOrNop(notifier)}
}

// Start creates a conversation. A blank title becomes "New conversation".
func (s *ConversationService) Start(ctx context.Context, title string) (int64, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = domain.DefaultConversationTitle
	}

	id, err := s.store.Create(ctx, title)
	if err != nil {
		return 0, err
	}
	s.notifier.Notify("conversation")
	return id, nil
}

// Append adds a message. The conversation ID is not checked for existence.
func (s *ConversationService) Append(ctx context.Context, id int64, role domain.Role, content string) error {
	if !role.IsValid() {
		return fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, role)
	}

	msg := &domain.Message{ConversationID: id, Role: role, Content: content}
	if err := s.store.AppendMessage(ctx, msg); err != nil {
		return err
	}
	s.notifier.Notify("message")
	return nil
}

// List returns conversations newest first.
func (s *ConversationService) List(ctx context.Context) ([]domain.Conversation, error) {
	return s.store.List(ctx)
}

// Messages returns a conversation's messages oldest first.
func (s *ConversationService) Messages(ctx context.Context, id int64) ([]domain.Message, error) {
	return s.store.Messages(ctx, id)
}
