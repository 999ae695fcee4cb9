package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// conversationStore implements driven.ConversationStore.
type conversationStore struct {
	db *sql.DB
}

var _ driven.ConversationStore = (*conversationStore)(nil)

// Create starts a conversation and returns its ID.
func (s *conversationStore) Create(ctx context.Context, title string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"INSERT INTO conversations (title, created_at) VALUES (?, ?)",
		title, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("%w: creating conversation: %v", domain.ErrStorage, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%w: reading conversation id: %v", domain.ErrStorage, err)
	}
	return id, nil
}

// AppendMessage inserts a message. The conversation ID is not checked.
func (s *conversationStore) AppendMessage(ctx context.Context, msg *domain.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}
	msg.CreatedAt = msg.CreatedAt.UTC()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO messages (conversation_id, role, content, created_at)
		VALUES (?, ?, ?, ?)
	`, msg.ConversationID, string(msg.Role), msg.Content, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: appending message: %v", domain.ErrStorage, err)
	}
	if msg.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("%w: reading message id: %v", domain.ErrStorage, err)
	}
	return nil
}

// List returns conversations newest first.
func (s *conversationStore) List(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, created_at FROM conversations
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying conversations: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var convs []domain.Conversation //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		var c domain.Conversation
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning conversation: %v", domain.ErrStorage, err)
		}
		c.CreatedAt = c.CreatedAt.UTC()
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

// Messages returns a conversation's messages in insertion order.
func (s *conversationStore) Messages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, conversation_id, role, content, created_at
		FROM messages WHERE conversation_id = ?
		ORDER BY id
	`, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying messages: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var msgs []domain.Message //nolint:prealloc // size unknown from rows iterator
	for rows.Next() {
		var m domain.Message
		var role string
		if err := rows.Scan(&m.ID, &m.ConversationID, &role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning message: %v", domain.ErrStorage, err)
		}
		m.Role = domain.Role(role)
		m.CreatedAt = m.CreatedAt.UTC()
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

// Counts returns the number of conversations and messages.
func (s *conversationStore) Counts(ctx context.Context) (conversations, messages int, err error) {
	err = s.db.QueryRowContext(ctx,
		"SELECT (SELECT COUNT(*) FROM conversations), (SELECT COUNT(*) FROM messages)",
	).Scan(&conversations, &messages)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: counting conversations: %v", domain.ErrStorage, err)
	}
	return conversations, messages, nil
}
