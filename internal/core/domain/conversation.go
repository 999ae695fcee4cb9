package domain

import "time"

// DefaultConversationTitle is used when a conversation is started without a title.
const DefaultConversationTitle = "New conversation"

// Role identifies the author of a message.
type Role string

// Message roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// IsValid returns true if the role is recognised.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAssistant
}

// Conversation groups an ordered list of messages.
type Conversation struct {
	ID        int64
	Title     string
	CreatedAt time.Time
}

// Message is a single append-only entry in a conversation.
type Message struct {
	ID             int64
	ConversationID int64
	Role           Role
	Content        string
	CreatedAt      time.Time
}

// Answer is the result of asking a question.
type Answer struct {
	// ConversationID is the conversation the exchange was recorded in.
	ConversationID int64

	// Text is the answer shown to the user.
	Text string

	// Sources are the passages handed to the answering model, in rank order.
	Sources []SearchResult

	// Degraded is true when no model answered and Text carries raw excerpts.
	Degraded bool
}
