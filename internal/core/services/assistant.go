package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
	"github.com/custodia-labs/docagent/internal/core/ports/driving"
	"github.com/custodia-labs/docagent/internal/logger"
)

// Ensure AssistantService implements the interface.
var _ driving.AssistantService = (*AssistantService)(nil)

const (
	noModelPrefix = "No language model is configured. Relevant excerpts:\n\n"
	failedPrefix  = "The language model request failed. Relevant excerpts:\n\n"
	emptyAnswer   = "(no answer)"
	titleLength   = 60
)

// AssistantService answers questions from retrieved passages and records
// the exchange in a conversation.
type AssistantService struct {
	conversations driving.ConversationService
	search        driving.SearchService
	answerer      driven.Answerer
	topK          int
}

// NewAssistantService creates a new assistant service.
// The answerer is optional; without it answers are the raw excerpts.
func NewAssistantService(
	conversations driving.ConversationService,
	search driving.SearchService,
	answerer driven.Answerer,
) *AssistantService {
	return &AssistantService{
		conversations: conversations,
		search:        search,
		answerer:      answerer,
		topK:          domain.DefaultTopK,
	}
}

// SetTopK sets how many passages are handed to the answerer.
func (s *AssistantService) SetTopK(k int) {
	if k > 0 {
		s.topK = k
	}
}

// Ask answers question within a conversation. conversationID 0 starts a
// new conversation titled after the question.
func (s *AssistantService) Ask(ctx context.Context, conversationID int64, question string) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	if conversationID == 0 {
		id, err := s.conversations.Start(ctx, conversationTitle(question))
		if err != nil {
			return nil, err
		}
		conversationID = id
	}

	if err := s.conversations.Append(ctx, conversationID, domain.RoleUser, question); err != nil {
		return nil, err
	}

	sources, err := s.search.Search(ctx, question, s.topK)
	if err != nil {
		return nil, err
	}

	contextText := BuildContext(sources)
	answer := &domain.Answer{ConversationID: conversationID, Sources: sources}

	answer.Text, answer.Degraded = s.compose(ctx, question, contextText)

	if err := s.conversations.Append(ctx, conversationID, domain.RoleAssistant, answer.Text); err != nil {
		return nil, err
	}
	return answer, nil
}

// compose asks the answerer, or falls back to the excerpts themselves.
// The second result reports whether the fallback was used.
func (s *AssistantService) compose(ctx context.Context, question, contextText string) (string, bool) {
	if s.answerer == nil {
		return noModelPrefix + contextText, true
	}

	text, err := s.answerer.Answer(ctx, question, contextText)
	if err != nil {
		logger.Warn("answering with %s failed: %v", s.answerer.ModelName(), err)
		return failedPrefix + contextText, true
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return emptyAnswer, false
	}
	return text, false
}

// BuildContext labels each passage "[Excerpt N]" (1-based, in rank order)
// and joins them with blank lines.
func BuildContext(results []domain.SearchResult) string {
	parts := make([]string, len(results))
	for i, r := range results {
		parts[i] = fmt.Sprintf("[Excerpt %d] %s", i+1, r.ChunkText)
	}
	return strings.Join(parts, "\n\n")
}

func conversationTitle(question string) string {
	if utf8.RuneCountInString(question) <= titleLength {
		return question
	}
	return string([]rune(question)[:titleLength]) + "..."
}
