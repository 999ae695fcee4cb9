// Package anthropic provides the answering adapter backed by the Anthropic
// Messages API.
package anthropic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/custodia-labs/docagent/internal/core/domain"
	"github.com/custodia-labs/docagent/internal/core/ports/driven"
)

// Ensure Answerer implements the interface.
var _ driven.Answerer = (*Answerer)(nil)

// Default configuration values.
const (
	DefaultModel       = "claude-3-5-sonnet-20240620"
	DefaultMaxTokens   = 800
	DefaultTemperature = 0.1
	DefaultTimeout     = 120 * time.Second
)

// Configuration keys and environment variables.
const (
	ConfigAPIKey = "llm.api_key"
	ConfigModel  = "llm.model"
	EnvAPIKey    = "ANTHROPIC_API_KEY"
	EnvModel     = "ANTHROPIC_MODEL"
)

const systemPrompt = "You are a technical assistant. Answer directly and quote the " +
	"excerpts when possible. If the information is not in the documents, say " +
	"that you did not find it.\nUse ONLY the context provided."

// Config holds configuration for the Anthropic answerer.
type Config struct {
	// APIKey is the Anthropic API key (required).
	APIKey string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// Model is the model to use (default: claude-3-5-sonnet-20240620).
	Model string

	// MaxTokens caps the answer length (default: 800).
	MaxTokens int64

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// MaxRetries overrides the SDK's retry count when non-nil.
	MaxRetries *int
}

// ConfigFromStore resolves the API key and model from the config store,
// then the environment. getenv is normally os.Getenv.
func ConfigFromStore(cfg driven.ConfigStore, getenv func(string) string) Config {
	var c Config
	if cfg != nil {
		c.APIKey = cfg.GetString(ConfigAPIKey)
		c.Model = cfg.GetString(ConfigModel)
	}
	if c.APIKey == "" {
		c.APIKey = getenv(EnvAPIKey)
	}
	if c.Model == "" {
		c.Model = getenv(EnvModel)
	}
	return c
}

// Answerer answers questions from labelled excerpts.
type Answerer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewAnswerer creates a new Anthropic answerer.
func NewAnswerer(cfg Config) (*Answerer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: API key is required: %w", domain.ErrLLMUnavailable)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithRequestTimeout(cfg.Timeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.MaxRetries != nil {
		opts = append(opts, option.WithMaxRetries(*cfg.MaxRetries))
	}

	return &Answerer{
		client:    anthropic.NewClient(opts...),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

// Answer sends the question and excerpts and returns the text reply.
func (a *Answerer) Answer(ctx context.Context, question, contextText string) (string, error) {
	prompt := fmt.Sprintf("Question: %s\n\nContext:\n%s", question, contextText)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   a.maxTokens,
		Temperature: anthropic.Float(DefaultTemperature),
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic: status %d: %w", apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("anthropic: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	return strings.TrimSpace(text.String()), nil
}

// ModelName returns the configured model.
func (a *Answerer) ModelName() string {
	return a.model
}
