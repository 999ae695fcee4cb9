package driven

import "context"

// Answerer produces an answer to a question from retrieved context.
// This is an optional service - when nil, the assistant returns the
// labelled context excerpts instead.
type Answerer interface {
	// Answer generates an answer. contextText holds the ranked passages,
	// each prefixed with a stable label such as "[Excerpt 1]".
	Answer(ctx context.Context, question, contextText string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string
}
