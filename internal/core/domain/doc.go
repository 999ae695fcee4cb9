// Package domain defines the core business entities for docagent.
//
// This package is part of the hexagonal architecture's innermost layer.
// It defines the fundamental types:
//
//   - Document: An ingested PDF file
//   - Chunk: An overlapping window of a document's extracted text
//   - Conversation / Message: Persisted question and answer history
//   - UserAccount / Session: Gated access to the assistant
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, go-playground/validator for field rules
//   - Cannot Import: Any internal/ package
package domain
