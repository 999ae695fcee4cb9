// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: Document and chunk persistence (documents.db)
//   - SearchBackend: Ranked (FTS5 BM25) or substring passage retrieval
//   - ConversationStore: Conversation history persistence (chat.db)
//   - UserStore: Credential persistence (users.db)
//   - ConfigStore: Application configuration and secrets
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - TextExtractor: Without it, ingestion is unavailable.
//   - Answerer: Without it, questions are answered with the raw excerpts.
//   - ObjectStore: Without it, backup and restore are disabled.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
