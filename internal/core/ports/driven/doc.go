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
//   - DocumentStore: Document, chunk, and score history persistence
//   - FeedbackStore: Retrieval results, feedback, and the retrain queue
//   - VectorIndex: Vector storage and similarity search
//   - EmbeddingService: Generates vector embeddings
//   - Chunker: Splits document text into overlapping chunks
//   - Normaliser: Transforms raw bytes into document text
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer synthesis. Without it, queries return the ranked
//     citations with a stitched extract instead of a generated answer.
//   - SchedulerStore: Task state persistence. Without it, the scheduler
//     runs from defaults and forgets history across restarts.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
