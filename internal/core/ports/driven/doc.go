// Package driven declares what the core needs from the outside world.
//
// The pipeline cannot run without an ExtractorChain, a Chunker, an
// EmbeddingService with a VectorIndexBuilder, and an LLMService. Settings
// come from a ConfigStore.
//
// Three ports may be nil. Without an OCRService scanned pages yield no text
// and are reported as degraded. Without a PromptStore the built-in answer
// template is used. SessionStore is only wired by the CLI, which runs one
// command per process and has to keep the last ingest on disk.
//
// This package imports domain and nothing else from internal/.
package driven
