package vector

import (
	"context"
	"errors"

	"jlpt-tutor/llm"
)

// ErrIndexMissing is returned by Count and Drop when the named index does not
// exist yet. Callers treat it as "count = 0" / "nothing to drop".
var ErrIndexMissing = errors.New("vector index does not exist")

// VectorStore defines the operations the tutor needs from a vector index.
type VectorStore interface {
	// AddBatch embeds and stores a batch of chunks, preserving all metadata
	// fields so that later filtering works.
	AddBatch(ctx context.Context, chunks []llm.Chunk) error

	// Search performs semantic search and returns up to topK results ranked
	// by descending similarity. A nil filter searches the whole collection;
	// a non-nil filter matches lesson (and sublesson, if set) exactly.
	Search(ctx context.Context, query string, topK int, filter *llm.SearchFilter) ([]llm.RetrievedChunk, error)

	// Count returns the number of stored chunks, or ErrIndexMissing if the
	// index has not been created.
	Count(ctx context.Context) (int64, error)

	// Drop deletes the index and all stored chunks. Returns ErrIndexMissing
	// if there is nothing to drop.
	Drop(ctx context.Context) error

	// Close closes any connections or resources.
	Close() error
}

// StoreConfig holds configuration shared by vector store implementations.
type StoreConfig struct {
	// Embedding dimension (must match the embedding model)
	EmbeddingDim int

	// Index name for the vector index
	IndexName string

	// Key prefix for stored chunks
	KeyPrefix string
}

// DefaultStoreConfig returns default configuration.
func DefaultStoreConfig() StoreConfig {
	return StoreConfig{
		EmbeddingDim: 768,
		IndexName:    "genki",
		KeyPrefix:    "genki:chunk:",
	}
}
