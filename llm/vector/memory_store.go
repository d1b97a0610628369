package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"jlpt-tutor/llm"

	"github.com/cloudwego/eino/components/embedding"
)

// MemoryStore is an in-memory VectorStore using brute-force cosine search.
// It backs tests and lets the tutor run without a Redis instance; small
// textbook corpora are well within its reach.
type MemoryStore struct {
	embeddingSvc *EmbeddingService
	mu           sync.RWMutex
	created      bool
	chunks       []llm.Chunk
	vectors      [][]float32
}

// NewMemoryStore creates an in-memory vector store.
func NewMemoryStore(embedder embedding.Embedder, dim int) (*MemoryStore, error) {
	if embedder == nil {
		return nil, fmt.Errorf("embedding model is required")
	}
	return &MemoryStore{
		embeddingSvc: NewEmbeddingService(embedder, dim),
	}, nil
}

// AddBatch embeds and stores a batch of chunks.
func (s *MemoryStore) AddBatch(ctx context.Context, chunks []llm.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := s.embeddingSvc.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = true
	s.chunks = append(s.chunks, chunks...)
	s.vectors = append(s.vectors, vectors...)
	return nil
}

// Search returns the topK chunks by cosine similarity, restricted to the
// filter if one is given.
func (s *MemoryStore) Search(ctx context.Context, query string, topK int, filter *llm.SearchFilter) ([]llm.RetrievedChunk, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 3
	}

	queryVector, err := s.embeddingSvc.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to generate query embedding: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		idx   int
		score float64
	}
	var candidates []scored
	for i, c := range s.chunks {
		if !matchesFilter(c, filter) {
			continue
		}
		candidates = append(candidates, scored{idx: i, score: cosineSimilarity(queryVector, s.vectors[i])})
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })
	if topK < len(candidates) {
		candidates = candidates[:topK]
	}

	hits := make([]llm.RetrievedChunk, 0, len(candidates))
	for _, cand := range candidates {
		c := s.chunks[cand.idx]
		lesson, sublesson := c.Lesson, c.Sublesson
		hits = append(hits, llm.RetrievedChunk{
			Text:      c.Text,
			Lesson:    &lesson,
			Sublesson: &sublesson,
			Topic:     c.Topic,
			ChunkID:   c.ChunkID,
		})
	}
	return hits, nil
}

// Count returns the number of stored chunks, or ErrIndexMissing before the
// first AddBatch (mirroring a named index that was never created).
func (s *MemoryStore) Count(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.created {
		return 0, ErrIndexMissing
	}
	return int64(len(s.chunks)), nil
}

// Drop discards all stored chunks.
func (s *MemoryStore) Drop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.created {
		return ErrIndexMissing
	}
	s.created = false
	s.chunks = nil
	s.vectors = nil
	return nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}

// matchesFilter applies exact-match metadata filtering.
func matchesFilter(c llm.Chunk, filter *llm.SearchFilter) bool {
	if filter == nil {
		return true
	}
	if c.Lesson != filter.Lesson {
		return false
	}
	if filter.HasSublesson() && c.Sublesson != filter.Sublesson {
		return false
	}
	return true
}

// cosineSimilarity returns the cosine of the angle between two vectors.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
