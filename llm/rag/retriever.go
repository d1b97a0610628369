package rag

import (
	"context"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/vector"
)

// DefaultTopK is the number of passages retrieved per turn.
const DefaultTopK = 3

// Retriever executes filtered similarity searches against the vector index.
type Retriever struct {
	store vector.VectorStore
}

// NewRetriever creates a retriever over the given store.
func NewRetriever(store vector.VectorStore) *Retriever {
	return &Retriever{store: store}
}

// Retrieve resolves the effective filter from the query text and sidebar
// selections, then returns up to topK passages ranked by similarity. An empty
// result is valid and surfaced as empty context downstream; there is no retry
// or fallback.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, topK int, lessonSel, sublessonSel Selection) ([]llm.RetrievedChunk, error) {
	if topK <= 0 {
		topK = DefaultTopK
	}
	filter := ResolveFilter(queryText, lessonSel, sublessonSel)
	return r.store.Search(ctx, queryText, topK, filter)
}
