package rag

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/vector"
)

// fakeStore implements vector.VectorStore without embeddings for guard tests.
type fakeStore struct {
	chunks     []llm.Chunk
	created    bool
	addCalls   int
	dropCalls  int
	searchHits []llm.RetrievedChunk
	lastQuery  string
	lastTopK   int
	lastFilter *llm.SearchFilter
}

func (f *fakeStore) AddBatch(ctx context.Context, chunks []llm.Chunk) error {
	f.addCalls++
	f.created = true
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeStore) Search(ctx context.Context, query string, topK int, filter *llm.SearchFilter) ([]llm.RetrievedChunk, error) {
	f.lastQuery = query
	f.lastTopK = topK
	f.lastFilter = filter
	return f.searchHits, nil
}

func (f *fakeStore) Count(ctx context.Context) (int64, error) {
	if !f.created {
		return 0, vector.ErrIndexMissing
	}
	return int64(len(f.chunks)), nil
}

func (f *fakeStore) Drop(ctx context.Context) error {
	f.dropCalls++
	if !f.created {
		return vector.ErrIndexMissing
	}
	f.created = false
	f.chunks = nil
	return nil
}

func (f *fakeStore) Close() error { return nil }

const corpusJSON = `[
	{"text": "The te-form connects verbs.", "lesson": 3, "sublesson": 2, "topic": "te-form", "chunk_id": "c1"},
	{"text": "Particles mark grammatical roles.", "lesson": 1, "sublesson": 1, "topic": "particles", "chunk_id": "c2"}
]`

func writeCorpus(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "corpus.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEnsureIngestedLoadsOnce(t *testing.T) {
	store := &fakeStore{}
	in := NewIngestor(store, writeCorpus(t, corpusJSON))
	ctx := context.Background()

	if err := in.EnsureIngested(ctx, false); err != nil {
		t.Fatalf("first EnsureIngested: %v", err)
	}
	if store.addCalls != 1 {
		t.Fatalf("expected 1 bulk load, got %d", store.addCalls)
	}
	countBefore, _ := store.Count(ctx)

	if err := in.EnsureIngested(ctx, false); err != nil {
		t.Fatalf("second EnsureIngested: %v", err)
	}
	if store.addCalls != 1 {
		t.Errorf("second call must be a no-op, got %d bulk loads", store.addCalls)
	}
	countAfter, _ := store.Count(ctx)
	if countBefore != countAfter {
		t.Errorf("count changed across idempotent calls: %d -> %d", countBefore, countAfter)
	}
}

func TestEnsureIngestedSkipsPopulatedIndex(t *testing.T) {
	store := &fakeStore{created: true, chunks: []llm.Chunk{{Text: "x", Lesson: 1, Sublesson: 1, ChunkID: "c"}}}
	in := NewIngestor(store, writeCorpus(t, corpusJSON))

	if err := in.EnsureIngested(context.Background(), false); err != nil {
		t.Fatalf("EnsureIngested: %v", err)
	}
	if store.addCalls != 0 {
		t.Errorf("populated index must not be re-ingested, got %d bulk loads", store.addCalls)
	}
}

func TestEnsureIngestedForceReset(t *testing.T) {
	store := &fakeStore{}
	in := NewIngestor(store, writeCorpus(t, corpusJSON))
	ctx := context.Background()

	if err := in.EnsureIngested(ctx, false); err != nil {
		t.Fatal(err)
	}
	if err := in.EnsureIngested(ctx, true); err != nil {
		t.Fatal(err)
	}
	if store.dropCalls != 1 {
		t.Errorf("expected 1 drop, got %d", store.dropCalls)
	}
	if store.addCalls != 2 {
		t.Errorf("force reset must re-ingest, got %d bulk loads", store.addCalls)
	}
	count, err := store.Count(ctx)
	if err != nil || count != 2 {
		t.Errorf("expected 2 chunks after rebuild, got %d (err %v)", count, err)
	}
}

func TestEnsureIngestedMissingIndexDropIsNoOp(t *testing.T) {
	store := &fakeStore{}
	in := NewIngestor(store, writeCorpus(t, corpusJSON))

	// Nothing to drop yet; the forced reset must still ingest.
	if err := in.EnsureIngested(context.Background(), true); err != nil {
		t.Fatalf("EnsureIngested with force on empty index: %v", err)
	}
	if store.addCalls != 1 {
		t.Errorf("expected ingestion after no-op drop, got %d bulk loads", store.addCalls)
	}
}

func TestEnsureIngestedCorpusErrors(t *testing.T) {
	tests := []struct {
		name   string
		corpus string
	}{
		{"malformed JSON", `{"not": "an array"`},
		{"empty corpus", `[]`},
		{"missing text", `[{"lesson": 1, "sublesson": 1, "topic": "t", "chunk_id": "c1"}]`},
		{"missing chunk_id", `[{"text": "x", "lesson": 1, "sublesson": 1, "topic": "t"}]`},
		{"missing lesson", `[{"text": "x", "sublesson": 1, "topic": "t", "chunk_id": "c1"}]`},
		{"missing sublesson", `[{"text": "x", "lesson": 1, "topic": "t", "chunk_id": "c1"}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeStore{}
			in := NewIngestor(store, writeCorpus(t, tt.corpus))
			if err := in.EnsureIngested(context.Background(), false); err == nil {
				t.Fatal("expected ingestion error")
			}
			if store.addCalls != 0 {
				t.Errorf("no bulk load expected on corpus error, got %d", store.addCalls)
			}
		})
	}
}

func TestEnsureIngestedMissingFile(t *testing.T) {
	store := &fakeStore{}
	in := NewIngestor(store, filepath.Join(t.TempDir(), "nope.json"))
	if err := in.EnsureIngested(context.Background(), false); err == nil {
		t.Fatal("expected error for missing corpus file")
	}
}
