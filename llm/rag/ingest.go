package rag

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/vector"

	"github.com/sirupsen/logrus"
)

// Ingestor performs the one-time load of the corpus into the vector index.
// Ingestion embeds the whole corpus, so repeated triggers within one process
// are guarded by a cached "already attempted" flag; a forced reset clears it.
type Ingestor struct {
	store      vector.VectorStore
	corpusPath string

	mu        sync.Mutex
	attempted bool
}

// NewIngestor creates an ingestor for the given store and corpus file.
func NewIngestor(store vector.VectorStore, corpusPath string) *Ingestor {
	return &Ingestor{
		store:      store,
		corpusPath: corpusPath,
	}
}

// EnsureIngested makes sure the index holds the corpus. With forceReset it
// first drops the existing index (a missing index is a logged no-op). If the
// index is empty or missing, the corpus is read and bulk-loaded; otherwise
// the call is a no-op. Safe to call on every process start.
func (in *Ingestor) EnsureIngested(ctx context.Context, forceReset bool) error {
	in.mu.Lock()
	defer in.mu.Unlock()

	if forceReset {
		in.attempted = false
		if err := in.store.Drop(ctx); err != nil {
			if errors.Is(err, vector.ErrIndexMissing) {
				logrus.Info("force reset: index not found, nothing to clear")
			} else {
				// A failed drop should not block the re-initialization attempt.
				logrus.WithError(err).Warn("force reset: failed to drop index")
			}
		} else {
			logrus.Info("force reset: cleared vector index")
		}
	}

	if in.attempted {
		return nil
	}
	in.attempted = true

	count, err := in.store.Count(ctx)
	if err != nil && !errors.Is(err, vector.ErrIndexMissing) {
		// Count not retrievable: treated the same as an empty index.
		logrus.WithError(err).Warn("could not read index count, assuming empty")
		count = 0
	}
	if count > 0 {
		logrus.WithField("count", count).Info("vector index already populated, skipping ingestion")
		return nil
	}

	chunks, err := loadCorpus(in.corpusPath)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	if err := in.store.AddBatch(ctx, chunks); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	logrus.WithField("chunks", len(chunks)).Info("corpus ingested into vector index")
	return nil
}

// loadCorpus reads the corpus JSON: an array of chunks, each carrying all
// four metadata fields. Any missing required field is fatal to ingestion.
func loadCorpus(path string) ([]llm.Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading corpus file: %w", err)
	}

	var chunks []llm.Chunk
	if err := json.Unmarshal(data, &chunks); err != nil {
		return nil, fmt.Errorf("parsing corpus file %s: %w", path, err)
	}
	if len(chunks) == 0 {
		return nil, fmt.Errorf("corpus file %s contains no chunks", path)
	}

	for i, c := range chunks {
		if c.Text == "" {
			return nil, fmt.Errorf("chunk %d: missing text", i)
		}
		if c.ChunkID == "" {
			return nil, fmt.Errorf("chunk %d: missing chunk_id", i)
		}
		if c.Lesson < 1 {
			return nil, fmt.Errorf("chunk %d (%s): missing lesson", i, c.ChunkID)
		}
		if c.Sublesson < 1 {
			return nil, fmt.Errorf("chunk %d (%s): missing sublesson", i, c.ChunkID)
		}
	}
	return chunks, nil
}
