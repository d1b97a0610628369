package vector

import (
	"context"
	"errors"
	"testing"
)

func TestEmbedSingle(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{vecs: map[string][]float64{
		"hello": {0.5, -0.25, 1},
	}}, 3)

	vec, err := svc.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatal(err)
	}
	if len(vec) != 3 || vec[0] != 0.5 || vec[1] != -0.25 || vec[2] != 1 {
		t.Errorf("unexpected vector: %v", vec)
	}
}

func TestEmbedRejectsEmptyText(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{}, 3)
	if _, err := svc.Embed(context.Background(), ""); err == nil {
		t.Error("expected error for empty text")
	}
}

func TestEmbedPropagatesModelError(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{err: errors.New("model offline")}, 3)
	if _, err := svc.Embed(context.Background(), "hello"); err == nil {
		t.Error("expected model error to propagate")
	}
}

func TestEmbedBatchOrderAndLength(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{vecs: map[string][]float64{
		"a": {1, 0},
		"b": {0, 1},
	}}, 2)

	vecs, err := svc.EmbedBatch(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 2 {
		t.Fatalf("expected 2 vectors, got %d", len(vecs))
	}
	if vecs[0][0] != 1 || vecs[1][1] != 1 {
		t.Errorf("batch order not preserved: %v", vecs)
	}
}

func TestEmbedBatchRejectsEmptyInput(t *testing.T) {
	svc := NewEmbeddingService(&stubEmbedder{}, 3)

	if _, err := svc.EmbedBatch(context.Background(), nil); err == nil {
		t.Error("expected error for empty batch")
	}
	if _, err := svc.EmbedBatch(context.Background(), []string{"ok", ""}); err == nil {
		t.Error("expected error for blank text in batch")
	}
}

func TestDimensionDefault(t *testing.T) {
	if got := NewEmbeddingService(&stubEmbedder{}, 0).Dimension(); got != 768 {
		t.Errorf("default dimension = %d, want 768", got)
	}
	if got := NewEmbeddingService(&stubEmbedder{}, 384).Dimension(); got != 384 {
		t.Errorf("dimension = %d, want 384", got)
	}
}
