package rag

import (
	"strings"

	"jlpt-tutor/llm"
)

const (
	// SnippetMaxLen caps the length of a source snippet, counted in runes.
	SnippetMaxLen = 750

	truncationMarker = "..."
)

// AttachSources formats retrieved passages into the citation list attached to
// a committed answer. Pure formatting: whitespace is trimmed, newlines
// flattened, the text truncated at SnippetMaxLen with a marker appended if
// cut, and metadata copied through unchanged (absent fields stay absent).
func AttachSources(retrieved []llm.RetrievedChunk) []llm.SourceEntry {
	sources := make([]llm.SourceEntry, 0, len(retrieved))
	for _, hit := range retrieved {
		snippet := strings.ReplaceAll(strings.TrimSpace(hit.Text), "\n", " ")
		if runes := []rune(snippet); len(runes) > SnippetMaxLen {
			snippet = string(runes[:SnippetMaxLen]) + truncationMarker
		}
		sources = append(sources, llm.SourceEntry{
			Lesson:    hit.Lesson,
			Sublesson: hit.Sublesson,
			Topic:     hit.Topic,
			Snippet:   snippet,
		})
	}
	return sources
}
