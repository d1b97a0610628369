// Package tutor runs the conversation: it keeps the history, assembles the
// working prompt for each turn and streams the generated answer to the UI.
package tutor

import (
	"context"
	"sync"

	"jlpt-tutor/llm"
)

// ConversationStore is the persistent (per-session) conversation history.
// The history is append-only and always begins with the system message.
type ConversationStore interface {
	// Add appends a message to the history.
	Add(ctx context.Context, msg llm.Message) error
	// List returns the full history in chronological order.
	List(ctx context.Context) ([]llm.Message, error)
	// Clear resets the history to just the seed system message.
	Clear(ctx context.Context) error
}

// MemoryStore is the in-memory ConversationStore, seeded with one fixed
// system message.
type MemoryStore struct {
	mu           sync.RWMutex
	systemPrompt string
	msgs         []llm.Message
}

// NewMemoryStore creates a store seeded with the given system prompt.
func NewMemoryStore(systemPrompt string) *MemoryStore {
	return &MemoryStore{
		systemPrompt: systemPrompt,
		msgs:         []llm.Message{{Role: llm.RoleSystem, Content: systemPrompt}},
	}
}

// Add appends a message.
func (s *MemoryStore) Add(ctx context.Context, msg llm.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = append(s.msgs, msg)
	return nil
}

// List returns a copy of the history so callers cannot mutate stored state.
func (s *MemoryStore) List(ctx context.Context) ([]llm.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]llm.Message, len(s.msgs))
	copy(result, s.msgs)
	return result, nil
}

// Clear resets the history to the seed system message.
func (s *MemoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.msgs = []llm.Message{{Role: llm.RoleSystem, Content: s.systemPrompt}}
	return nil
}
