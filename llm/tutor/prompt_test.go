package tutor

import (
	"strings"
	"testing"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/rag"

	"github.com/cloudwego/eino/schema"
)

func TestAssemblePromptEndToEnd(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: "lesson 3 sublesson 2 te-form"},
	}
	retrieved := []llm.RetrievedChunk{
		{Text: "The te-form connects verbs."},
	}

	working := AssemblePrompt(history, retrieved, "lesson 3 sublesson 2 te-form", rag.Auto(), rag.Auto())

	if len(working) != len(history)+1 {
		t.Fatalf("expected %d messages, got %d", len(history)+1, len(working))
	}

	last := working[len(working)-1]
	if last.Role != schema.User {
		t.Errorf("working message role = %s, want user", last.Role)
	}
	want := "Context:\nThe te-form connects verbs.\n\nQuestion: lesson 3 sublesson 2 te-form"
	if !strings.Contains(last.Content, want) {
		t.Errorf("working message missing expected substring:\n%s", last.Content)
	}
}

func TestAssemblePromptDoesNotMutateHistory(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: SystemPrompt},
		{Role: llm.RoleUser, Content: "question"},
	}

	_ = AssemblePrompt(history, nil, "question", rag.Auto(), rag.Auto())

	if len(history) != 2 {
		t.Fatalf("history length changed: %d", len(history))
	}
	if history[1].Content != "question" {
		t.Error("history content changed")
	}
}

func TestAssemblePromptHintSuffix(t *testing.T) {
	retrieved := []llm.RetrievedChunk{{Text: "passage"}}

	working := AssemblePrompt(nil, retrieved, "explain this", rag.Explicit(3), rag.Explicit(2))
	got := working[len(working)-1].Content
	if !strings.Contains(got, "Question (lesson 3, sublesson 2): explain this") {
		t.Errorf("missing hint suffix:\n%s", got)
	}

	working = AssemblePrompt(nil, retrieved, "explain this", rag.Explicit(3), rag.Auto())
	got = working[len(working)-1].Content
	if !strings.Contains(got, "Question (lesson 3): explain this") {
		t.Errorf("missing lesson-only hint:\n%s", got)
	}
}

func TestAssemblePromptJoinsPassagesWithBlankLine(t *testing.T) {
	retrieved := []llm.RetrievedChunk{
		{Text: "first passage"},
		{Text: "second passage"},
	}
	working := AssemblePrompt(nil, retrieved, "q", rag.Auto(), rag.Auto())
	got := working[0].Content
	if !strings.Contains(got, "first passage\n\nsecond passage") {
		t.Errorf("passages not joined by blank line:\n%s", got)
	}
}

func TestAssemblePromptPreservesRoles(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleSystem, Content: "sys"},
		{Role: llm.RoleUser, Content: "u"},
		{Role: llm.RoleAssistant, Content: "a"},
	}
	working := AssemblePrompt(history, nil, "next", rag.Auto(), rag.Auto())

	wantRoles := []schema.RoleType{schema.System, schema.User, schema.Assistant, schema.User}
	for i, want := range wantRoles {
		if working[i].Role != want {
			t.Errorf("message %d role = %s, want %s", i, working[i].Role, want)
		}
	}
}
