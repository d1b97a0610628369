package tutor

import (
	"fmt"
	"strings"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/rag"

	"github.com/cloudwego/eino/schema"
)

// SystemPrompt seeds every conversation; it defines the tutor persona.
const SystemPrompt = "You are a helpful tutor assisting with Japanese grammar based on Genki textbook material. " +
	"Be clear, structured, and educational. Use bullet points and short examples with kana/kanji + romaji."

// buildContext concatenates the retrieved passages' raw text in rank order,
// separated by a blank line.
func buildContext(retrieved []llm.RetrievedChunk) string {
	parts := make([]string, 0, len(retrieved))
	for _, hit := range retrieved {
		parts = append(parts, hit.Text)
	}
	return strings.Join(parts, "\n\n")
}

// hintSuffix renders the explicit sidebar selections as a human-readable
// suffix for the question line, e.g. " (lesson 3, sublesson 2)". Empty when
// nothing is selected.
func hintSuffix(lessonSel, sublessonSel rag.Selection) string {
	var parts []string
	if n, ok := lessonSel.Get(); ok {
		parts = append(parts, fmt.Sprintf("lesson %d", n))
	}
	if n, ok := sublessonSel.Get(); ok {
		parts = append(parts, fmt.Sprintf("sublesson %d", n))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, ", "))
}

// AssemblePrompt builds the working prompt for one generation call: the full
// history followed by one augmented user message interleaving the retrieved
// context with the question. The returned slice is new; history is never
// mutated. The raw user text is committed to the persistent history by the
// caller before this step.
func AssemblePrompt(history []llm.Message, retrieved []llm.RetrievedChunk, userText string, lessonSel, sublessonSel rag.Selection) []*schema.Message {
	working := make([]*schema.Message, 0, len(history)+1)
	for _, msg := range history {
		working = append(working, &schema.Message{
			Role:    schema.RoleType(msg.Role),
			Content: msg.Content,
		})
	}

	working = append(working, &schema.Message{
		Role: schema.User,
		Content: fmt.Sprintf("Context:\n%s\n\nQuestion%s: %s",
			buildContext(retrieved), hintSuffix(lessonSel, sublessonSel), userText),
	})
	return working
}
