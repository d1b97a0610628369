package component

import (
	"fmt"
	"strings"

	"jlpt-tutor/llm"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// MessageRenderer turns the conversation into viewport content: markdown for
// answers, role labels, and per-answer source citations.
type MessageRenderer struct {
	markdown    *glamour.TermRenderer
	width       int
	showSources bool

	userLabel      lipgloss.Style
	assistantLabel lipgloss.Style
	systemStyle    lipgloss.Style
	sourceStyle    lipgloss.Style
	snippetStyle   lipgloss.Style
}

// NewMessageRenderer creates a renderer with the default styles.
func NewMessageRenderer() *MessageRenderer {
	markdown, _ := glamour.NewTermRenderer(
		glamour.WithStylePath("dracula"),
		glamour.WithWordWrap(0),
	)
	return &MessageRenderer{
		markdown:       markdown,
		userLabel:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistantLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		systemStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("178")),
		sourceStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
		snippetStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("250")).PaddingLeft(4),
	}
}

// SetViewportWidth sets the wrap width.
func (r *MessageRenderer) SetViewportWidth(width int) {
	r.width = width
}

// ToggleSources flips whether source snippets are expanded.
func (r *MessageRenderer) ToggleSources() {
	r.showSources = !r.showSources
}

// RenderMessages renders the committed conversation plus, if non-nil, the
// answer currently being streamed.
func (r *MessageRenderer) RenderMessages(messages []llm.Message, streaming *llm.Message) string {
	var b strings.Builder
	for _, msg := range messages {
		b.WriteString(r.renderMessage(msg))
	}
	if streaming != nil {
		b.WriteString(r.assistantLabel.Render("Tutor"))
		b.WriteString("\n")
		b.WriteString(r.renderMarkdown(streaming.Content))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *MessageRenderer) renderMessage(msg llm.Message) string {
	var b strings.Builder
	switch msg.Role {
	case llm.RoleUser:
		b.WriteString(r.userLabel.Render("You"))
		b.WriteString("\n")
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	case llm.RoleAssistant:
		b.WriteString(r.assistantLabel.Render("Tutor"))
		b.WriteString("\n")
		b.WriteString(r.renderMarkdown(msg.Content))
		b.WriteString("\n")
		b.WriteString(r.renderSources(msg.Sources))
	case llm.RoleSystem:
		b.WriteString(r.systemStyle.Render(msg.Content))
		b.WriteString("\n\n")
	}
	return b.String()
}

// renderSources shows the citation list under a committed answer; snippets
// only when expanded.
func (r *MessageRenderer) renderSources(sources []llm.SourceEntry) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.sourceStyle.Render(fmt.Sprintf("📚 Sources (%d)", len(sources))))
	b.WriteString("\n")
	for i, s := range sources {
		b.WriteString(r.sourceStyle.Render(fmt.Sprintf("  %d. %s — %s", i+1, formatOrigin(s), s.Topic)))
		b.WriteString("\n")
		if r.showSources && s.Snippet != "" {
			b.WriteString(r.snippetStyle.Width(r.width - 4).Render(s.Snippet))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

// formatOrigin renders the lesson/sublesson pair, tolerating absent fields.
func formatOrigin(s llm.SourceEntry) string {
	lesson := "?"
	if s.Lesson != nil {
		lesson = fmt.Sprintf("%d", *s.Lesson)
	}
	sublesson := "?"
	if s.Sublesson != nil {
		sublesson = fmt.Sprintf("%d", *s.Sublesson)
	}
	return fmt.Sprintf("Lesson %s Sub %s", lesson, sublesson)
}

func (r *MessageRenderer) renderMarkdown(content string) string {
	if r.markdown == nil {
		return content
	}
	out, err := r.markdown.Render(content)
	if err != nil {
		return content
	}
	return out
}
