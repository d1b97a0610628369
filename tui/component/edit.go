package component

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EditorSubmitMsg is emitted when the user submits a question.
type EditorSubmitMsg struct {
	Value string
}

// EditModel wraps the question input box.
type EditModel struct {
	textarea textarea.Model
	width    int
}

// NewEditModel creates the input component.
func NewEditModel() EditModel {
	ta := textarea.New()
	ta.Placeholder = "Ask about grammar, vocab, or a lesson… (e.g. 'lesson 3 sublesson 2 te-form')"
	ta.Focus()

	ta.Prompt = "> "
	ta.CharLimit = 500

	ta.SetWidth(30)
	ta.SetHeight(1)

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.ShowLineNumbers = false

	// Enter submits; no multi-line questions.
	ta.KeyMap.InsertNewline.SetEnabled(false)

	return EditModel{
		textarea: ta,
		width:    30,
	}
}

// Init initializes the component.
func (m EditModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles input events.
func (m EditModel) Update(msg tea.Msg) (EditModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyEnter && m.textarea.Focused() {
			value := m.textarea.Value()
			if value != "" {
				m.textarea.Reset()
				return m, func() tea.Msg {
					return EditorSubmitMsg{Value: value}
				}
			}
			return m, nil
		}
	}

	m.textarea, cmd = m.textarea.Update(msg)
	return m, cmd
}

// View renders the component.
func (m *EditModel) View() string {
	return m.textarea.View()
}

// SetWidth sets the component width.
func (m *EditModel) SetWidth(width int) {
	m.width = width
	m.textarea.SetWidth(width)
}

// Focus focuses the input box.
func (m *EditModel) Focus() tea.Cmd {
	return m.textarea.Focus()
}

// Blur removes focus from the input box.
func (m *EditModel) Blur() {
	m.textarea.Blur()
}

// Focused reports whether the input box has focus.
func (m *EditModel) Focused() bool {
	return m.textarea.Focused()
}

// Height returns the component height.
func (m *EditModel) Height() int {
	return m.textarea.Height()
}
