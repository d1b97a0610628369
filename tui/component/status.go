package component

import (
	"fmt"

	"jlpt-tutor/llm"
	"jlpt-tutor/pubsub"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StatusModel shows a spinner plus status text while a turn is in flight.
type StatusModel struct {
	spinner spinner.Model
	running bool
	text    string
	width   int
}

// NewStatusModel creates the status component.
func NewStatusModel() StatusModel {
	s := spinner.New()
	s.Spinner = spinner.Jump
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return StatusModel{
		spinner: s,
		running: false,
		text:    "Ready",
	}
}

// Init initializes the component.
func (m StatusModel) Init() tea.Cmd {
	return nil
}

// Update reacts to turn events: retrieval starts on the user message, the
// first stream token switches the label, commit or error stops the spinner.
func (m StatusModel) Update(msg tea.Msg) (StatusModel, tea.Cmd) {
	switch msg := msg.(type) {
	case pubsub.Event[llm.Message]:
		switch msg.Type {
		case pubsub.CreatedEvent:
			if !m.running {
				m.running = true
				m.text = "Searching Genki notes…"
				return m, m.spinner.Tick
			}
		case pubsub.StreamEvent:
			m.text = "Generating…"
		case pubsub.CommittedEvent, pubsub.ErrorEvent, pubsub.ResetEvent:
			m.running = false
			m.text = "Ready"
			return m, nil
		}
	}

	if m.running {
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the component.
func (m StatusModel) View() string {
	style := lipgloss.NewStyle().Padding(1, 0)
	content := m.text
	if m.running {
		content = fmt.Sprintf("%s %s", m.spinner.View(), m.text)
	}
	return style.Render(content)
}

// SetWidth sets the component width.
func (m *StatusModel) SetWidth(width int) {
	m.width = width
}
