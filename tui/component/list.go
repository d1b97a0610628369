package component

import (
	"jlpt-tutor/llm"
	"jlpt-tutor/pubsub"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

const welcomeText = `Welcome to the JLPT RAG Tutor. Ask a question and press Enter.`

// ListModel holds the transcript: committed messages plus the answer
// currently streaming. Rendering is delegated to MessageRenderer.
type ListModel struct {
	viewport  viewport.Model
	messages  []llm.Message
	streaming *llm.Message
	width     int
	height    int
	ready     bool

	renderer *MessageRenderer
}

// NewListModel creates the transcript component.
func NewListModel() ListModel {
	vp := viewport.New(30, 30)
	vp.SetContent(welcomeText)

	return ListModel{
		viewport: vp,
		messages: make([]llm.Message, 0),
		renderer: NewMessageRenderer(),
		width:    30,
		height:   5,
		ready:    true,
	}
}

// Init initializes the component.
func (m ListModel) Init() tea.Cmd {
	return nil
}

// Update appends committed messages and tracks the streaming answer.
func (m ListModel) Update(msg tea.Msg) (ListModel, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			m.viewport.ScrollUp(3)
		case tea.MouseButtonWheelDown:
			m.viewport.ScrollDown(3)
		}
	case pubsub.Event[llm.Message]:
		switch msg.Type {
		case pubsub.CreatedEvent:
			m.messages = append(m.messages, msg.Payload)
		case pubsub.StreamEvent:
			// Payload content is the running accumulation; replace, not append.
			payload := msg.Payload
			m.streaming = &payload
		case pubsub.CommittedEvent:
			m.streaming = nil
			m.messages = append(m.messages, msg.Payload)
		case pubsub.ErrorEvent, pubsub.ResetEvent:
			m.streaming = nil
			m.messages = append(m.messages, msg.Payload)
		}
		m.updateViewportContent()
		m.viewport.GotoBottom()
		return m, nil
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// ToggleSources flips snippet expansion and re-renders.
func (m *ListModel) ToggleSources() {
	m.renderer.ToggleSources()
	m.updateViewportContent()
}

// View renders the component.
func (m ListModel) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.viewport.View()
}

// SetSize sets the component dimensions.
func (m *ListModel) SetSize(width, height int) {
	m.width = width
	m.height = height

	if height < 1 {
		height = 1
	}

	m.viewport.Width = width
	m.viewport.Height = height
	m.ready = true

	m.renderer.SetViewportWidth(width)

	if len(m.messages) > 0 || m.streaming != nil {
		m.updateViewportContent()
	}
	m.viewport.GotoBottom()
}

func (m *ListModel) updateViewportContent() {
	m.viewport.SetContent(m.renderer.RenderMessages(m.messages, m.streaming))
}
