// Package chat assembles the bubbletea program: transcript, input box,
// status line and the filter sidebar.
package chat

import (
	"context"

	"jlpt-tutor/llm"
	"jlpt-tutor/llm/tutor"
	"jlpt-tutor/pubsub"
	"jlpt-tutor/tui/component"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sidebarWidth = 34

// Model is the root UI model.
type Model struct {
	list    component.ListModel
	edit    component.EditModel
	status  component.StatusModel
	sidebar component.SidebarModel

	runtime *tutor.Runtime
	sub     <-chan pubsub.Event[llm.Message]
	ctx     context.Context

	// busy is set while a turn or rebuild is in flight; input that would
	// start another one is ignored until the terminal event arrives.
	busy bool

	width  int
	height int
}

// InitialModel wires the UI to a session runtime.
func InitialModel(runtime *tutor.Runtime, modelName string) Model {
	ctx := context.Background()

	return Model{
		list:    component.NewListModel(),
		edit:    component.NewEditModel(),
		status:  component.NewStatusModel(),
		sidebar: component.NewSidebarModel(modelName),
		runtime: runtime,
		sub:     runtime.Broker().Subscribe(ctx),
		ctx:     ctx,
	}
}

// Init starts the subcomponents and the event subscription.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.list.Init(),
		m.edit.Init(),
		m.status.Init(),
		m.waitForTurnEvent(),
	)
}

// waitForTurnEvent blocks on the broker subscription and feeds the next
// event into the update loop.
func (m Model) waitForTurnEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.sub
	}
}

// Update routes events to the subcomponents.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := m.width - sidebarWidth
		if chatWidth < 20 {
			chatWidth = m.width
		}

		statusHeight := lipgloss.Height(m.status.View())
		editHeight := m.edit.Height()
		m.list.SetSize(chatWidth, m.height-statusHeight-editHeight)
		m.edit.SetWidth(chatWidth)
		m.status.SetWidth(chatWidth)
		m.sidebar.SetWidth(sidebarWidth - 2)

	case component.EditorSubmitMsg:
		// One turn at a time; selections are captured at submit time.
		if m.busy {
			return m, nil
		}
		m.busy = true
		lessonSel := m.sidebar.Lesson()
		sublessonSel := m.sidebar.Sublesson()
		go func() {
			_ = m.runtime.Run(msg.Value, lessonSel, sublessonSel)
		}()

	case pubsub.Event[llm.Message]:
		switch msg.Type {
		case pubsub.CommittedEvent, pubsub.ErrorEvent, pubsub.ResetEvent:
			m.busy = false
		}
		cmds = append(cmds, m.waitForTurnEvent())

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			if m.edit.Focused() {
				m.edit.Blur()
				m.sidebar.Focus()
			} else {
				m.sidebar.Blur()
				cmds = append(cmds, m.edit.Focus())
			}
		case "ctrl+s":
			m.list.ToggleSources()
		case "ctrl+r":
			if m.busy {
				return m, nil
			}
			m.busy = true
			go func() {
				_ = m.runtime.Rebuild()
			}()
		}
	}

	var cmd tea.Cmd

	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)

	m.edit, cmd = m.edit.Update(msg)
	cmds = append(cmds, cmd)

	m.status, cmd = m.status.Update(msg)
	cmds = append(cmds, cmd)

	m.sidebar, cmd = m.sidebar.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the chat column next to the sidebar.
func (m Model) View() string {
	chatColumn := lipgloss.JoinVertical(
		lipgloss.Left,
		m.list.View(),
		m.status.View(),
		m.edit.View(),
	)
	if m.width < sidebarWidth+20 {
		return chatColumn
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, chatColumn, m.sidebar.View())
}
