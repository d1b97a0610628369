package component

import (
	"fmt"
	"strconv"
	"strings"

	"jlpt-tutor/llm/rag"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	maxLesson    = 12
	maxSublesson = 8
)

// Textbooks offered by the sidebar selector. The selector is display-only
// for now: the corpus carries no textbook metadata yet.
var textbooks = []string{"Genki 1", "Genki 2", "Tobira"}

type sidebarRow int

const (
	rowLesson sidebarRow = iota
	rowSublesson
	rowTextbook
)

// SidebarModel holds the filter selectors and the model/DB controls. Value 0
// on the lesson/sublesson rows is the "Auto" state (no override).
type SidebarModel struct {
	focused   bool
	row       sidebarRow
	lesson    int
	sublesson int
	textbook  int
	width     int
	modelName string
}

// NewSidebarModel creates the sidebar, everything on Auto.
func NewSidebarModel(modelName string) SidebarModel {
	return SidebarModel{modelName: modelName}
}

// Lesson returns the lesson selector as a tagged selection.
func (m SidebarModel) Lesson() rag.Selection {
	if m.lesson == 0 {
		return rag.Auto()
	}
	return rag.Explicit(m.lesson)
}

// Sublesson returns the sublesson selector as a tagged selection.
func (m SidebarModel) Sublesson() rag.Selection {
	if m.sublesson == 0 {
		return rag.Auto()
	}
	return rag.Explicit(m.sublesson)
}

// Init initializes the component.
func (m SidebarModel) Init() tea.Cmd {
	return nil
}

// Update handles row navigation and value cycling while the sidebar has
// focus.
func (m SidebarModel) Update(msg tea.Msg) (SidebarModel, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "up", "k":
			if m.row > rowLesson {
				m.row--
			}
		case "down", "j":
			if m.row < rowTextbook {
				m.row++
			}
		case "left", "h":
			m.cycle(-1)
		case "right", "l":
			m.cycle(1)
		}
	}
	return m, nil
}

// cycle advances the focused row's value, wrapping through Auto.
func (m *SidebarModel) cycle(delta int) {
	switch m.row {
	case rowLesson:
		m.lesson = wrap(m.lesson+delta, maxLesson)
	case rowSublesson:
		m.sublesson = wrap(m.sublesson+delta, maxSublesson)
	case rowTextbook:
		m.textbook = (m.textbook + delta + len(textbooks)) % len(textbooks)
	}
}

// wrap keeps v in 0..max, where 0 is Auto.
func wrap(v, max int) int {
	span := max + 1
	return ((v % span) + span) % span
}

// Focus gives the sidebar key focus.
func (m *SidebarModel) Focus() {
	m.focused = true
}

// Blur removes key focus.
func (m *SidebarModel) Blur() {
	m.focused = false
}

// Focused reports whether the sidebar has key focus.
func (m SidebarModel) Focused() bool {
	return m.focused
}

// SetWidth sets the component width.
func (m *SidebarModel) SetWidth(width int) {
	m.width = width
}

var (
	sidebarStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	sidebarTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	sidebarDimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	sidebarRowStyle   = lipgloss.NewStyle()
	sidebarCurStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
)

// View renders the sidebar.
func (m SidebarModel) View() string {
	var b strings.Builder

	b.WriteString(sidebarTitleStyle.Render("Settings"))
	b.WriteString("\n")
	b.WriteString(sidebarDimStyle.Render("Model: " + m.modelName))
	b.WriteString("\n\n")
	b.WriteString(sidebarTitleStyle.Render("Filters"))
	b.WriteString("\n")

	b.WriteString(m.renderRow(rowLesson, "Lesson", autoOr(m.lesson)))
	b.WriteString(m.renderRow(rowSublesson, "Sublesson", autoOr(m.sublesson)))
	b.WriteString(m.renderRow(rowTextbook, "Textbook", textbooks[m.textbook]))

	b.WriteString(sidebarDimStyle.Render("Textbook filter is display-only."))
	b.WriteString("\n\n")
	b.WriteString(sidebarTitleStyle.Render("About"))
	b.WriteString("\n")
	b.WriteString(sidebarDimStyle.Render("Questions are matched against\nembedded Genki passages; the\nanswer cites its sources."))
	b.WriteString("\n\n")
	b.WriteString(sidebarDimStyle.Render("tab: focus  ctrl+r: rebuild\nctrl+s: sources  esc: quit"))

	return sidebarStyle.Width(m.width).Render(b.String())
}

func (m SidebarModel) renderRow(row sidebarRow, label, value string) string {
	line := fmt.Sprintf("%-9s < %s >", label, value)
	if m.focused && m.row == row {
		return sidebarCurStyle.Render("» "+line) + "\n"
	}
	return sidebarRowStyle.Render("  "+line) + "\n"
}

func autoOr(v int) string {
	if v == 0 {
		return "Auto"
	}
	return strconv.Itoa(v)
}
