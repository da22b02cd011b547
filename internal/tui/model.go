// Package tui renders the task list in the terminal and turns key presses
// into actions.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/metalagman/tasklist/internal/tasklist"
)

// Dispatcher applies actions and exposes the resulting state.
type Dispatcher interface {
	Dispatch(ctx context.Context, a tasklist.Action) tasklist.State
	Snapshot() tasklist.State
}

type focus int

const (
	focusDraft focus = iota
	focusList
	focusEdit
	focusConfirm
)

var (
	colorAccent = lipgloss.Color("69")
	colorMuted  = lipgloss.Color("241")
	colorDanger = lipgloss.Color("196")

	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headingStyle   = lipgloss.NewStyle().Bold(true).MarginTop(1)
	cursorStyle    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	completedStyle = lipgloss.NewStyle().Strikethrough(true).Foreground(colorMuted)
	helpStyle      = lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1)
	dangerStyle    = lipgloss.NewStyle().Foreground(colorDanger).Bold(true)
)

// Model is the bubbletea model for the task list.
type Model struct {
	ctx   context.Context
	d     Dispatcher
	state tasklist.State

	draft  textinput.Model
	edit   textinput.Model
	focus  focus
	cursor int
}

// New creates a model bound to d.
func New(ctx context.Context, d Dispatcher) Model {
	draft := textinput.New()
	draft.Placeholder = "Enter new task"
	draft.Prompt = "+ "
	draft.CharLimit = 0

	edit := textinput.New()
	edit.Prompt = ""
	edit.CharLimit = 0

	state := d.Snapshot()
	draft.SetValue(state.DraftTitle)
	draft.Focus()

	return Model{ctx: ctx, d: d, state: state, draft: draft, edit: edit}
}

// Run starts the program and blocks until the user quits.
func Run(ctx context.Context, d Dispatcher) error {
	p := tea.NewProgram(New(ctx, d), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m.updateInput(msg)
	}
	if key.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case focusConfirm:
		if key.String() == "y" || key.String() == "Y" {
			m.dispatch(tasklist.ClearAll{})
			m.cursor = 0
		}
		m.focus = focusList
		return m, nil

	case focusEdit:
		switch key.String() {
		case "enter":
			if m.state.EditingTaskID != nil {
				m.dispatch(tasklist.SaveEdit{ID: *m.state.EditingTaskID})
			}
			return m.leaveEdit(), nil
		case "esc":
			m.dispatch(tasklist.CancelEdit{})
			return m.leaveEdit(), nil
		}
		return m.updateInput(msg)

	case focusDraft:
		switch key.String() {
		case "enter":
			m.dispatch(tasklist.AddTask{})
			m.draft.SetValue(m.state.DraftTitle)
			return m, nil
		case "tab", "esc":
			m.draft.Blur()
			m.focus = focusList
			return m, nil
		}
		return m.updateInput(msg)
	}

	rows := m.rows()
	switch key.String() {
	case "q":
		return m, tea.Quit
	case "tab", "a", "i":
		m.focus = focusDraft
		cmd := m.draft.Focus()
		return m, cmd
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(rows)-1 {
			m.cursor++
		}
	case " ", "space", "x":
		if task, ok := m.selected(); ok {
			m.dispatch(tasklist.ToggleTask{ID: task.ID})
		}
	case "d", "delete":
		if task, ok := m.selected(); ok {
			m.dispatch(tasklist.DeleteTask{ID: task.ID})
		}
	case "e", "enter":
		if task, ok := m.selected(); ok {
			m.dispatch(tasklist.StartEdit{ID: task.ID})
			m.edit.SetValue(m.state.EditingTitle)
			m.edit.CursorEnd()
			m.focus = focusEdit
			cmd := m.edit.Focus()
			return m, cmd
		}
	case "C":
		if len(rows) > 0 {
			m.focus = focusConfirm
		}
	}
	m.clampCursor()
	return m, nil
}

// updateInput forwards msg to the focused text input and dispatches the new
// text when it changed.
func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.focus {
	case focusDraft:
		before := m.draft.Value()
		m.draft, cmd = m.draft.Update(msg)
		if v := m.draft.Value(); v != before {
			m.dispatch(tasklist.ChangeDraftTitle{Text: v})
		}
	case focusEdit:
		before := m.edit.Value()
		m.edit, cmd = m.edit.Update(msg)
		if v := m.edit.Value(); v != before {
			m.dispatch(tasklist.ChangeEditTitle{Text: v})
		}
	}
	return m, cmd
}

func (m *Model) dispatch(a tasklist.Action) {
	m.state = m.d.Dispatch(m.ctx, a)
}

func (m Model) leaveEdit() Model {
	m.edit.Blur()
	m.edit.SetValue("")
	m.focus = focusList
	m.clampCursor()
	return m
}

// rows lists pending tasks followed by completed ones, the order they are drawn.
func (m Model) rows() []tasklist.Task {
	pending, completed := tasklist.Partition(m.state.Tasks)
	return append(pending, completed...)
}

func (m Model) selected() (tasklist.Task, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return tasklist.Task{}, false
	}
	return rows[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("My Task List"))
	b.WriteString("\n\n")
	b.WriteString(m.draft.View())
	b.WriteString("\n")

	pending, completed := tasklist.Partition(m.state.Tasks)
	b.WriteString(headingStyle.Render(fmt.Sprintf("Pending Tasks (%d)", len(pending))))
	b.WriteString("\n")
	m.renderRows(&b, pending, 0)
	b.WriteString(headingStyle.Render(fmt.Sprintf("Completed Tasks (%d)", len(completed))))
	b.WriteString("\n")
	m.renderRows(&b, completed, len(pending))

	switch m.focus {
	case focusConfirm:
		b.WriteString("\n")
		b.WriteString(dangerStyle.Render("Are you sure you want to delete all tasks? (y/n)"))
	case focusEdit:
		b.WriteString(helpStyle.Render("enter save • esc cancel"))
	case focusDraft:
		b.WriteString(helpStyle.Render("enter add • tab list • ctrl+c quit"))
	default:
		b.WriteString(helpStyle.Render("↑/↓ move • space complete/undo • e edit • d delete • C clear all • tab new task • q quit"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderRows(b *strings.Builder, tasks []tasklist.Task, offset int) {
	if len(tasks) == 0 {
		b.WriteString(helpStyle.UnsetMarginTop().Render("  (none)"))
		b.WriteString("\n")
		return
	}
	for i, task := range tasks {
		marker := "  "
		if m.focus != focusDraft && m.cursor == offset+i {
			marker = cursorStyle.Render("> ")
		}
		check := "[ ] "
		title := task.Title
		if task.Completed {
			check = "[x] "
			title = completedStyle.Render(title)
		}
		if m.focus == focusEdit && m.state.Editing(task.ID) {
			title = m.edit.View()
		}
		b.WriteString(marker + check + title + "\n")
	}
}
