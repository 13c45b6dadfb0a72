// Package ui renders the task list for the console and runs the
// interactive editor.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/tasks-go/internal/store"
	"github.com/nibzard/tasks-go/internal/todo"
)

// ErrNotTTY is returned by RunTUI when output is not a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

const defaultTickInterval = 2 * time.Second

// RunTUI starts the interactive editor on w. Every action goes through st.
func RunTUI(ctx context.Context, st *store.Store, w io.Writer) error {
	if !IsTTY(w) {
		return ErrNotTTY
	}
	model := newTUIModel(ctx, st, NewStyles(lipgloss.NewRenderer(w)))
	return runProgram(ctx, model, w)
}

func runProgram(ctx context.Context, model *tuiModel, w io.Writer) error {
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx), tea.WithOutput(w))
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

type tuiModel struct {
	ctx          context.Context
	store        *store.Store
	styles       Styles
	tasks        todo.List
	counts       todo.Counts
	cursor       int
	adding       bool
	input        []rune
	message      string
	messageErr   bool
	showHelp     bool
	tickInterval time.Duration
}

type tickMsg time.Time

func newTUIModel(ctx context.Context, st *store.Store, styles Styles) *tuiModel {
	return &tuiModel{
		ctx:          ctx,
		store:        st,
		styles:       styles,
		tickInterval: defaultTickInterval,
	}
}

func (m *tuiModel) Init() tea.Cmd {
	m.refresh()
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.adding {
			return m.updateInput(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case " ", "x", "enter":
			m.completeSelected()
		case "d":
			m.deleteSelected()
		case "c":
			m.clearCompleted()
		case "a":
			m.adding = true
			m.input = m.input[:0]
			m.setMessage("", false)
		case "r":
			m.setMessage("Reloaded.", false)
			m.refresh()
		case "?", "h":
			m.showHelp = !m.showHelp
		}
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.adding = false
		m.input = m.input[:0]
	case tea.KeyEnter:
		m.adding = false
		m.addTask(string(m.input))
		m.input = m.input[:0]
	case tea.KeyBackspace:
		if len(m.input) > 0 {
			m.input = m.input[:len(m.input)-1]
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b, m.styles)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b, m.styles)
		return b.String()
	}

	if len(m.tasks) == 0 {
		b.WriteString("  No tasks yet. Press a to add one.\n")
	}
	for i, task := range m.tasks {
		cursor := "  "
		if i == m.cursor {
			cursor = m.styles.Cursor.Render("> ")
		}
		desc := task.Description
		if task.Completed {
			desc = m.styles.Faint.Render(desc)
		}
		fmt.Fprintf(&b, "%s%s #%d %s\n", cursor, marker(m.styles, task), task.ID, desc)
	}
	b.WriteString("\n" + Summary(m.counts) + "\n\n")

	if m.adding {
		b.WriteString("New task: " + string(m.input) + "_\n")
		b.WriteString(m.styles.Faint.Render("enter to add | esc to cancel") + "\n")
		return b.String()
	}

	if m.message != "" {
		style := m.styles.Success
		if m.messageErr {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.message) + "\n\n")
	}
	writeFooter(&b, m.styles)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadWarning replaces the message line while the backing file is unreadable.
const loadWarning = "Warning: could not read the tasks file; showing an empty list"

func (m *tuiModel) refresh() {
	snap := m.store.List(m.ctx)
	m.tasks = snap.Tasks
	m.counts = snap.Counts
	if snap.LoadErr != nil {
		m.setMessage(loadWarning, true)
	}
	if m.cursor >= len(m.tasks) {
		m.cursor = len(m.tasks) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) selected() (todo.Task, bool) {
	if m.cursor < 0 || m.cursor >= len(m.tasks) {
		return todo.Task{}, false
	}
	return m.tasks[m.cursor], true
}

func (m *tuiModel) addTask(description string) {
	res, err := m.store.Add(m.ctx, description)
	if err != nil {
		m.setMessage("Error: "+err.Error(), true)
		return
	}
	m.refresh()
	m.cursor = len(m.tasks) - 1
	m.setResult(res, fmt.Sprintf("Added task #%d: %s", res.Task.ID, res.Task.Description))
}

func (m *tuiModel) completeSelected() {
	task, ok := m.selected()
	if !ok {
		return
	}
	res, err := m.store.Complete(m.ctx, strconv.Itoa(task.ID))
	m.refresh()
	switch {
	case errors.Is(err, todo.ErrAlreadyCompleted):
		m.setMessage(fmt.Sprintf("Task #%d is already completed", task.ID), true)
	case err != nil:
		m.setMessage(fmt.Sprintf("Error: task #%d not found", task.ID), true)
	default:
		m.setResult(res, fmt.Sprintf("Completed task #%d: %s", res.Task.ID, res.Task.Description))
	}
}

func (m *tuiModel) deleteSelected() {
	task, ok := m.selected()
	if !ok {
		return
	}
	res, err := m.store.Delete(m.ctx, strconv.Itoa(task.ID))
	m.refresh()
	if err != nil {
		m.setMessage(fmt.Sprintf("Error: task #%d not found", task.ID), true)
		return
	}
	m.setResult(res, fmt.Sprintf("Deleted task #%d: %s", res.Task.ID, res.Task.Description))
}

func (m *tuiModel) clearCompleted() {
	res, err := m.store.Clear(m.ctx)
	m.refresh()
	if err != nil {
		m.setMessage("No completed tasks to remove.", false)
		return
	}
	m.setResult(res, fmt.Sprintf("Removed %d completed task(s).", res.Count))
}

func (m *tuiModel) setMessage(text string, isErr bool) {
	m.message = text
	m.messageErr = isErr
}

// setResult reports a mutation, flagging it when the save failed.
func (m *tuiModel) setResult(res store.Result, text string) {
	if !res.Persisted {
		m.setMessage(text+" (not saved)", true)
		return
	}
	m.setMessage(text, false)
}

func writeTitle(b *strings.Builder, styles Styles) {
	title := "Tasks"
	b.WriteString(styles.Title.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  j, down           Move down\n")
	b.WriteString("  k, up             Move up\n")
	b.WriteString("  space, x, enter   Complete task\n")
	b.WriteString("  d                 Delete task\n")
	b.WriteString("  c                 Remove completed tasks\n")
	b.WriteString("  a                 Add task\n")
	b.WriteString("  r                 Reload from disk\n")
	b.WriteString("  h, ?              Toggle this help screen\n")
	b.WriteString("  q, ctrl+c         Quit\n\n")
}

func writeFooter(b *strings.Builder, styles Styles) {
	b.WriteString(styles.Faint.Render("Press ? for help | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
