package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/BuzzLyutic/clock-tasks/internal/model"
)

const connectError = "Couldn't connect to server"

// TaskAPI is the part of API the view mutates tasks through.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	CreateTask(ctx context.Context, title string) (model.Task, error)
	ToggleTask(ctx context.Context, id int64) (model.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

type (
	timeMsg        TimeResult
	tasksLoadedMsg struct {
		tasks []model.Task
		err   error
	}
	taskCreatedMsg struct {
		task model.Task
		err  error
	}
	taskToggledMsg struct {
		task model.Task
		err  error
	}
	taskDeletedMsg struct {
		id  int64
		err error
	}
)

// taskItem adapts model.Task to bubbles/list.Item
type taskItem struct {
	task model.Task
}

func (i taskItem) Title() string       { return i.task.Title }
func (i taskItem) Description() string { return "" }
func (i taskItem) FilterValue() string { return i.task.Title }

type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(taskItem)
	if !ok {
		return
	}

	box := mutedStyle.Render(boxUnchecked)
	text := it.task.Title
	status := mutedStyle.Render("(not done)")
	if it.task.IsDone {
		box = successStyle.Render(boxChecked)
		text = doneStyle.Render(text)
		status = mutedStyle.Render("(done)")
	}

	prefix := "  "
	if index == m.Index() {
		prefix = selectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, box, text, status)
}

type Model struct {
	ctx   context.Context
	api   TaskAPI
	times <-chan TimeResult

	state  State
	list   list.Model
	input  textinput.Model
	adding bool
	width  int
}

func NewModel(ctx context.Context, api TaskAPI, times <-chan TimeResult) Model {
	l := list.New(nil, itemDelegate{}, 60, 12)
	l.Title = "Tasks"
	l.Styles.Title = titleStyle
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)

	addBind := key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add"))
	toggleBind := key.NewBinding(key.WithKeys(" ", "t"), key.WithHelp("space", "toggle"))
	deleteBind := key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete"))
	reloadBind := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload"))
	bindings := func() []key.Binding { return []key.Binding{addBind, toggleBind, deleteBind, reloadBind} }
	l.AdditionalShortHelpKeys = bindings
	l.AdditionalFullHelpKeys = bindings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "New task title"
	ti.CharLimit = 200

	return Model{
		ctx:   ctx,
		api:   api,
		times: times,
		state: *NewState(),
		list:  l,
		input: ti,
		width: 64,
	}
}

// State returns a copy of what the view currently shows.
func (m Model) State() State {
	return m.state
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForTime(m.times), m.loadTasks())
}

func waitForTime(ch <-chan TimeResult) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return timeMsg(r)
	}
}

func (m Model) loadTasks() tea.Cmd {
	return func() tea.Msg {
		tasks, err := m.api.ListTasks(m.ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func (m Model) createTask(title string) tea.Cmd {
	return func() tea.Msg {
		task, err := m.api.CreateTask(m.ctx, title)
		return taskCreatedMsg{task: task, err: err}
	}
}

func (m Model) toggleTask(id int64) tea.Cmd {
	return func() tea.Msg {
		task, err := m.api.ToggleTask(m.ctx, id)
		return taskToggledMsg{task: task, err: err}
	}
}

func (m Model) deleteTask(id int64) tea.Cmd {
	return func() tea.Msg {
		return taskDeletedMsg{id: id, err: m.api.DeleteTask(m.ctx, id)}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.list.SetSize(msg.Width-4, max(msg.Height-12, 4))
		return m, nil

	case timeMsg:
		m.state.ApplyTime(TimeResult(msg))
		return m, waitForTime(m.times)

	case tasksLoadedMsg:
		m.state.SetTasks(msg.tasks, msg.err)
		return m, m.syncList()

	case taskCreatedMsg:
		if msg.err != nil {
			m.state.Fail(msg.err)
			return m, nil
		}
		m.state.Prepend(msg.task)
		return m, m.syncList()

	case taskToggledMsg:
		if msg.err != nil {
			m.state.Fail(msg.err)
			return m, nil
		}
		m.state.Replace(msg.task)
		return m, m.syncList()

	case taskDeletedMsg:
		if msg.err != nil {
			m.state.Fail(msg.err)
			return m, nil
		}
		m.state.Remove(msg.id)
		return m, m.syncList()

	case tea.KeyMsg:
		if m.adding {
			return m.updateAdding(msg)
		}
		return m.updateBrowsing(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		title := strings.TrimSpace(m.input.Value())
		if title == "" {
			return m, nil
		}
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		m.state.ClearError()
		return m, m.createTask(title)
	case "esc":
		m.adding = false
		m.input.SetValue("")
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		m.adding = true
		m.input.SetValue("")
		return m, m.input.Focus()
	case " ", "t":
		if it, ok := m.list.SelectedItem().(taskItem); ok {
			m.state.ClearError()
			return m, m.toggleTask(it.task.ID)
		}
		return m, nil
	case "d":
		if it, ok := m.list.SelectedItem().(taskItem); ok {
			m.state.ClearError()
			return m, m.deleteTask(it.task.ID)
		}
		return m, nil
	case "r":
		m.state.TasksLoading = true
		m.state.ClearError()
		return m, m.loadTasks()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) syncList() tea.Cmd {
	items := make([]list.Item, 0, len(m.state.Tasks))
	for _, t := range m.state.Tasks {
		items = append(items, taskItem{task: t})
	}
	return m.list.SetItems(items)
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Docker ") + highlightStyle.Render("Fullstack") + titleStyle.Render(" App"))
	b.WriteString("\n\n")
	b.WriteString(clockStyle.Render(m.clockText()))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("Time from PostgreSQL via the Go API"))
	b.WriteString("\n\n")

	done, pending := m.state.Counts()
	b.WriteString(fmt.Sprintf("%s %d  %s %d\n",
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), pending,
	))

	switch {
	case m.state.TasksLoading:
		b.WriteString(mutedStyle.Render("Loading tasks..."))
		b.WriteString("\n")
	case len(m.state.Tasks) == 0:
		b.WriteString(mutedStyle.Render("No tasks yet. Press a to add one."))
		b.WriteString("\n")
	default:
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	if m.state.TasksErr != "" {
		b.WriteString(errorStyle.Render("Error: " + m.state.TasksErr))
		b.WriteString("\n")
	}

	if m.adding {
		bar := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8")).Padding(0, 1)
		b.WriteString(bar.Render("Add task\n" + m.input.View()))
		b.WriteString("\n")
	}

	return panelStyle.Render(b.String())
}

func (m Model) clockText() string {
	switch {
	case m.state.TimeErr:
		return errorStyle.Render(connectError)
	case m.state.Time.IsZero():
		return "Loading..."
	default:
		return m.state.Time.Local().Format(time.RFC3339)
	}
}

// RunTUI starts the poller and blocks until the user quits.
func RunTUI(ctx context.Context, api TaskAPI, poller *Poller) error {
	poller.Start(ctx)
	defer poller.Stop()

	p := tea.NewProgram(NewModel(ctx, api, poller.Results()), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
