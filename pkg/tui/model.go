// Package tui implements an interactive task browser: a scrollable
// list of tasks on the left, rendered markdown detail on the right.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/forkhestra/forkhestra/internal/task"
)

// Store is the subset of *task.Store the browser needs; kept as an
// interface so tests can substitute a fake without touching disk.
type Store interface {
	List(task.Filter) ([]task.Task, []error)
	CheckAC(id string, index int) (task.Task, error)
	Update(id string, patch task.Patch) (task.Task, error)
}

type item struct {
	t task.Task
}

func (i item) Title() string {
	return fmt.Sprintf("%s  %s", i.t.ID, i.t.Title)
}

func (i item) Description() string {
	ac := ""
	if n := len(i.t.AcceptanceCriteria); n > 0 {
		done := 0
		for _, c := range i.t.AcceptanceCriteria {
			if c.Checked {
				done++
			}
		}
		ac = fmt.Sprintf(" · %d/%d AC", done, n)
	}
	return statusStyle(string(i.t.Status)).Render(string(i.t.Status)) + ac
}

func (i item) FilterValue() string { return i.t.ID + " " + i.t.Title }

// Model is the top-level bubbletea model for the browser.
type Model struct {
	store Store
	list  list.Model
	width, height int
	err   error
}

var statusCycle = []task.Status{task.StatusTodo, task.StatusInProgress, task.StatusDone, task.StatusBlocked}

// New builds a Model over every task currently in store.
func New(store Store) (Model, error) {
	tasks, errs := store.List(task.Filter{})
	var loadErr error
	if len(errs) > 0 {
		// the first malformed file is surfaced in the status line, not fatal.
		loadErr = errs[0]
	}
	items := make([]list.Item, 0, len(tasks))
	for _, t := range tasks {
		items = append(items, item{t: t})
	}

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = selectedItemStyle
	delegate.Styles.SelectedDesc = selectedItemStyle

	l := list.New(items, delegate, 0, 0)
	l.Title = "forge-tasks"
	l.Styles.Title = titleStyle

	return Model{store: store, list: l, err: loadErr}, nil
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width/2, msg.Height-2)
		return m, nil

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Check):
			m.toggleFirstUncheckedAC()
			return m, nil
		case key.Matches(msg, keys.Cycle):
			m.cycleStatus()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) selected() (task.Task, bool) {
	it, ok := m.list.SelectedItem().(item)
	if !ok {
		return task.Task{}, false
	}
	return it.t, true
}

func (m *Model) replaceSelected(t task.Task) {
	idx := m.list.Index()
	m.list.SetItem(idx, item{t: t})
}

func (m *Model) toggleFirstUncheckedAC() {
	t, ok := m.selected()
	if !ok {
		return
	}
	for _, ac := range t.AcceptanceCriteria {
		if !ac.Checked {
			updated, err := m.store.CheckAC(t.ID, ac.Index)
			if err != nil {
				m.err = err
				return
			}
			m.replaceSelected(updated)
			return
		}
	}
}

func (m *Model) cycleStatus() {
	t, ok := m.selected()
	if !ok {
		return
	}
	next := statusCycle[0]
	for i, s := range statusCycle {
		if s == t.Status {
			next = statusCycle[(i+1)%len(statusCycle)]
			break
		}
	}
	updated, err := m.store.Update(t.ID, task.Patch{Status: &next})
	if err != nil {
		m.err = err
		return
	}
	m.replaceSelected(updated)
}

func (m Model) View() string {
	detail := m.renderDetail()
	listView := m.list.View()

	detailWidth := m.width - lipgloss.Width(listView) - 2
	if detailWidth < 10 {
		detailWidth = 10
	}
	panel := panelStyle.Width(detailWidth).Height(m.list.Height()).Render(detail)

	help := helpStyle.Render("c: check next AC  ·  s: cycle status  ·  /: filter  ·  q: quit")
	if m.err != nil {
		help = helpStyle.Render(fmt.Sprintf("error: %v", m.err))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, listView, panel) + "\n" + help
}

func (m Model) renderDetail() string {
	t, ok := m.selected()
	if !ok {
		return ""
	}
	detailWidth := m.width - lipgloss.Width(m.list.View()) - 4

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s: %s\n\n", t.ID, t.Title)
	fmt.Fprintf(&sb, "**Status:** %s", t.Status)
	if t.Priority != "" {
		fmt.Fprintf(&sb, " | **Priority:** %s", t.Priority)
	}
	sb.WriteString("\n\n")
	if t.Description != "" {
		sb.WriteString("## Description\n\n" + t.Description + "\n\n")
	}
	if t.ImplementationPlan != "" {
		sb.WriteString("## Implementation Plan\n\n" + t.ImplementationPlan + "\n\n")
	}
	if len(t.AcceptanceCriteria) > 0 {
		sb.WriteString("## Acceptance Criteria\n\n")
		for _, ac := range t.AcceptanceCriteria {
			box := " "
			if ac.Checked {
				box = "x"
			}
			fmt.Fprintf(&sb, "- [%s] %s\n", box, ac.Text)
		}
		sb.WriteString("\n")
	}
	if t.ImplementationNotes != "" {
		sb.WriteString("## Implementation Notes\n\n" + t.ImplementationNotes + "\n")
	}

	return renderMarkdownWidth(sb.String(), detailWidth)
}
