package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexanderramin/studyplan/internal/cli/formatter"
	"github.com/alexanderramin/studyplan/internal/domain"
	"github.com/alexanderramin/studyplan/internal/plan"
	"github.com/alexanderramin/studyplan/internal/service"
)

type todayKeyMap struct {
	Up, Down, Toggle, PrevDay, NextDay, Today, Quit key.Binding
}

func defaultTodayKeys() todayKeyMap {
	return todayKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Toggle:  key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space", "toggle")),
		PrevDay: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		NextDay: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k todayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.PrevDay, k.NextDay, k.Today, k.Quit}
}

// todayRow is one selectable line of the checklist.
type todayRow struct {
	id     domain.TaskID
	label  string
	done   bool
	detail string
}

type todayLoadedMsg struct {
	tasks plan.DailyTasks
}

type taskToggledMsg struct {
	err error
}

// todayModel is the interactive daily checklist.
type todayModel struct {
	store  service.ProgressService
	keys   todayKeyMap
	day    domain.Day
	tasks  plan.DailyTasks
	rows   []todayRow
	cursor int
	err    error
	width  int
}

func newTodayModel(store service.ProgressService, day domain.Day) *todayModel {
	return &todayModel{store: store, keys: defaultTodayKeys(), day: day}
}

func (m *todayModel) Init() tea.Cmd {
	return m.load()
}

func (m *todayModel) load() tea.Cmd {
	store, day := m.store, m.day
	return func() tea.Msg {
		return todayLoadedMsg{tasks: store.DailyTasks(day)}
	}
}

func (m *todayModel) toggle(row todayRow) tea.Cmd {
	store, day := m.store, m.day
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		if row.done {
			err = store.UncompleteTask(ctx, row.id, day)
		} else {
			err = store.CompleteTask(ctx, row.id, day)
		}
		return taskToggledMsg{err: err}
	}
}

func (m *todayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case todayLoadedMsg:
		m.tasks = msg.tasks
		m.rows = buildTodayRows(msg.tasks)
		if m.cursor >= len(m.rows) {
			m.cursor = max(len(m.rows)-1, 0)
		}
		return m, nil

	case taskToggledMsg:
		m.err = msg.err
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.rows) {
				return m, m.toggle(m.rows[m.cursor])
			}
		case key.Matches(msg, m.keys.PrevDay):
			m.day = m.day.AddDays(-1)
			m.cursor = 0
			return m, m.load()
		case key.Matches(msg, m.keys.NextDay):
			m.day = m.day.AddDays(1)
			m.cursor = 0
			return m, m.load()
		case key.Matches(msg, m.keys.Today):
			m.day = m.store.Today()
			m.cursor = 0
			return m, m.load()
		}
	}
	return m, nil
}

func buildTodayRows(tasks plan.DailyTasks) []todayRow {
	rows := make([]todayRow, 0, len(tasks.RoutineTasks)+len(tasks.StudyTasks))
	for _, r := range tasks.RoutineTasks {
		row := todayRow{id: r.ID, label: formatter.RoutineLabel(r), done: r.Completed}
		if r.RequiresTimer {
			row.detail = "⏱ " + formatter.FormatSeconds(r.TimerSeconds)
		}
		rows = append(rows, row)
	}
	for _, s := range tasks.StudyTasks {
		row := todayRow{id: s.ID, label: fmt.Sprintf("%s %s", formatter.SubjectBadge(s.Subject), s.Title), done: s.Completed}
		if s.TimeSlot != nil {
			row.detail = s.TimeSlot.Start + "-" + s.TimeSlot.End
		}
		rows = append(rows, row)
	}
	return rows
}

func (m *todayModel) View() string {
	var b strings.Builder
	today := m.store.Today()
	title := fmt.Sprintf("%s  %s", m.day, formatter.Dim(formatter.RelativeDay(m.day, today)))
	if id := m.tasks.Week.ID(); id != "" {
		title += "  " + formatter.Dim(id)
	}
	b.WriteString(formatter.Bold(title) + "\n\n")

	if len(m.rows) == 0 {
		b.WriteString(formatter.Dim("Bu gün için görev yok.") + "\n")
	}
	done := 0
	for i, r := range m.rows {
		cursor := "  "
		if i == m.cursor {
			cursor = formatter.StyleHeader.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s %s", cursor, formatter.CheckMark(r.done), r.label)
		if r.detail != "" {
			line += "  " + formatter.Dim(r.detail)
		}
		b.WriteString(line + "\n")
		if r.done {
			done++
		}
	}
	if len(m.rows) > 0 {
		b.WriteString("\n" + formatter.RenderCount(done, len(m.rows), 20) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + formatter.StyleRed.Render("hata: "+m.err.Error()) + "\n")
	}

	help := make([]string, 0, len(m.keys.ShortHelp()))
	for _, k := range m.keys.ShortHelp() {
		h := k.Help()
		help = append(help, h.Key+" "+h.Desc)
	}
	b.WriteString("\n" + formatter.Dim(strings.Join(help, " · ")))
	return b.String()
}
