package teaui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"tableflip.dev/agenda/pkg/app"
	"tableflip.dev/agenda/pkg/calendar"
	"tableflip.dev/agenda/pkg/schedule"
	"tableflip.dev/agenda/pkg/timeutil"
	"tableflip.dev/agenda/pkg/todo"
)

type mode int

const (
	modeNormal mode = iota
	modeInsert
	modeHelp
)

type action int

const (
	actionNone action = iota
	actionAddSchedule
	actionAddTodo
)

// panes, in tab order
type pane int

const (
	paneCalendar pane = iota
	paneDay
	paneTodos
	paneCount
)

const (
	refreshEvery = 30 * time.Second
	leftWidth    = 36
	normalStatus = "h/j/k/l move, [/] month, t today, o add, tab switch pane, ? help, q quit"
)

// messages
type tickMsg time.Time
type errMsg struct{ err error }

// Model is the interactive calendar: a month grid, the selected day's
// schedules and the todo list.
type Model struct {
	app    *app.App
	theme  Theme
	mode   mode
	action action
	focus  pane

	input  textinput.Model
	status string

	dayIndex   int
	todoIndex  int
	awaitingDD bool

	termWidth  int
	termHeight int
}

// New builds the model with today selected.
func New(a *app.App) Model {
	ti := textinput.New()
	ti.Placeholder = "Type here"
	ti.CharLimit = 256
	ti.Prompt = ""

	m := Model{
		app:    a,
		theme:  DefaultTheme(),
		mode:   modeNormal,
		action: actionNone,
		focus:  paneCalendar,
		input:  ti,
		status: normalStatus,
	}
	if a != nil {
		now := a.Now()
		_, _ = a.UpdateState(func(s *app.State) error {
			s.GoToToday(now)
			return nil
		})
	}
	return m
}

// Init starts the refresh ticker so edits made by other agenda processes show
// up without a key press.
func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(refreshEvery, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles messages and keybindings
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
	case tickMsg:
		m.clampCursors()
		cmds = append(cmds, tick())
	case errMsg:
		m.status = "ERR: " + msg.err.Error()
	case tea.KeyPressMsg:
		switch m.mode {
		case modeHelp:
			if key := msg.String(); key == "q" || key == "esc" || key == "?" {
				m.mode = modeNormal
			}
		case modeInsert:
			switch msg.String() {
			case "enter":
				m.submit(&cmds)
			case "esc":
				m.leaveInsert()
				m.status = normalStatus
			default:
				var cmd tea.Cmd
				m.input, cmd = m.input.Update(msg)
				cmds = append(cmds, cmd)
			}
		default:
			if cmd := m.handleNormalKey(msg.String()); cmd != nil {
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleNormalKey(key string) tea.Cmd {
	if key != "d" {
		m.awaitingDD = false
	}
	switch key {
	case "q", "ctrl+c":
		return tea.Quit
	case "?":
		m.mode = modeHelp
		return nil
	case "tab":
		m.focus = (m.focus + 1) % paneCount
		return nil
	case "shift+tab":
		m.focus = (m.focus + paneCount - 1) % paneCount
		return nil
	}

	switch m.focus {
	case paneCalendar:
		switch key {
		case "left", "h":
			m.moveDay(-1)
		case "right", "l":
			m.moveDay(1)
		case "up", "k":
			m.moveDay(-7)
		case "down", "j":
			m.moveDay(7)
		case "[", "pgup":
			m.moveMonth(-1)
		case "]", "pgdown":
			m.moveMonth(1)
		case "t":
			now := m.app.Now()
			_, _ = m.app.UpdateState(func(s *app.State) error {
				s.GoToToday(now)
				return nil
			})
			m.dayIndex = 0
		case "enter":
			m.focus = paneDay
		case "o":
			return m.enterInsert(actionAddSchedule)
		}
	case paneDay:
		list := m.daySchedules()
		switch key {
		case "up", "k":
			if m.dayIndex > 0 {
				m.dayIndex--
			}
		case "down", "j":
			if m.dayIndex < len(list)-1 {
				m.dayIndex++
			}
		case "esc":
			m.focus = paneCalendar
		case "o":
			return m.enterInsert(actionAddSchedule)
		case "d":
			if !m.awaitingDD {
				m.awaitingDD = true
				return nil
			}
			m.awaitingDD = false
			if m.dayIndex < len(list) {
				sc := list[m.dayIndex]
				m.app.DeleteSchedule(sc.ID)
				m.status = fmt.Sprintf("Deleted %q", sc.Title)
				m.clampCursors()
			}
		}
	case paneTodos:
		list := m.app.Todos().Active()
		switch key {
		case "up", "k":
			if m.todoIndex > 0 {
				m.todoIndex--
			}
		case "down", "j":
			if m.todoIndex < len(list)-1 {
				m.todoIndex++
			}
		case "x", "space":
			if t, ok := m.todoAt(); ok {
				m.app.ToggleTodo(t.ID)
			}
		case "K":
			m.app.KeepTodos()
			m.status = "Kept completed todos"
			m.clampCursors()
		case "o":
			return m.enterInsert(actionAddTodo)
		}
	}
	return nil
}

func (m *Model) moveDay(delta int) {
	_, err := m.app.UpdateState(func(s *app.State) error {
		d, err := calendar.ParseDate(s.Selected)
		if err != nil {
			d = m.app.Now()
		}
		return s.Select(calendar.DateString(d.AddDate(0, 0, delta)))
	})
	if err != nil {
		m.status = "ERR: " + err.Error()
	}
	m.dayIndex = 0
}

// moveMonth changes the month and keeps the selected day of month, clamped
// to the length of the new month.
func (m *Model) moveMonth(delta int) {
	_, err := m.app.UpdateState(func(s *app.State) error {
		day := 1
		if d, err := calendar.ParseDate(s.Selected); err == nil {
			day = d.Day()
		}
		s.NavigateMonth(delta)
		if n := calendar.DaysIn(s.Year, s.Month); day > n {
			day = n
		}
		return s.Select(fmt.Sprintf("%04d-%02d-%02d", s.Year, s.Month+1, day))
	})
	if err != nil {
		m.status = "ERR: " + err.Error()
	}
	m.dayIndex = 0
}

func (m *Model) enterInsert(a action) tea.Cmd {
	m.mode = modeInsert
	m.action = a
	m.input.Reset()
	switch a {
	case actionAddSchedule:
		m.input.Placeholder = "09:30 Title @15m"
		m.status = "ADD SCHEDULE on " + m.app.State().Selected + ": enter to save, esc to cancel"
	case actionAddTodo:
		m.input.Placeholder = "buy milk"
		m.status = "ADD TODO: enter to save, esc to cancel"
	}
	return tea.Batch(m.input.Focus(), textinput.Blink)
}

func (m *Model) leaveInsert() {
	m.mode = modeNormal
	m.action = actionNone
	m.input.Blur()
	m.input.Reset()
}

func (m *Model) submit(cmds *[]tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	act := m.action
	m.leaveInsert()
	m.status = normalStatus
	if value == "" {
		return
	}

	switch act {
	case actionAddSchedule:
		in, err := ParseQuickSchedule(value, m.app.State().Selected)
		if err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
			return
		}
		sc, err := m.app.AddSchedule(in)
		if err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
			return
		}
		m.status = fmt.Sprintf("Added %q at %s", sc.Title, sc.Time)
	case actionAddTodo:
		if _, err := m.app.AddTodo(value); err != nil {
			*cmds = append(*cmds, func() tea.Msg { return errMsg{err} })
			return
		}
		m.todoIndex = len(m.app.Todos().Active()) - 1
	}
}

// ParseQuickSchedule reads "HH:MM title [@offset]" into a schedule on date.
func ParseQuickSchedule(input, date string) (app.ScheduleInput, error) {
	fields := strings.Fields(input)
	if len(fields) < 2 {
		return app.ScheduleInput{}, fmt.Errorf("expected \"HH:MM title\", got %q", input)
	}
	in := app.ScheduleInput{Date: date, Time: fields[0]}
	if _, _, err := schedule.ParseTime(in.Time); err != nil {
		return in, err
	}
	rest := fields[1:]
	if last := rest[len(rest)-1]; strings.HasPrefix(last, "@") && len(rest) > 1 {
		minutes, _, err := timeutil.ParseOffset(strings.TrimPrefix(last, "@"))
		if err != nil {
			return in, err
		}
		in.Reminder = schedule.Minutes(minutes)
		rest = rest[:len(rest)-1]
	}
	in.Title = strings.Join(rest, " ")
	return in, nil
}

func (m *Model) daySchedules() []schedule.Schedule {
	list := m.app.Schedules().ByDate(m.app.State().Selected)
	schedule.SortByStart(list)
	return list
}

func (m *Model) clampCursors() {
	if n := len(m.daySchedules()); m.dayIndex >= n {
		m.dayIndex = max(n-1, 0)
	}
	if n := len(m.app.Todos().Active()); m.todoIndex >= n {
		m.todoIndex = max(n-1, 0)
	}
}

var defaultSwatch, _ = colorful.Hex(schedule.DefaultColor)

func (m Model) styleFor(p pane) lipgloss.Style {
	if m.focus == p {
		return m.theme.Panel.Focused
	}
	return m.theme.Panel.Frame
}

// View renders the grid and day on the left and the todos on the right.
func (m Model) View() string {
	if m.app == nil {
		return ""
	}
	st := m.app.State()
	now := m.app.Now()

	grid := calendar.Render(st.Grid(now), m.app.Schedules().CountByDate(), st.Selected, calendar.DefaultOptions())
	cal := m.styleFor(paneCalendar).Render(m.theme.Panel.Title.Render(st.Title()) + "\n\n" + grid)

	day := m.styleFor(paneDay).Width(leftWidth).Render(m.viewDay(st.Selected))
	left := lipgloss.JoinVertical(lipgloss.Left, cal, day)

	rightWidth := m.termWidth - lipgloss.Width(left) - 4
	if rightWidth < 24 {
		rightWidth = 24
	}
	right := m.styleFor(paneTodos).Width(rightWidth).Render(m.viewTodos(rightWidth - 4))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	switch m.mode {
	case modeInsert:
		body += "\n\n" + "Add: " + m.input.View()
	case modeHelp:
		help := "Calendar: h/l previous/next day, k/j previous/next week, [/] previous/next month, t today, enter open day, o add schedule. " +
			"Day: j/k move, dd delete, o add schedule (\"09:30 Dentist @15m\"), esc back. " +
			"Todos: j/k move, x or space toggle, K keep completed, o add. " +
			"Everywhere: tab/shift+tab switch pane, ? help, q quit."
		width := m.termWidth
		if width <= 0 {
			width = 80
		}
		body += "\n\n" + m.theme.Footer.Help.Render(wordwrap.String(help, width))
	}

	return body + "\n\n" + m.theme.Footer.Status.Render(m.status)
}

func (m Model) viewDay(date string) string {
	title := date
	if d, err := calendar.ParseDate(date); err == nil {
		title = calendar.FormatLong(d)
	}
	lines := []string{m.theme.Panel.Title.Render(title)}

	list := m.daySchedules()
	if len(list) == 0 {
		lines = append(lines, m.theme.List.Faint.Render("no schedules"))
	}
	for i, sc := range list {
		line := fmt.Sprintf("%s %s", sc.Time, sc.Title)
		if sc.HasReminder() {
			line += " ⏰" + timeutil.FormatOffset(*sc.Reminder)
		}
		line = truncate.StringWithTail(line, uint(leftWidth-6), "…")
		prefix := "  "
		if m.focus == paneDay && i == m.dayIndex {
			prefix = m.theme.List.Cursor.Render("→ ")
		}
		lines = append(lines, prefix+swatch(sc.Color)+" "+line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewTodos(width int) string {
	list := m.app.Todos().Active()
	lines := []string{m.theme.Panel.Title.Render(fmt.Sprintf("Todos (%d)", len(list)))}
	if len(list) == 0 {
		lines = append(lines, m.theme.List.Faint.Render("nothing to do"))
	}
	for i, t := range list {
		text := truncate.StringWithTail(t.Text, uint(max(width-6, 1)), "…")
		box := "[ ]"
		if t.Completed {
			box = "[x]"
			text = m.theme.List.Done.Render(text)
		}
		prefix := "  "
		if m.focus == paneTodos && i == m.todoIndex {
			prefix = m.theme.List.Cursor.Render("→ ")
		}
		lines = append(lines, prefix+box+" "+text)
	}
	return strings.Join(lines, "\n")
}

// swatch is a dot in the schedule's color. Colors that do not parse as hex
// fall back to the default color.
func swatch(hex string) string {
	c, err := colorful.Hex(hex)
	if err != nil {
		c = defaultSwatch
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("●")
}

// Run opens the UI on the alternate screen until the user quits. Changes
// written by other agenda processes are reloaded while it runs.
func Run(ctx context.Context, a *app.App) error {
	if err := a.Watch(ctx); err != nil {
		return err
	}
	p := tea.NewProgram(New(a), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// todoAt returns the active todo under the cursor.
func (m Model) todoAt() (todo.Todo, bool) {
	list := m.app.Todos().Active()
	if m.todoIndex < 0 || m.todoIndex >= len(list) {
		return todo.Todo{}, false
	}
	return list[m.todoIndex], true
}
