package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
)

var weekdayHeaders = []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// centerView places a view within given dimensions (left-aligned, top-aligned)
func centerView(width, height int, view string) string {
	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, view)
}

func (m *Model) boxStyle(focused bool) lipgloss.Style {
	style := lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(m.palette.Border)
	if focused {
		style = style.BorderForeground(m.palette.Focus)
	}
	return style
}

func (m *Model) titleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(m.palette.Accent).Bold(true)
}

func (m *Model) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(m.palette.Muted)
}

// renderLayout renders the calendar pane, the sidebar and the bottom bars.
func (m *Model) renderLayout() string {
	dims := CalculatePaneDimensions(m.width, m.height)

	calInnerWidth := dims.CalendarWidth - BorderWidth
	calInnerHeight := dims.CalendarHeight - BorderHeight

	var calendarView string
	switch m.viewMode {
	case ViewWeek:
		calendarView = m.renderWeek(calInnerWidth, calInnerHeight)
	case ViewDay:
		calendarView = m.renderDayDetail(calInnerWidth, calInnerHeight)
	default:
		calendarView = m.renderMonth(calInnerWidth, calInnerHeight)
	}
	calendarBox := m.boxStyle(true).Render(centerView(calInnerWidth, calInnerHeight, calendarView))

	content := lipgloss.JoinHorizontal(lipgloss.Top, calendarBox, m.renderSidebar(dims))

	m.textEntryBar.SetWidth(m.width)
	textEntry := m.textEntryBar.View()

	m.statusBar.SetWidth(m.width)
	m.statusBar.SetDate(datekey.Display(m.currentDate))
	m.statusBar.SetView(m.viewMode.String())
	m.statusBar.SetTag(m.activeTag)

	return content + "\n" + textEntry + "\n" + m.messageLine() + "\n" + m.statusBar.View()
}

// messageLine shows the last error, or else the flash message.
func (m *Model) messageLine() string {
	if m.lastError != nil {
		return lipgloss.NewStyle().Foreground(m.palette.Error).Padding(0, 1).
			Render("Error: " + m.lastError.Error())
	}
	if m.successMessage != "" {
		return lipgloss.NewStyle().Foreground(m.palette.Success).Padding(0, 1).
			Render(m.successMessage)
	}
	return ""
}

// renderMonth draws the month containing the selected date as a Sunday
// first grid with as many task titles per cell as fit.
func (m *Model) renderMonth(width, height int) string {
	first := m.currentDate[:8] + "01"
	days, err := datekey.MonthDays(first)
	if err != nil {
		return err.Error()
	}
	start, err := datekey.WeekStart(first)
	if err != nil {
		return err.Error()
	}
	lead, _ := datekey.Range(start, first)
	lead = lead[:len(lead)-1]

	cells := make([]string, 0, 42)
	for range lead {
		cells = append(cells, "")
	}
	cells = append(cells, days...)
	for len(cells)%7 != 0 {
		cells = append(cells, "")
	}
	weeks := len(cells) / 7

	cellWidth := CellWidth(width)
	rowHeight := MonthRowHeight(height, weeks)

	month, err := datekey.Parse(first)
	if err != nil {
		return err.Error()
	}
	title := m.titleStyle().Render(month.Format("January 2006"))
	rows := []string{title, m.weekdayHeader(cellWidth)}
	for w := 0; w < weeks; w++ {
		var rendered []string
		for _, date := range cells[w*7 : w*7+7] {
			rendered = append(rendered, m.renderCell(date, cellWidth, rowHeight))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) weekdayHeader(cellWidth int) string {
	var parts []string
	for _, h := range weekdayHeaders {
		parts = append(parts, m.mutedStyle().Width(cellWidth+1).Render(h))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

// renderCell draws one day of the month grid.
func (m *Model) renderCell(date string, width, height int) string {
	style := lipgloss.NewStyle().Width(width).Height(height).MarginRight(1)
	if date == "" {
		return style.Render("")
	}

	tasks := m.tags.TasksForDate(date, m.activeTag)
	dayNum := strconv.Itoa(dayOfMonth(date))

	numStyle := lipgloss.NewStyle().Foreground(m.palette.Text)
	if date == datekey.Today(m.now()) {
		numStyle = numStyle.Foreground(m.palette.Today).Bold(true)
	}
	if date == m.currentDate {
		numStyle = numStyle.Background(m.palette.Selected).Bold(true)
	}

	lines := []string{numStyle.Render(dayNum)}
	for i, t := range tasks {
		if len(lines) == height-1 && i < len(tasks)-1 {
			lines = append(lines, m.mutedStyle().Render(fmt.Sprintf("+%d more", len(tasks)-i)))
			break
		}
		if len(lines) >= height {
			break
		}
		lines = append(lines, m.taskStyle(t).Render(ansi.Truncate(cellLabel(t), width, "…")))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// cellLabel is the short form of a task inside a grid cell.
func cellLabel(t calendar.Task) string {
	if t.Time != "" {
		return t.Time + " " + t.Title
	}
	return t.Title
}

// renderWeek draws the seven days of the selected week as columns.
func (m *Model) renderWeek(width, height int) string {
	start, err := datekey.WeekStart(m.currentDate)
	if err != nil {
		return err.Error()
	}
	end, err := datekey.AddDays(start, 6)
	if err != nil {
		return err.Error()
	}
	dates, err := datekey.Range(start, end)
	if err != nil {
		return err.Error()
	}

	cellWidth := CellWidth(width)
	columns := make([]string, 0, 7)
	for i, date := range dates {
		header := fmt.Sprintf("%s %d", weekdayHeaders[i], dayOfMonth(date))
		headerStyle := m.mutedStyle()
		if date == datekey.Today(m.now()) {
			headerStyle = lipgloss.NewStyle().Foreground(m.palette.Today).Bold(true)
		}
		if date == m.currentDate {
			headerStyle = headerStyle.Background(m.palette.Selected)
		}

		lines := []string{headerStyle.Render(header)}
		for j, t := range m.tags.TasksForDate(date, m.activeTag) {
			line := ansi.Truncate(checkbox(t)+" "+cellLabel(t), cellWidth, "…")
			style := m.taskStyle(t)
			if date == m.currentDate && j == m.selected {
				style = style.Reverse(true)
			}
			lines = append(lines, style.Render(line))
		}
		column := lipgloss.NewStyle().Width(cellWidth).MaxHeight(height - 1).MarginRight(1).
			Render(strings.Join(lines, "\n"))
		columns = append(columns, column)
	}

	title := m.titleStyle().Render(fmt.Sprintf("Week of %s", datekey.Display(start)))
	return title + "\n" + lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

// renderDayDetail lists the selected day with descriptions and recurrence.
func (m *Model) renderDayDetail(width, height int) string {
	title := m.titleStyle().Render(fmt.Sprintf("%s (%s)",
		datekey.Display(m.currentDate), datekey.Describe(m.currentDate, m.now())))

	tasks := m.DayTasks()
	if len(tasks) == 0 {
		return title + "\n\n" + m.mutedStyle().Render("No tasks. Press a to add one.")
	}

	lines := []string{title, ""}
	for i, t := range tasks {
		line := taskLine(t)
		style := m.taskStyle(t)
		if i == m.selected {
			style = style.Reverse(true)
		}
		lines = append(lines, style.Render(ansi.Truncate(line, width, "…")))

		if t.Description != "" {
			for _, d := range strings.Split(t.Description, "\n") {
				lines = append(lines, m.mutedStyle().Render(ansi.Truncate("    "+d, width, "…")))
			}
		}
		if t.Recurrence != nil {
			lines = append(lines, m.mutedStyle().Render("    "+describeRecurrence(*t.Recurrence)))
		}
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// renderSidebar stacks the selected day, statistics and the upcoming or
// search list.
func (m *Model) renderSidebar(dims PaneDimensions) string {
	innerWidth := dims.SidebarWidth - BorderWidth

	var sections []string
	if dims.DayHeight > BorderHeight {
		h := dims.DayHeight - BorderHeight
		sections = append(sections, m.boxStyle(false).Render(centerView(innerWidth, h, m.renderDayList(innerWidth, h))))
	}
	if dims.StatsHeight > BorderHeight {
		h := dims.StatsHeight - BorderHeight
		sections = append(sections, m.boxStyle(false).Render(centerView(innerWidth, h, m.renderStats())))
	}
	if dims.ListHeight > BorderHeight {
		h := dims.ListHeight - BorderHeight
		sections = append(sections, m.boxStyle(false).Render(centerView(innerWidth, h, m.renderList(innerWidth, h))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderDayList is the selectable task list of the selected date.
func (m *Model) renderDayList(width, height int) string {
	tasks := m.DayTasks()
	header := m.titleStyle().Render(fmt.Sprintf("━━ %s (%d) ━━", datekey.Describe(m.currentDate, m.now()), len(tasks)))
	if len(tasks) == 0 {
		return header + "\n" + m.mutedStyle().Render("No tasks")
	}

	lines := []string{header}
	for i, t := range tasks {
		style := m.taskStyle(t)
		if i == m.selected {
			style = style.Reverse(true)
		}
		lines = append(lines, style.Render(ansi.Truncate(taskLine(t), width, "…")))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderStats() string {
	undo, redo := 0, 0
	if m.history != nil {
		undo, redo = m.history.UndoLen(), m.history.RedoLen()
	}
	lines := []string{
		m.titleStyle().Render("━━ STATS ━━"),
		fmt.Sprintf("Total      %d", m.stats.Total),
		fmt.Sprintf("Completed  %d (%d%%)", m.stats.Completed, m.stats.CompletionRate),
		fmt.Sprintf("Pending    %d", m.stats.Pending),
		fmt.Sprintf("Streak     %d day(s)", m.streak),
		m.mutedStyle().Render(fmt.Sprintf("undo %d · redo %d", undo, redo)),
	}
	return strings.Join(lines, "\n")
}

// renderList shows search results while a query is active, the upcoming
// tasks otherwise, followed by the tag counts.
func (m *Model) renderList(width, height int) string {
	title, tasks := "UPCOMING", m.upcoming
	if m.searchQuery != "" {
		title, tasks = fmt.Sprintf("SEARCH %q", m.searchQuery), m.searchResults
	}

	lines := []string{m.titleStyle().Render("━━ " + title + " ━━")}
	if len(tasks) == 0 {
		lines = append(lines, m.mutedStyle().Render("Nothing here"))
	}
	for _, t := range tasks {
		line := fmt.Sprintf("%s %s", datekey.Describe(t.Date, m.now()), cellLabel(t))
		lines = append(lines, m.taskStyle(t).Render(ansi.Truncate(line, width, "…")))
	}

	if counts := m.tags.Counts(); len(counts.ByTag) > 0 {
		lines = append(lines, "", m.titleStyle().Render("━━ TAGS ━━"))
		tags := make([]string, 0, len(counts.ByTag))
		for tag := range counts.ByTag {
			tags = append(tags, tag)
		}
		sort.Strings(tags)
		for _, tag := range tags {
			line := fmt.Sprintf("#%s %d", tag, counts.ByTag[tag])
			style := m.mutedStyle()
			if tag == m.activeTag {
				style = lipgloss.NewStyle().Foreground(m.palette.Accent)
			}
			lines = append(lines, style.Render(ansi.Truncate(line, width, "…")))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// taskStyle colors a task by its color, dimming completed ones.
func (m *Model) taskStyle(t calendar.Task) lipgloss.Style {
	if t.IsHoliday {
		return lipgloss.NewStyle().Foreground(m.palette.Holiday).Italic(true)
	}
	style := lipgloss.NewStyle().Foreground(m.palette.taskColor(t.Color))
	if t.Completed {
		style = style.Foreground(m.palette.Muted).Strikethrough(true)
	}
	return style
}

func checkbox(t calendar.Task) string {
	switch {
	case t.IsHoliday:
		return "★"
	case t.Completed:
		return "[x]"
	default:
		return "[ ]"
	}
}

// taskLine is the one-line form used in lists.
func taskLine(t calendar.Task) string {
	line := checkbox(t) + " "
	if t.Time != "" {
		line += t.Time + " "
	}
	line += t.Title
	if t.IsRecurring || t.ParentTaskID != "" {
		line += " ↻"
	}
	if len(t.Tags) > 0 {
		line += " #" + strings.Join(t.Tags, " #")
	}
	return line
}

func describeRecurrence(r calendar.Recurrence) string {
	s := fmt.Sprintf("repeats %s", r.Type)
	if r.Interval > 1 {
		s = fmt.Sprintf("repeats every %d × %s", r.Interval, r.Type)
	}
	if r.EndDate != "" {
		s += " until " + r.EndDate
	}
	return s
}

func dayOfMonth(date string) int {
	n, _ := strconv.Atoi(date[8:])
	return n
}

func (m *Model) confirmView() string {
	prompt := "Delete this task? (y/n)"
	if m.confirmAction == "clear" {
		prompt = fmt.Sprintf("Delete %d completed task(s)? (y/n)", m.stats.Completed)
	} else if t, ok := m.store.FindByID(m.confirmTaskID); ok {
		prompt = fmt.Sprintf("Delete %q? (y/n)", t.Title)
	}
	if m.lastError != nil {
		prompt += "\n\nError: " + m.lastError.Error()
	}
	return prompt
}

// helpView renders the help overlay
func (m *Model) helpView() string {
	helpText := `Help - Key Bindings:

Navigation:
  h, ←       Previous day
  l, →       Next day
  K, J       Previous / next week
  H, L       Previous / next month (week, day in those views)
  t          Jump to today
  v          Cycle month / week / day view
  j, k       Select task of the day

Actions:
  a          Add task (Title HH:MM #tag)
  e          Edit selected task
  space, x   Toggle completed
  d          Delete selected task (with confirmation)
  m          Move selected task to the next day
  M          Move selected task to a date (2025-03-01, tm, fri, +3d)
  c          Clear completed tasks (with confirmation)
  u, ctrl+r  Undo / redo

Filters:
  f          Cycle tag filter
  /          Search
  esc        Clear search

General:
  T          Toggle light / dark theme
  r          Reload holidays
  q, ctrl+c  Quit
  ?          Toggle help

Holidays are read-only and never stored with your tasks.

Press ? to exit help.`

	return helpText + "\n\n" + m.statusBar.View()
}
