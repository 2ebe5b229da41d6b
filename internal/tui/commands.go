package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
	"github.com/MikeBiancalana/planit/internal/storage"
	"github.com/MikeBiancalana/planit/internal/tui/components"
)

// Command Builders
//
// Async work (timers, holiday reloads, watcher events) is returned as
// tea.Cmd. Store mutations run synchronously in Update and only the
// follow-up flash message is a command.

var errReadOnly = errors.New("holidays are read-only")

func tickStats() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// waitForHolidayChange blocks on the watcher channel until the holiday
// file changes. A closed channel ends the loop.
func (m *Model) waitForHolidayChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}

	changes := m.watcher.Changes()
	return func() tea.Msg {
		event, ok := <-changes
		if !ok {
			return nil
		}
		return holidayChangedMsg{path: event.FilePath}
	}
}

// refreshHolidays reloads the holiday source off the UI goroutine.
func (m *Model) refreshHolidays() tea.Cmd {
	svc := m.holidays
	if svc == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()
		return holidaysRefreshedMsg{err: svc.Refresh(ctx)}
	}
}

// flash shows msg until successDuration passes.
func (m *Model) flash(msg string) tea.Cmd {
	m.successMessage = msg
	return tea.Tick(successDuration, func(time.Time) tea.Msg {
		return clearSuccessMsg{}
	})
}

// apply runs a store mutation and refreshes everything derived from the
// store. Failures end up in lastError.
func (m *Model) apply(op string, fn func() (string, error)) tea.Cmd {
	msg, err := fn()
	if err != nil {
		m.logger.Error(op, "error", err, "date", m.currentDate)
		m.lastError = err
		return nil
	}

	m.lastError = nil
	m.refreshSidebar()
	m.clampSelection()
	if msg == "" {
		return nil
	}
	return m.flash(msg)
}

// prevDay navigates to the previous day
func (m *Model) prevDay() {
	m.shiftDays(-1)
}

// nextDay navigates to the next day
func (m *Model) nextDay() {
	m.shiftDays(1)
}

func (m *Model) shiftDays(n int) {
	date, err := datekey.AddDays(m.currentDate, n)
	if err != nil {
		// If current date is corrupted, fall back to today
		date = datekey.Today(m.now())
	}
	m.logger.Debug("tui: navigating", "oldDate", m.currentDate, "newDate", date)
	m.setDate(date)
}

// shiftPeriod moves by one unit of the current view: a month, a week or
// a day.
func (m *Model) shiftPeriod(n int) {
	switch m.viewMode {
	case ViewMonth:
		date, err := datekey.AddMonths(m.currentDate, n)
		if err != nil {
			date = datekey.Today(m.now())
		}
		m.setDate(date)
	case ViewWeek:
		m.shiftDays(7 * n)
	default:
		m.shiftDays(n)
	}
}

func (m *Model) goToday() {
	m.setDate(datekey.Today(m.now()))
}

func (m *Model) setDate(date string) {
	if date != m.currentDate {
		m.selected = 0
	}
	m.currentDate = date
}

func (m *Model) cycleView() {
	m.viewMode = (m.viewMode + 1) % ViewCount
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampSelection()
}

// cycleTag advances the tag filter through "all" and every known tag.
func (m *Model) cycleTag() {
	options := append([]string{calendar.AllTags}, m.tags.AllTags()...)
	next := 0
	for i, tag := range options {
		if tag == m.activeTag {
			next = (i + 1) % len(options)
			break
		}
	}
	m.activeTag = options[next]
	m.selected = 0
	m.refreshSidebar()
}

func (m *Model) toggleTheme() tea.Cmd {
	theme := ThemeLight
	if m.theme == ThemeLight {
		theme = ThemeDark
	}
	m.theme = theme
	m.palette = paletteFor(theme)

	if m.records != nil {
		if err := m.records.Set(storage.KeyTheme, theme); err != nil {
			m.logger.Error("toggleTheme", "error", err)
			m.lastError = err
			return nil
		}
	}
	return m.flash("Theme: " + theme)
}

// editable returns the selected task, failing for empty days and holidays.
func (m *Model) editable() (calendar.Task, error) {
	task, ok := m.SelectedTask()
	if !ok {
		return calendar.Task{}, errors.New("no task selected")
	}
	if task.ReadOnly {
		return calendar.Task{}, errReadOnly
	}
	return task, nil
}

func (m *Model) toggleSelected() tea.Cmd {
	return m.apply("toggleSelected", func() (string, error) {
		task, err := m.editable()
		if err != nil {
			return "", err
		}
		if _, err := m.store.ToggleCompleted(task.ID, !task.Completed); err != nil {
			return "", err
		}
		if task.Completed {
			return "Reopened: " + task.Title, nil
		}
		return "Completed: " + task.Title, nil
	})
}

func (m *Model) deleteTask(id string) tea.Cmd {
	return m.apply("deleteTask", func() (string, error) {
		removed, err := m.store.DeleteTask(id)
		if err != nil {
			return "", err
		}
		if !removed {
			return "", fmt.Errorf("task not found: %s", id)
		}
		return "Task deleted", nil
	})
}

func (m *Model) clearCompleted() tea.Cmd {
	return m.apply("clearCompleted", func() (string, error) {
		n, err := m.store.ClearCompleted()
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Cleared %d completed task(s)", n), nil
	})
}

// moveSelected moves the selected task to date and follows it there.
func (m *Model) moveSelected(id, date string) tea.Cmd {
	return m.apply("moveSelected", func() (string, error) {
		moved, err := m.store.MoveTask(id, date)
		if err != nil {
			return "", err
		}
		if !moved {
			return "", fmt.Errorf("task not found: %s", id)
		}
		m.setDate(date)
		m.selectTask(id)
		return "Moved to " + datekey.Describe(date, m.now()), nil
	})
}

func (m *Model) selectTask(id string) {
	for i, t := range m.DayTasks() {
		if t.ID == id {
			m.selected = i
			return
		}
	}
}

func (m *Model) undo() tea.Cmd {
	return m.apply("undo", func() (string, error) {
		if m.history == nil {
			return "Nothing to undo", nil
		}
		label, ok, err := m.history.Undo()
		if err != nil || !ok {
			return "Nothing to undo", err
		}
		return "Undid: " + label, nil
	})
}

func (m *Model) redo() tea.Cmd {
	return m.apply("redo", func() (string, error) {
		if m.history == nil {
			return "Nothing to redo", nil
		}
		label, ok, err := m.history.Redo()
		if err != nil || !ok {
			return "Nothing to redo", err
		}
		return "Redid: " + label, nil
	})
}

// submitTextEntry acts on the text entry bar according to its mode.
// Values are captured before the bar is reset by the caller.
func (m *Model) submitTextEntry() tea.Cmd {
	input := strings.TrimSpace(m.textEntryBar.GetValue())
	mode := m.textEntryBar.GetMode()
	taskID := m.editTaskID

	switch mode {
	case components.ModeAdd:
		if input == "" {
			return nil
		}
		return m.apply("addTask", func() (string, error) {
			in := calendar.ParseQuickAdd(input, m.currentDate)
			task, _, err := m.store.AddTask(in)
			if err != nil {
				return "", err
			}
			m.selectTask(task.ID)
			return "Added: " + task.Title, nil
		})

	case components.ModeEdit:
		return m.apply("editTask", func() (string, error) {
			existing, ok := m.store.FindByID(taskID)
			if !ok {
				return "", fmt.Errorf("task not found: %s", taskID)
			}
			in := calendar.ParseQuickAdd(input, existing.Date)
			in.Description = existing.Description
			in.Color = existing.Color
			if _, err := m.store.UpdateTask(taskID, in); err != nil {
				return "", err
			}
			return "Updated: " + in.Title, nil
		})

	case components.ModeMove:
		if input == "" {
			return nil
		}
		date, err := datekey.Resolve(input, m.now())
		if err != nil {
			m.lastError = err
			return nil
		}
		return m.moveSelected(taskID, date)

	case components.ModeSearch:
		m.searchQuery = input
		m.searchResults = nil
		m.refreshSidebar()
		return nil
	}

	return nil
}

// quickAddText renders a task back into quick-add syntax for editing.
func quickAddText(t calendar.Task) string {
	parts := []string{t.Title}
	if t.Time != "" {
		parts = append(parts, t.Time)
	}
	for _, tag := range t.Tags {
		parts = append(parts, "#"+tag)
	}
	return strings.Join(parts, " ")
}

func (m *Model) nextDate(date string) (string, error) {
	return datekey.AddDays(date, 1)
}
