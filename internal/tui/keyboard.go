package tui

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/MikeBiancalana/planit/internal/tui/components"
)

// Keyboard Handlers
//
// handleKeyPress routes to a handler for the current state: text entry,
// help, confirmation or normal mode.

// handleKeyPress is the main keyboard input dispatcher
func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.textEntryBar != nil && m.textEntryBar.IsFocused() {
		return m.handleTextEntryKeys(msg)
	}

	if m.confirmMode {
		return m.handleConfirmKeys(msg)
	}

	if m.helpMode {
		switch msg.String() {
		case "?", "esc", "q":
			m.helpMode = false
		case "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	}

	return m.handleNormalModeKeys(msg)
}

// handleTextEntryKeys handles keyboard input when text entry bar is focused
func (m *Model) handleTextEntryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := m.submitTextEntry()
		m.resetTextEntry()
		return m, cmd

	case "esc":
		m.resetTextEntry()
		return m, nil

	default:
		var cmd tea.Cmd
		m.textEntryBar, cmd = m.textEntryBar.Update(msg)
		return m, cmd
	}
}

func (m *Model) resetTextEntry() {
	m.textEntryBar.Reset()
	m.editTaskID = ""
	m.statusBar.SetInputMode(false)
}

// startTextEntry opens the text entry bar in mode, prefilled with value.
func (m *Model) startTextEntry(mode components.EntryMode, value string) tea.Cmd {
	m.lastError = nil
	m.textEntryBar.SetMode(mode)
	if value != "" {
		m.textEntryBar.SetValue(value)
	}
	m.statusBar.SetInputMode(true)
	return m.textEntryBar.Focus()
}

// handleConfirmKeys handles keyboard input in confirmation mode
func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		action, id := m.confirmAction, m.confirmTaskID
		m.exitConfirm()
		if action == "clear" {
			return m, m.clearCompleted()
		}
		return m, m.deleteTask(id)

	case "n", "N", "esc":
		m.logger.Debug("tui: cancelled confirmation", "action", m.confirmAction)
		m.exitConfirm()
		return m, nil
	}

	// Ignore other keys in confirm mode
	return m, nil
}

func (m *Model) exitConfirm() {
	m.confirmMode = false
	m.confirmAction = ""
	m.confirmTaskID = ""
}

// handleNormalModeKeys handles keyboard input in normal mode
func (m *Model) handleNormalModeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "?":
		m.helpMode = true
		return m, nil

	case "h", "left":
		m.prevDay()
	case "l", "right":
		m.nextDay()
	case "K":
		m.shiftDays(-7)
	case "J":
		m.shiftDays(7)
	case "H", "pgup":
		m.shiftPeriod(-1)
	case "L", "pgdown":
		m.shiftPeriod(1)
	case "t":
		m.goToday()
	case "v":
		m.cycleView()

	case "j", "down":
		m.moveSelection(1)
	case "k", "up":
		m.moveSelection(-1)

	case " ", "x":
		return m, m.toggleSelected()

	case "a":
		return m, m.startTextEntry(components.ModeAdd, "")

	case "e":
		task, err := m.editable()
		if err != nil {
			m.lastError = err
			return m, nil
		}
		m.editTaskID = task.ID
		return m, m.startTextEntry(components.ModeEdit, quickAddText(task))

	case "d":
		task, err := m.editable()
		if err != nil {
			m.lastError = err
			return m, nil
		}
		m.confirmMode = true
		m.confirmAction = "delete"
		m.confirmTaskID = task.ID
		return m, nil

	case "c":
		if m.stats.Completed == 0 {
			m.lastError = errors.New("no completed tasks")
			return m, nil
		}
		m.confirmMode = true
		m.confirmAction = "clear"
		return m, nil

	case "m":
		task, err := m.editable()
		if err != nil {
			m.lastError = err
			return m, nil
		}
		next, err := m.nextDate(task.Date)
		if err != nil {
			m.lastError = err
			return m, nil
		}
		return m, m.moveSelected(task.ID, next)

	case "M":
		task, err := m.editable()
		if err != nil {
			m.lastError = err
			return m, nil
		}
		m.editTaskID = task.ID
		return m, m.startTextEntry(components.ModeMove, "")

	case "u":
		return m, m.undo()
	case "ctrl+r":
		return m, m.redo()

	case "f":
		m.cycleTag()

	case "/":
		return m, m.startTextEntry(components.ModeSearch, m.searchQuery)

	case "esc":
		m.searchQuery = ""
		m.searchResults = nil
		m.lastError = nil

	case "T":
		return m, m.toggleTheme()

	case "r":
		return m, m.refreshHolidays()
	}

	return m, nil
}
