package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// handleWindowSize handles terminal resize events
func (m *Model) handleWindowSize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Check if terminal meets minimum dimensions
	m.terminalTooSmall = msg.Width < MinTerminalWidth || msg.Height < MinTerminalHeight

	m.statusBar.SetWidth(msg.Width)
	m.textEntryBar.SetWidth(msg.Width)
	return m, nil
}

// handleStatsTick refreshes the sidebar so "today" and the streak follow
// the clock, then schedules the next tick.
func (m *Model) handleStatsTick() (tea.Model, tea.Cmd) {
	m.refreshSidebar()
	return m, tickStats()
}

// handleHolidayChanged reloads holidays and keeps listening.
func (m *Model) handleHolidayChanged() (tea.Model, tea.Cmd) {
	m.logger.Debug("tui: holiday file changed")
	return m, tea.Batch(m.refreshHolidays(), m.waitForHolidayChange())
}

// handleHolidaysRefreshed reports the outcome of a reload. On failure the
// overlay keeps its previous data.
func (m *Model) handleHolidaysRefreshed(msg holidaysRefreshedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.lastError = msg.err
		return m, nil
	}
	m.refreshSidebar()
	m.clampSelection()
	return m, m.flash("Holidays reloaded")
}

// handleError handles error messages
func (m *Model) handleError(msg errMsg) (tea.Model, tea.Cmd) {
	m.lastError = msg.err
	return m, nil
}
