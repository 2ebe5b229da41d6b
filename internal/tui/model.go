package tui

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
	"github.com/MikeBiancalana/planit/internal/history"
	"github.com/MikeBiancalana/planit/internal/holiday"
	"github.com/MikeBiancalana/planit/internal/storage"
	"github.com/MikeBiancalana/planit/internal/tui/components"
)

// ViewMode is the calendar layout drawn in the left pane.
//
// Async Closure Capture Pattern
// ==============================
// tea.Cmd closures run on another goroutine after Update returns. Capture
// every model value a closure needs before returning it:
//
//	svc := m.holidays
//	return func() tea.Msg {
//	    return holidaysRefreshedMsg{err: svc.Refresh(ctx)}
//	}
//
// Store mutations never run inside a tea.Cmd. The store is not safe for
// concurrent use and View reads it, so every mutation happens in Update.
type ViewMode int

const (
	ViewMonth ViewMode = iota
	ViewWeek
	ViewDay
	ViewCount // Keep this last to get the count
)

func (v ViewMode) String() string {
	switch v {
	case ViewMonth:
		return "month"
	case ViewWeek:
		return "week"
	case ViewDay:
		return "day"
	default:
		return "unknown"
	}
}

// Minimum terminal dimensions
const (
	MinTerminalWidth  = 80
	MinTerminalHeight = 24
)

// Border dimensions for lipgloss boxes
const (
	BorderWidth  = 2 // Left + right border (1 char each)
	BorderHeight = 2 // Top + bottom border (1 char each)
)

const (
	statsInterval   = 5 * time.Second
	successDuration = 3 * time.Second
	refreshTimeout  = 30 * time.Second
)

// Records is the key-value store for UI preferences.
type Records interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Config wires the model to the application services.
type Config struct {
	Store    *calendar.Store
	History  *history.Manager
	Tags     *calendar.TagIndex
	Holidays *holiday.Service
	Records  Records
	Logger   *slog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Model represents the main TUI state
type Model struct {
	store    *calendar.Store
	history  *history.Manager
	tags     *calendar.TagIndex
	holidays *holiday.Service
	records  Records
	logger   *slog.Logger
	watcher  *holiday.Watcher
	now      func() time.Time

	currentDate string
	viewMode    ViewMode
	selected    int
	activeTag   string
	theme       string
	palette     Palette
	width       int
	height      int

	// Components
	textEntryBar *components.TextEntryBar
	statusBar    *components.StatusBar

	// Sidebar data, refreshed after every change and on the stats tick
	stats         calendar.Stats
	streak        int
	upcoming      []calendar.Task
	searchQuery   string
	searchResults []calendar.Task

	// State for modes
	helpMode       bool
	confirmMode    bool
	confirmAction  string // "delete" or "clear"
	confirmTaskID  string
	editTaskID     string // task being edited or moved
	lastError      error
	successMessage string

	// Terminal size validation
	terminalTooSmall bool
}

// NewModel creates a new TUI model
func NewModel(cfg Config) *Model {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Tags == nil && cfg.Store != nil {
		cfg.Tags = calendar.NewTagIndex(cfg.Store, calendar.ShowHolidays)
	}

	m := &Model{
		store:        cfg.Store,
		history:      cfg.History,
		tags:         cfg.Tags,
		holidays:     cfg.Holidays,
		records:      cfg.Records,
		logger:       cfg.Logger,
		now:          cfg.Now,
		currentDate:  datekey.Today(cfg.Now()),
		viewMode:     ViewMonth,
		activeTag:    calendar.AllTags,
		theme:        ThemeDark,
		textEntryBar: components.NewTextEntryBar(),
		statusBar:    components.NewStatusBar(),
	}
	m.loadTheme()
	m.refreshSidebar()
	return m
}

// SetWatcher attaches a holiday file watcher; changes trigger a reload.
func (m *Model) SetWatcher(w *holiday.Watcher) {
	m.watcher = w
}

func (m *Model) loadTheme() {
	if m.records == nil {
		m.palette = paletteFor(m.theme)
		return
	}
	theme, ok, err := m.records.Get(storage.KeyTheme)
	if err != nil {
		m.logger.Warn("loadTheme", "error", err)
	}
	if ok && (theme == ThemeLight || theme == ThemeDark) {
		m.theme = theme
	}
	m.palette = paletteFor(m.theme)
}

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(tickStats(), m.waitForHolidayChange())
}

// Update handles messages and updates the model
// This function is a simple dispatcher that routes messages to
// dedicated handler methods in handlers.go and keyboard.go
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg)

	case statsTickMsg:
		return m.handleStatsTick()

	case holidayChangedMsg:
		return m.handleHolidayChanged()

	case holidaysRefreshedMsg:
		return m.handleHolidaysRefreshed(msg)

	case clearSuccessMsg:
		m.successMessage = ""
		return m, nil

	case errMsg:
		return m.handleError(msg)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	default:
		return m, nil
	}
}

// View renders the TUI
func (m *Model) View() string {
	if m.terminalTooSmall {
		return m.terminalTooSmallView()
	}

	if m.store == nil {
		return "Loading..."
	}

	if m.helpMode {
		return m.helpView()
	}

	if m.confirmMode {
		return m.confirmView()
	}

	return m.renderLayout()
}

// DayTasks returns the tasks of the selected date under the active tag.
func (m *Model) DayTasks() []calendar.Task {
	if m.tags == nil {
		return nil
	}
	return m.tags.TasksForDate(m.currentDate, m.activeTag)
}

// SelectedTask returns the highlighted task of the selected date.
func (m *Model) SelectedTask() (calendar.Task, bool) {
	tasks := m.DayTasks()
	if m.selected < 0 || m.selected >= len(tasks) {
		return calendar.Task{}, false
	}
	return tasks[m.selected], true
}

func (m *Model) CurrentDate() string { return m.currentDate }
func (m *Model) ViewMode() ViewMode { return m.viewMode }
func (m *Model) ActiveTag() string { return m.activeTag }
func (m *Model) Theme() string { return m.theme }
func (m *Model) LastError() error { return m.lastError }
func (m *Model) SuccessMessage() string { return m.successMessage }

func (m *Model) clampSelection() {
	n := len(m.DayTasks())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// refreshSidebar recomputes the statistics, streak and upcoming list.
func (m *Model) refreshSidebar() {
	if m.store == nil {
		return
	}
	today := datekey.Today(m.now())
	m.stats = m.store.Stats()
	m.streak = m.store.Streak(today)

	upcoming, err := m.store.Upcoming(today, calendar.UpcomingDays, calendar.UpcomingLimit)
	if err != nil {
		m.logger.Error("refreshSidebar", "error", err)
		upcoming = nil
	}
	m.upcoming = upcoming

	if m.searchQuery != "" {
		m.searchResults = m.tags.Filter(m.activeTag, m.store.Search(m.searchQuery))
	}
}

// terminalTooSmallView renders the message when terminal is too small
func (m *Model) terminalTooSmallView() string {
	title := "Terminal Too Small"
	currentSize := fmt.Sprintf("Current: %dx%d", m.width, m.height)
	requiredSize := fmt.Sprintf("Required: %dx%d or larger", MinTerminalWidth, MinTerminalHeight)

	style := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("62")).
		Padding(1, 2).
		Align(lipgloss.Center, lipgloss.Center)

	content := fmt.Sprintf(
		"%s\n\n%s\n\n%s\n\nResize your terminal to continue.",
		title,
		currentSize,
		requiredSize,
	)

	return style.Render(content)
}

// Message type definitions
type statsTickMsg time.Time

type holidayChangedMsg struct {
	path string
}

type holidaysRefreshedMsg struct {
	err error
}

type errMsg struct {
	err error
}

type clearSuccessMsg struct{}
