package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// EntryMode represents the current input mode of the text entry bar
type EntryMode string

const (
	ModeInactive EntryMode = ""
	ModeAdd      EntryMode = "add"
	ModeEdit     EntryMode = "edit"
	ModeMove     EntryMode = "move"
	ModeSearch   EntryMode = "search"
)

var (
	activeStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 1)

	inactiveStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1).
			Foreground(lipgloss.Color("240"))
)

// TextEntryBar is a Bubble Tea component for text input with different modes
type TextEntryBar struct {
	textInput textinput.Model
	mode      EntryMode
	width     int
}

// NewTextEntryBar creates a new TextEntryBar component
func NewTextEntryBar() *TextEntryBar {
	ti := textinput.New()
	ti.Placeholder = ""
	ti.CharLimit = 500

	return &TextEntryBar{
		textInput: ti,
		mode:      ModeInactive,
		width:     80,
	}
}

// Update handles Bubble Tea messages
func (teb *TextEntryBar) Update(msg tea.Msg) (*TextEntryBar, tea.Cmd) {
	// Only process messages when focused
	if !teb.textInput.Focused() {
		return teb, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc {
			teb.Blur()
			return teb, nil
		}
	}

	var cmd tea.Cmd
	teb.textInput, cmd = teb.textInput.Update(msg)
	return teb, cmd
}

// View renders the text entry bar
func (teb *TextEntryBar) View() string {
	if teb.mode == ModeInactive {
		content := "> Press a to add a task (e.g. Standup 09:15 #work)"
		return inactiveStyle.Width(teb.width - 2).Render(content)
	}

	content := "> " + teb.getPromptForMode() + teb.textInput.View()
	return activeStyle.Width(teb.width - 2).Render(content)
}

func (teb *TextEntryBar) getPromptForMode() string {
	switch teb.mode {
	case ModeAdd:
		return "Add task: "
	case ModeEdit:
		return "Edit task: "
	case ModeMove:
		return "Move to: "
	case ModeSearch:
		return "Search: "
	default:
		return ""
	}
}

func (teb *TextEntryBar) placeholderForMode() string {
	switch teb.mode {
	case ModeAdd, ModeEdit:
		return "Title HH:MM #tag"
	case ModeMove:
		return "YYYY-MM-DD, tm, mon, +3d"
	case ModeSearch:
		return "title, tag or time"
	default:
		return ""
	}
}

// SetWidth sets the width of the text entry bar
func (teb *TextEntryBar) SetWidth(width int) {
	teb.width = width

	promptLen := len("> " + teb.getPromptForMode())
	// Account for border (2) and padding (2)
	availableWidth := width - promptLen - 4
	if availableWidth < 10 {
		availableWidth = 10
	}
	teb.textInput.Width = availableWidth
}

// SetMode sets the current entry mode
func (teb *TextEntryBar) SetMode(mode EntryMode) {
	teb.mode = mode

	// Different prompts take different widths
	if teb.width > 0 {
		teb.SetWidth(teb.width)
	}
	teb.textInput.Placeholder = teb.placeholderForMode()
}

// GetMode returns the current entry mode
func (teb *TextEntryBar) GetMode() EntryMode {
	return teb.mode
}

// GetValue returns the current input value
func (teb *TextEntryBar) GetValue() string {
	return teb.textInput.Value()
}

// SetValue prefills the input, e.g. with the task being edited.
func (teb *TextEntryBar) SetValue(v string) {
	teb.textInput.SetValue(v)
	teb.textInput.CursorEnd()
}

// Clear resets the input value
func (teb *TextEntryBar) Clear() {
	teb.textInput.SetValue("")
}

// Focus focuses the text input
func (teb *TextEntryBar) Focus() tea.Cmd {
	return teb.textInput.Focus()
}

// Blur removes focus from the text input
func (teb *TextEntryBar) Blur() {
	teb.textInput.Blur()
}

// IsFocused returns whether the text input is focused
func (teb *TextEntryBar) IsFocused() bool {
	return teb.textInput.Focused()
}

// Reset clears, blurs and deactivates the bar.
func (teb *TextEntryBar) Reset() {
	teb.Clear()
	teb.Blur()
	teb.SetMode(ModeInactive)
}
