package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	statusKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Bold(true)
)

const (
	normalHints = "q:quit h/l:day j/k:select v:view a:add space:done d:del m/M:move u/^r:undo/redo f:tag ?:help"
	inputHints  = "enter:submit esc:cancel"
)

// StatusBar shows the current date, view, tag filter and key hints.
type StatusBar struct {
	width     int
	date      string
	view      string
	tag       string
	inputMode bool
}

// NewStatusBar creates a new status bar
func NewStatusBar() *StatusBar {
	return &StatusBar{}
}

// SetWidth sets the width of the status bar
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetDate(date string) {
	sb.date = date
}

func (sb *StatusBar) SetView(view string) {
	sb.view = view
}

// SetTag sets the active tag filter. Empty or "all" hides the indicator.
func (sb *StatusBar) SetTag(tag string) {
	sb.tag = tag
}

// SetInputMode swaps the key hints for the text entry ones.
func (sb *StatusBar) SetInputMode(on bool) {
	sb.inputMode = on
}

// View renders the status bar
func (sb *StatusBar) View() string {
	left := sb.date
	if sb.view != "" {
		left = fmt.Sprintf("%s [%s]", left, sb.view)
	}
	if sb.tag != "" && sb.tag != "all" {
		left = fmt.Sprintf("%s #%s", left, sb.tag)
	}

	hints := normalHints
	if sb.inputMode {
		hints = inputHints
	}

	// Truncate if too long
	avail := sb.width - len(left) - 3
	if avail < 0 {
		avail = 0
	}
	if len(hints) > avail {
		if avail > 3 {
			hints = hints[:avail-3] + "..."
		} else {
			hints = ""
		}
	}

	content := statusKeyStyle.Render(left)
	if hints != "" {
		content += statusBarStyle.Render(" " + hints)
	}
	return statusBarStyle.Width(sb.width).Render(content)
}
