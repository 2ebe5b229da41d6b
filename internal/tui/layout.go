package tui

// PaneDimensions holds calculated dimensions for all panes in the TUI layout
type PaneDimensions struct {
	// Left pane (month grid, week columns or day list)
	CalendarWidth  int
	CalendarHeight int

	// Right sidebar (total)
	SidebarWidth  int
	SidebarHeight int

	// Right sidebar (stacked sections)
	DayHeight   int // ~45% of sidebar height
	StatsHeight int // fixed: 7 lines
	ListHeight  int // remainder: upcoming or search results

	// Bottom bars
	TextEntryHeight int // Fixed: 3 lines
	MessageHeight   int // Fixed: 1 line
	StatusHeight    int // Fixed: 1 line
}

// CalculatePaneDimensions computes pane sizes based on terminal dimensions.
// The main area is split 70-30 between the calendar and the sidebar.
func CalculatePaneDimensions(termWidth, termHeight int) PaneDimensions {
	dims := PaneDimensions{
		TextEntryHeight: 3,
		MessageHeight:   1,
		StatusHeight:    1,
	}

	availableHeight := termHeight - dims.TextEntryHeight - dims.MessageHeight - dims.StatusHeight
	if availableHeight < 0 {
		availableHeight = 0
	}
	dims.CalendarHeight = availableHeight
	dims.SidebarHeight = availableHeight

	// Remaining width goes to the sidebar (ensures sum = termWidth)
	dims.CalendarWidth = int(float64(termWidth) * 0.70)
	if dims.CalendarWidth < 0 {
		dims.CalendarWidth = 0
	}
	dims.SidebarWidth = termWidth - dims.CalendarWidth
	if dims.SidebarWidth < 0 {
		dims.SidebarWidth = 0
	}

	dims.DayHeight = int(float64(dims.SidebarHeight) * 0.45)
	dims.StatsHeight = 7 + BorderHeight
	if dims.DayHeight+dims.StatsHeight > dims.SidebarHeight {
		dims.StatsHeight = dims.SidebarHeight - dims.DayHeight
	}
	dims.ListHeight = dims.SidebarHeight - dims.DayHeight - dims.StatsHeight
	if dims.ListHeight < 0 {
		dims.ListHeight = 0
	}

	return dims
}

// CellWidth is the width of one day column in a 7-column grid drawn into
// innerWidth, with one separator column per day.
func CellWidth(innerWidth int) int {
	w := innerWidth/7 - 1
	if w < 3 {
		return 3
	}
	return w
}

// MonthRowHeight splits innerHeight over the header row and weeks rows.
func MonthRowHeight(innerHeight, weeks int) int {
	if weeks <= 0 {
		return 0
	}
	h := (innerHeight - 2) / weeks
	if h < 2 {
		return 2
	}
	return h
}
