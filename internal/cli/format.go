package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatTSV  OutputFormat = "tsv"
	FormatCSV  OutputFormat = "csv"
)

func parseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(s) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "tsv":
		return FormatTSV, nil
	case "csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (supported: text, json, tsv, csv)", s)
	}
}

var (
	dateHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	holidayStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Italic(true)
	doneStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Strikethrough(true)
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// colorSwatch maps task colors to ANSI-256 foregrounds.
var colorSwatch = map[calendar.Color]lipgloss.Color{
	calendar.ColorBlue:   lipgloss.Color("33"),
	calendar.ColorGreen:  lipgloss.Color("34"),
	calendar.ColorRed:    lipgloss.Color("160"),
	calendar.ColorYellow: lipgloss.Color("220"),
	calendar.ColorPurple: lipgloss.Color("135"),
	calendar.ColorOrange: lipgloss.Color("208"),
}

func writeTasks(w io.Writer, format OutputFormat, tasks []calendar.Task) error {
	switch format {
	case FormatJSON:
		return formatTasksJSON(w, tasks)
	case FormatTSV:
		return formatTasksTSV(w, tasks)
	case FormatCSV:
		return formatTasksCSV(w, tasks)
	default:
		return formatTasksText(w, tasks)
	}
}

func formatTasksJSON(w io.Writer, tasks []calendar.Task) error {
	return json.NewEncoder(w).Encode(tasks)
}

func formatTasksTSV(w io.Writer, tasks []calendar.Task) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', tabwriter.TabIndent)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tDONE\tCOLOR\tTAGS\tTITLE")
	for _, t := range tasks {
		tags := "-"
		if len(t.Tags) > 0 {
			tags = strings.Join(t.Tags, ", ")
		}
		timeStr := t.Time
		if timeStr == "" {
			timeStr = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\t%s\t%s\n", t.ID, t.Date, timeStr, t.Completed, t.Color, tags, t.Title)
	}
	return tw.Flush()
}

func formatTasksCSV(w io.Writer, tasks []calendar.Task) error {
	cw := csv.NewWriter(w)
	cw.Write([]string{"ID", "DATE", "TIME", "DONE", "COLOR", "TAGS", "TITLE", "DESCRIPTION"})
	for _, t := range tasks {
		record := []string{t.ID, t.Date, t.Time, fmt.Sprintf("%t", t.Completed), string(t.Color), strings.Join(t.Tags, ","), t.Title, t.Description}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// formatTasksText prints tasks grouped under their date.
func formatTasksText(w io.Writer, tasks []calendar.Task) error {
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No tasks"))
		return nil
	}

	current := ""
	for _, t := range tasks {
		if t.Date != current {
			if current != "" {
				fmt.Fprintln(w)
			}
			current = t.Date
			fmt.Fprintln(w, dateHeaderStyle.Render(datekey.Display(t.Date)))
		}
		fmt.Fprintln(w, "  "+taskLine(t))
	}
	return nil
}

// taskLine renders one task: checkbox, time, title, tags and id.
func taskLine(t calendar.Task) string {
	if t.IsHoliday {
		return holidayStyle.Render("★ " + t.Title)
	}

	box := "[ ]"
	if t.Completed {
		box = "[x]"
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Foreground(colorSwatch[t.Color]).Render(box))
	b.WriteString(" ")
	if t.Time != "" {
		b.WriteString(t.Time + " ")
	}
	if t.Completed {
		b.WriteString(doneStyle.Render(t.Title))
	} else {
		b.WriteString(t.Title)
	}
	for _, tag := range t.Tags {
		b.WriteString(" #" + tag)
	}
	if t.IsRecurring {
		b.WriteString(" ↻")
	}
	b.WriteString(mutedStyle.Render(" (" + t.ID + ")"))
	return b.String()
}
