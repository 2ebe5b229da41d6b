// Package calendar holds the task calendar core: the date-keyed task store,
// recurrence expansion, tag index, statistics and import/export.
package calendar

import (
	"sort"
	"strings"

	"github.com/rs/xid"

	"github.com/MikeBiancalana/planit/internal/datekey"
)

// Color is the display label of a task
type Color string

const (
	ColorBlue   Color = "blue"
	ColorGreen  Color = "green"
	ColorRed    Color = "red"
	ColorYellow Color = "yellow"
	ColorPurple Color = "purple"
	ColorOrange Color = "orange"
)

// Colors lists every accepted color in display order.
var Colors = []Color{ColorBlue, ColorGreen, ColorRed, ColorYellow, ColorPurple, ColorOrange}

// Valid reports whether c is one of Colors.
func (c Color) Valid() bool {
	for _, known := range Colors {
		if c == known {
			return true
		}
	}
	return false
}

// RecurrenceType is the step unit of a recurrence rule
type RecurrenceType string

const (
	RecurDaily   RecurrenceType = "daily"
	RecurWeekly  RecurrenceType = "weekly"
	RecurMonthly RecurrenceType = "monthly"
)

// Recurrence is a rule attached to an origin task and copied onto its
// occurrences. EndDate is inclusive; empty means the engine horizon.
type Recurrence struct {
	Type     RecurrenceType `json:"type"`
	Interval int            `json:"interval"`
	EndDate  string         `json:"endDate,omitempty"`
}

// HolidayIDPrefix prefixes the synthetic id of a holiday entry.
const HolidayIDPrefix = "holiday-"

// Task is a stored calendar entry. The holiday fields are only ever set on
// synthetic read-time entries and are never persisted.
type Task struct {
	ID           string      `json:"id"`
	Title        string      `json:"title"`
	Time         string      `json:"time"`
	Description  string      `json:"description"`
	Color        Color       `json:"color"`
	Completed    bool        `json:"completed"`
	Date         string      `json:"date"`
	Tags         []string    `json:"tags"`
	Recurrence   *Recurrence `json:"recurrence,omitempty"`
	IsRecurring  bool        `json:"isRecurring,omitempty"`
	ParentTaskID string      `json:"parentTaskId,omitempty"`

	IsHoliday   bool   `json:"isHoliday,omitempty"`
	ReadOnly    bool   `json:"readOnly,omitempty"`
	HolidayType string `json:"holidayType,omitempty"`
}

// Clone returns a copy sharing no memory with t.
func (t Task) Clone() Task {
	c := t
	if t.Tags != nil {
		c.Tags = append([]string(nil), t.Tags...)
	}
	if t.Recurrence != nil {
		r := *t.Recurrence
		c.Recurrence = &r
	}
	return c
}

// HasTag reports whether tag is among t's tags.
func (t Task) HasTag(tag string) bool {
	for _, existing := range t.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// Holiday is an external read-only calendar entry.
type Holiday struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Type        string `json:"type"`
}

// Entry converts h into the synthetic task shown for date.
func (h Holiday) Entry(date string) Task {
	return Task{
		ID:          HolidayIDPrefix + date,
		Title:       h.Title,
		Description: h.Description,
		Color:       ColorBlue,
		Date:        date,
		Tags:        []string{},
		IsHoliday:   true,
		ReadOnly:    true,
		HolidayType: h.Type,
	}
}

// Days maps a DateKey to the tasks stored under it.
type Days map[string][]Task

// Clone deep-copies d.
func (d Days) Clone() Days {
	out := make(Days, len(d))
	for date, tasks := range d {
		out[date] = cloneTasks(tasks)
	}
	return out
}

func cloneTasks(tasks []Task) []Task {
	copied := make([]Task, len(tasks))
	for i, t := range tasks {
		copied[i] = t.Clone()
	}
	return copied
}

// Len counts the tasks across all dates.
func (d Days) Len() int {
	n := 0
	for _, tasks := range d {
		n += len(tasks)
	}
	return n
}

// Dates returns the keys of d in lexical order.
func (d Days) Dates() []string {
	dates := make([]string, 0, len(d))
	for date := range d {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// InvalidDates returns the keys of d that do not name a calendar day even
// after normalization, such as 2025-02-30.
func (d Days) InvalidDates() []string {
	var bad []string
	for _, date := range d.Dates() {
		if !datekey.Valid(datekey.Normalize(date)) {
			bad = append(bad, date)
		}
	}
	return bad
}

// TaskInput carries the user-editable fields of a task.
type TaskInput struct {
	Title       string
	Date        string
	Time        string
	Description string
	Color       Color
	Tags        []string
	Recurrence  *Recurrence
}

// Persister is the string-keyed record store the task store writes through.
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// HolidaySource resolves the holiday overlay entry of a day, if any.
type HolidaySource interface {
	HolidayFor(date string) (Holiday, bool)
}

// Recorder is notified right before every user-initiated mutation.
type Recorder interface {
	RecordBeforeMutation(label string)
}

// NewID returns a fresh globally unique task id.
func NewID() string {
	return xid.New().String()
}

// NormalizeTags trims tags and drops empty and duplicate entries, keeping
// first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool)
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
