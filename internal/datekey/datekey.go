// Package datekey handles the canonical YYYY-MM-DD identity of a civil day.
//
// Keys are fixed width, so plain string comparison orders them
// chronologically. Keys carry no timezone; conversions to time.Time use UTC
// midnight purely as a calendar arithmetic vehicle.
package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const Layout = "2006-01-02"

// Normalize zero-pads the month and day components of a dash-separated
// date. Empty input yields an empty key. Components that are not numeric
// are padded textually and left for Valid to reject.
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	parts := strings.SplitN(raw, "-", 3)
	if len(parts) != 3 {
		return raw
	}

	return parts[0] + "-" + padLeft(parts[1], 2) + "-" + padLeft(parts[2], 2)
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}

// Format builds a key from a year, a zero-based month index and a
// one-based day of month.
func Format(year, monthIndex0, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, monthIndex0+1, day)
}

// FromTime returns the key of t's calendar day in t's own location.
func FromTime(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the key for the local calendar day of now.
func Today(now time.Time) string {
	return FromTime(now.Local())
}

// Parse normalizes raw and converts it to UTC midnight of that day.
func Parse(raw string) (time.Time, error) {
	key := Normalize(raw)
	if key == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}

	t, err := time.Parse(Layout, key)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", raw, err)
	}
	return t, nil
}

// Valid reports whether raw normalizes to an existing calendar day.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// AddDays shifts key by n days.
func AddDays(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, 0, n)), nil
}

// AddMonths shifts key by n calendar months using ordinary calendar
// normalization: 2025-01-31 plus one month is 2025-03-03.
func AddMonths(key string, n int) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, n, 0)), nil
}

// WeekStart returns the Sunday on or before key.
func WeekStart(key string) (string, error) {
	t, err := Parse(key)
	if err != nil {
		return "", err
	}
	return FromTime(t.AddDate(0, 0, -int(t.Weekday()))), nil
}

// Range returns every key from start to end inclusive. An inverted range
// is empty.
func Range(start, end string) ([]string, error) {
	from, err := Parse(start)
	if err != nil {
		return nil, err
	}
	to, err := Parse(end)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		keys = append(keys, FromTime(d))
	}
	return keys, nil
}

// MonthDays returns every key of the month containing key.
func MonthDays(key string) ([]string, error) {
	t, err := Parse(key)
	if err != nil {
		return nil, err
	}
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	return Range(FromTime(first), FromTime(last))
}

// ParseMonth accepts YYYY-MM (month may be unpadded) and returns the key
// of the first day of that month.
func ParseMonth(raw string) (string, error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid month %q: want YYYY-MM", raw)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return "", fmt.Errorf("invalid month %q: %w", raw, err)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return "", fmt.Errorf("invalid month %q", raw)
	}
	return Format(year, month-1, 1), nil
}

// Display renders key for humans, e.g. "Mon, Jan 6 2025".
func Display(key string) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	return t.Format("Mon, Jan 2 2006")
}
