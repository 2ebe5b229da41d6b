package datekey

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Resolve turns user input into a key relative to now.
// Supports:
//   - "t" / "today", "tm" / "tomorrow", "y" / "yesterday"
//   - "mon" .. "sun": the next occurrence of that weekday, never today
//   - "+3d", "-2d", "+2w", "+1m": offsets in days, weeks or months
//   - "YYYY-MM-DD" (month and day may be unpadded)
func Resolve(input string, now time.Time) (string, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	today := Today(now)

	switch input {
	case "":
		return "", fmt.Errorf("empty date")
	case "t", "today":
		return today, nil
	case "tm", "tomorrow":
		return AddDays(today, 1)
	case "y", "yesterday":
		return AddDays(today, -1)
	}

	if wd, ok := weekdays[input]; ok {
		return nextWeekday(today, wd)
	}

	if input[0] == '+' || input[0] == '-' {
		return resolveOffset(today, input)
	}

	key := Normalize(input)
	if !Valid(key) {
		return "", fmt.Errorf("invalid date format: %s", input)
	}
	return key, nil
}

func resolveOffset(today, input string) (string, error) {
	if len(input) < 3 {
		return "", fmt.Errorf("invalid offset: %s", input)
	}

	unit := input[len(input)-1]
	n, err := strconv.Atoi(input[:len(input)-1])
	if err != nil {
		return "", fmt.Errorf("invalid offset %s: %w", input, err)
	}

	switch unit {
	case 'd':
		return AddDays(today, n)
	case 'w':
		return AddDays(today, 7*n)
	case 'm':
		return AddMonths(today, n)
	default:
		return "", fmt.Errorf("invalid offset unit %q: want d, w or m", unit)
	}
}

func nextWeekday(today string, target time.Weekday) (string, error) {
	t, err := Parse(today)
	if err != nil {
		return "", err
	}
	days := int(target - t.Weekday())
	if days <= 0 {
		days += 7
	}
	return FromTime(t.AddDate(0, 0, days)), nil
}

// Describe renders key relative to now: "today", "tomorrow", "yesterday",
// a weekday name within the coming week, "in N weeks" up to four weeks
// out, and the plain date beyond that or in the past.
func Describe(key string, now time.Time) string {
	t, err := Parse(key)
	if err != nil {
		return key
	}
	start, _ := Parse(Today(now))
	days := int(t.Sub(start).Hours() / 24)

	switch {
	case days == 0:
		return "today"
	case days == 1:
		return "tomorrow"
	case days == -1:
		return "yesterday"
	case days > 1 && days < 7:
		return t.Weekday().String()
	case days >= 7 && days < 28:
		weeks := days / 7
		if weeks == 1 {
			return "in 1 week"
		}
		return fmt.Sprintf("in %d weeks", weeks)
	default:
		return t.Format("Jan 2, 2006")
	}
}
