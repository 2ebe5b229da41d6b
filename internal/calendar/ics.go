package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/MikeBiancalana/planit/internal/datekey"
)

const (
	icsProductID = "-//planit//task calendar//EN"

	propRelatedTo = ical.ComponentProperty("RELATED-TO")
	propRRule     = ical.ComponentProperty("X-PLANIT-RRULE")
	propCompleted = ical.ComponentProperty("X-PLANIT-COMPLETED")
	propColor     = ical.ComponentProperty("X-PLANIT-COLOR")
)

// ExportICS writes every stored task as a VEVENT. Untimed tasks become
// all-day events, timed ones last an hour in local time. Occurrences point
// at their origin with RELATED-TO; origins carry their rule as RRULE text.
// The rule is not emitted as a real RRULE because the occurrences are
// already exported as separate events.
func (s *Store) ExportICS(w io.Writer, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, t := range s.All() {
		day, err := datekey.Parse(t.Date)
		if err != nil {
			return fmt.Errorf("failed to export task %s: %w", t.ID, err)
		}

		event := cal.AddEvent(t.ID)
		event.SetDtStampTime(stamp)
		event.SetSummary(t.Title)
		if t.Description != "" {
			event.SetDescription(t.Description)
		}

		if start, ok := taskStart(day, t.Time); ok {
			event.SetStartAt(start)
			event.SetEndAt(start.Add(time.Hour))
		} else {
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		if len(t.Tags) > 0 {
			event.SetProperty(ical.ComponentPropertyCategories, strings.Join(t.Tags, ","))
		}
		event.SetProperty(propColor, string(t.Color))
		if t.Completed {
			event.SetProperty(propCompleted, "TRUE")
		}
		if t.ParentTaskID != "" {
			event.SetProperty(propRelatedTo, t.ParentTaskID)
		} else if t.Recurrence != nil {
			rule, err := RRuleText(*t.Recurrence)
			if err != nil {
				return fmt.Errorf("failed to export task %s: %w", t.ID, err)
			}
			event.SetProperty(propRRule, rule)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("failed to write calendar: %w", err)
	}
	return nil
}

func taskStart(day time.Time, hhmm string) (time.Time, bool) {
	if hhmm == "" {
		return time.Time{}, false
	}
	clock, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.Local), true
}

// RRuleText renders rule in RFC 5545 RRULE syntax, e.g.
// "FREQ=WEEKLY;INTERVAL=2;UNTIL=20250301T000000Z".
func RRuleText(rule Recurrence) (string, error) {
	rule, err := ValidateRecurrence(rule)
	if err != nil {
		return "", err
	}

	opt := rrule.ROption{Interval: rule.Interval}
	switch rule.Type {
	case RecurDaily:
		opt.Freq = rrule.DAILY
	case RecurWeekly:
		opt.Freq = rrule.WEEKLY
	case RecurMonthly:
		opt.Freq = rrule.MONTHLY
	}
	if rule.EndDate != "" {
		until, err := datekey.Parse(rule.EndDate)
		if err != nil {
			return "", err
		}
		opt.Until = until
	}
	return opt.RRuleString(), nil
}
