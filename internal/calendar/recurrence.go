package calendar

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeBiancalana/planit/internal/datekey"
)

const (
	DefaultHorizonDays    = 365
	DefaultMaxOccurrences = 5000
)

// RecurrenceConfig tunes a RecurrenceEngine. Zero values take the defaults.
type RecurrenceConfig struct {
	// HorizonDays bounds a rule without an end date: origin date plus this
	// many days, inclusive.
	HorizonDays int
	// MaxOccurrences caps a single expansion.
	MaxOccurrences int
	NewID          func() string
	Logger         *slog.Logger
}

// RecurrenceEngine expands a rule into concrete dated occurrences.
type RecurrenceEngine struct {
	horizonDays    int
	maxOccurrences int
	newID          func() string
	logger         *slog.Logger
}

// NewRecurrenceEngine creates an engine from cfg.
func NewRecurrenceEngine(cfg RecurrenceConfig) *RecurrenceEngine {
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = DefaultHorizonDays
	}
	if cfg.MaxOccurrences <= 0 {
		cfg.MaxOccurrences = DefaultMaxOccurrences
	}
	if cfg.NewID == nil {
		cfg.NewID = NewID
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &RecurrenceEngine{
		horizonDays:    cfg.HorizonDays,
		maxOccurrences: cfg.MaxOccurrences,
		newID:          cfg.NewID,
		logger:         cfg.Logger,
	}
}

// ValidateRecurrence checks rule and returns it with defaults applied: an
// interval of 0 means 1 and the end date is normalized.
func ValidateRecurrence(rule Recurrence) (Recurrence, error) {
	switch rule.Type {
	case RecurDaily, RecurWeekly, RecurMonthly:
	default:
		return rule, fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, rule.Type)
	}

	if rule.Interval < 0 {
		return rule, fmt.Errorf("%w: interval must be positive", ErrInvalidRecurrence)
	}
	if rule.Interval == 0 {
		rule.Interval = 1
	}

	if rule.EndDate != "" {
		end := datekey.Normalize(rule.EndDate)
		if !datekey.Valid(end) {
			return rule, fmt.Errorf("%w: end date %q", ErrInvalidRecurrence, rule.EndDate)
		}
		rule.EndDate = end
	}

	return rule, nil
}

// Expand generates the occurrences of rule after origin's own date up to
// and including the end boundary. Each occurrence is a copy of origin with
// a fresh id, its own date and a weak parent reference to origin.
func (e *RecurrenceEngine) Expand(origin Task, rule Recurrence) ([]Task, error) {
	rule, err := ValidateRecurrence(rule)
	if err != nil {
		return nil, err
	}

	start, err := datekey.Parse(origin.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to expand recurrence: %w", err)
	}

	end := start.AddDate(0, 0, e.horizonDays)
	if rule.EndDate != "" {
		end, err = datekey.Parse(rule.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to expand recurrence: %w", err)
		}
	}

	occurrences := make([]Task, 0)
	for current := e.step(start, rule); !current.After(end); current = e.step(current, rule) {
		if len(occurrences) >= e.maxOccurrences {
			e.logger.Warn("Expand", "operation", "occurrence cap reached",
				"task_id", origin.ID, "max", e.maxOccurrences)
			break
		}

		occurrence := origin.Clone()
		occurrence.ID = e.newID()
		occurrence.Date = datekey.FromTime(current)
		occurrence.Completed = false
		occurrence.IsRecurring = true
		occurrence.ParentTaskID = origin.ID
		r := rule
		occurrence.Recurrence = &r
		occurrences = append(occurrences, occurrence)
	}

	e.logger.Debug("Expand", "task_id", origin.ID, "type", rule.Type,
		"interval", rule.Interval, "occurrences", len(occurrences))
	return occurrences, nil
}

// step advances from the previous occurrence, so month-end overflow
// carries forward (Jan 31, Mar 3, Apr 3, ...).
func (e *RecurrenceEngine) step(t time.Time, rule Recurrence) time.Time {
	switch rule.Type {
	case RecurWeekly:
		return t.AddDate(0, 0, 7*rule.Interval)
	case RecurMonthly:
		return t.AddDate(0, rule.Interval, 0)
	default:
		return t.AddDate(0, 0, rule.Interval)
	}
}
