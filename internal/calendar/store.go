package calendar

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/MikeBiancalana/planit/internal/datekey"
	"github.com/MikeBiancalana/planit/internal/storage"
)

// Store owns the DateKey to task bucket mapping. Every mutation records a
// history snapshot first and writes the whole mapping through to the
// persister before returning.
//
// Invariants: no bucket is empty, every task's Date equals its bucket key,
// and ids are unique across all buckets.
type Store struct {
	persist      Persister
	key          string
	holidays     HolidaySource
	recorder     Recorder
	engine       *RecurrenceEngine
	newID        func() string
	defaultColor Color
	logger       *slog.Logger

	days Days
	// unreadable holds stored buckets whose keys are not calendar dates.
	// They stay out of every read path but are written back unchanged.
	unreadable Days
}

// Option configures a Store.
type Option func(*Store)

func WithHolidays(h HolidaySource) Option {
	return func(s *Store) { s.holidays = h }
}

func WithRecorder(r Recorder) Option {
	return func(s *Store) { s.recorder = r }
}

func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

func WithRecurrenceEngine(e *RecurrenceEngine) Option {
	return func(s *Store) { s.engine = e }
}

func WithDefaultColor(c Color) Option {
	return func(s *Store) { s.defaultColor = c }
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithRecordKey overrides the persistence record the tasks live in.
func WithRecordKey(key string) Option {
	return func(s *Store) { s.key = key }
}

// NewStore creates an empty store writing through persist. Call Load to
// read the persisted state.
func NewStore(persist Persister, opts ...Option) *Store {
	s := &Store{
		persist:      persist,
		key:          storage.KeyTasks,
		newID:        NewID,
		defaultColor: ColorBlue,
		days:         make(Days),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}
	if !s.defaultColor.Valid() {
		s.defaultColor = ColorBlue
	}
	if s.engine == nil {
		s.engine = NewRecurrenceEngine(RecurrenceConfig{NewID: s.newID, Logger: s.logger})
	}
	return s
}

// SetRecorder attaches the history recorder after construction; the
// recorder usually needs the store itself as its snapshot source.
func (s *Store) SetRecorder(r Recorder) {
	s.recorder = r
}

// Load reads the persisted mapping and normalizes it. When normalization
// changed anything the normalized form is written back immediately.
func (s *Store) Load() error {
	raw, ok, err := s.persist.Get(s.key)
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		s.days = make(Days)
		return nil
	}

	var stored Days
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		s.logger.Error("Load", "error", err, "key", s.key)
		return fmt.Errorf("failed to decode tasks: %w", err)
	}

	days, unreadable, changed := s.sanitize(stored)
	s.days = days
	s.unreadable = unreadable
	if len(unreadable) > 0 {
		s.logger.Warn("Load", "operation", "keeping buckets with invalid dates aside",
			"dates", unreadable.Dates(), "tasks", unreadable.Len())
	}
	if changed {
		s.logger.Info("Load", "operation", "normalized stored dates", "dates", len(days))
		if err := s.save(); err != nil {
			return err
		}
	}
	return nil
}

// sanitize normalizes keys, merges buckets whose keys collide after
// normalization, syncs date fields, repairs missing or duplicate ids and
// drops empty buckets. Buckets whose keys are not dates are returned
// separately and untouched.
func (s *Store) sanitize(in Days) (Days, Days, bool) {
	rawKeys := make([]string, 0, len(in))
	for k := range in {
		rawKeys = append(rawKeys, k)
	}
	sort.Strings(rawKeys)

	out := make(Days)
	var unreadable Days
	seen := make(map[string]bool)
	changed := false
	for _, rawKey := range rawKeys {
		key := datekey.Normalize(rawKey)
		if !datekey.Valid(key) {
			if unreadable == nil {
				unreadable = make(Days)
			}
			unreadable[rawKey] = in[rawKey]
			continue
		}
		if key != rawKey {
			changed = true
		}

		for _, t := range in[rawKey] {
			if t.Date != key {
				t.Date = key
				changed = true
			}
			if t.ID == "" || seen[t.ID] {
				t.ID = s.newID()
				changed = true
			}
			if t.Tags == nil {
				t.Tags = []string{}
			}
			if t.Color == "" {
				t.Color = s.defaultColor
				changed = true
			}
			t.IsHoliday, t.ReadOnly, t.HolidayType = false, false, ""
			seen[t.ID] = true
			out[key] = append(out[key], t)
		}
		if len(in[rawKey]) == 0 {
			changed = true
		}
	}
	return out, unreadable, changed
}

func (s *Store) save() error {
	record := s.days
	if len(s.unreadable) > 0 {
		record = make(Days, len(s.days)+len(s.unreadable))
		for k, v := range s.unreadable {
			record[k] = v
		}
		for k, v := range s.days {
			record[k] = v
		}
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode tasks: %w", err)
	}
	if err := s.persist.Set(s.key, string(data)); err != nil {
		s.logger.Error("save", "error", err, "key", s.key)
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	return nil
}

func (s *Store) record(label string) {
	if s.recorder != nil {
		s.recorder.RecordBeforeMutation(label)
	}
}

// validate checks in and returns it normalized: trimmed title, padded date,
// default color, de-duplicated tags and a defaulted recurrence rule.
func (s *Store) validate(in TaskInput) (TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, ErrEmptyTitle
	}

	date, err := validateDate(in.Date)
	if err != nil {
		return in, err
	}
	in.Date = date

	in.Time = strings.TrimSpace(in.Time)
	if in.Time != "" && !ValidTime(in.Time) {
		return in, fmt.Errorf("%w: %q", ErrInvalidTime, in.Time)
	}

	if in.Color == "" {
		in.Color = s.defaultColor
	}
	if !in.Color.Valid() {
		return in, fmt.Errorf("%w: %q", ErrInvalidColor, in.Color)
	}

	in.Description = strings.TrimSpace(in.Description)
	in.Tags = NormalizeTags(in.Tags)

	if in.Recurrence != nil {
		rule, err := ValidateRecurrence(*in.Recurrence)
		if err != nil {
			return in, err
		}
		in.Recurrence = &rule
	}
	return in, nil
}

func validateDate(raw string) (string, error) {
	date := datekey.Normalize(raw)
	if date == "" {
		return "", ErrMissingDate
	}
	if !datekey.Valid(date) {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return date, nil
}

// ValidTime reports whether v is a 24-hour HH:MM time.
func ValidTime(v string) bool {
	if len(v) != 5 || v[2] != ':' {
		return false
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}

// AddTask creates a task under in.Date. When in carries a recurrence rule
// the task becomes an origin and its occurrences are materialized in the
// same mutation. It returns the origin and the generated occurrences.
func (s *Store) AddTask(in TaskInput) (Task, []Task, error) {
	in, err := s.validate(in)
	if err != nil {
		return Task{}, nil, err
	}

	s.record("Add task")

	task := Task{
		ID:          s.newID(),
		Title:       in.Title,
		Time:        in.Time,
		Description: in.Description,
		Color:       in.Color,
		Date:        in.Date,
		Tags:        in.Tags,
		Recurrence:  in.Recurrence,
		IsRecurring: in.Recurrence != nil,
	}
	s.days[task.Date] = append(s.days[task.Date], task)

	var occurrences []Task
	if task.Recurrence != nil {
		occurrences, err = s.engine.Expand(task, *task.Recurrence)
		if err != nil {
			return Task{}, nil, err
		}
		s.materialize(occurrences)
	}

	s.logger.Debug("AddTask", "task_id", task.ID, "date", task.Date, "occurrences", len(occurrences))
	if err := s.save(); err != nil {
		return task.Clone(), occurrences, err
	}
	return task.Clone(), occurrences, nil
}

// Materialize inserts already generated tasks as one undoable mutation.
func (s *Store) Materialize(tasks []Task) error {
	if len(tasks) == 0 {
		return nil
	}
	for _, t := range tasks {
		if _, err := validateDate(t.Date); err != nil {
			return err
		}
	}

	s.record("Add recurring tasks")
	s.materialize(tasks)
	return s.save()
}

func (s *Store) materialize(tasks []Task) {
	for _, t := range tasks {
		t = t.Clone()
		t.Date = datekey.Normalize(t.Date)
		if _, _, exists := s.locate(t.ID); t.ID == "" || exists {
			t.ID = s.newID()
		}
		if t.Tags == nil {
			t.Tags = []string{}
		}
		s.days[t.Date] = append(s.days[t.Date], t)
	}
}

// UpdateTask replaces the editable fields of task id, moving it when the
// date changed. Completion state, lineage and an existing rule are kept.
// A rule added to a task that had none is expanded like on creation.
// Unknown and holiday ids are a no-op.
func (s *Store) UpdateTask(id string, in TaskInput) (bool, error) {
	date, idx, ok := s.locate(id)
	if !ok {
		return false, nil
	}

	in, err := s.validate(in)
	if err != nil {
		return false, err
	}

	s.record("Edit task")

	old := s.days[date][idx]
	updated := Task{
		ID:           old.ID,
		Title:        in.Title,
		Time:         in.Time,
		Description:  in.Description,
		Color:        in.Color,
		Completed:    old.Completed,
		Date:         in.Date,
		Tags:         in.Tags,
		Recurrence:   old.Recurrence,
		IsRecurring:  old.IsRecurring,
		ParentTaskID: old.ParentTaskID,
	}

	expand := old.Recurrence == nil && in.Recurrence != nil
	if expand {
		updated.Recurrence = in.Recurrence
		updated.IsRecurring = true
	}

	if updated.Date == date {
		s.days[date][idx] = updated
	} else {
		s.removeAt(date, idx)
		s.days[updated.Date] = append(s.days[updated.Date], updated)
	}

	if expand {
		occurrences, err := s.engine.Expand(updated, *updated.Recurrence)
		if err != nil {
			return true, err
		}
		s.materialize(occurrences)
	}

	s.logger.Debug("UpdateTask", "task_id", id, "from", date, "to", updated.Date)
	return true, s.save()
}

// DeleteTask removes task id. Unknown and holiday ids are a no-op.
// Occurrences of a deleted origin are left alone.
func (s *Store) DeleteTask(id string) (bool, error) {
	date, idx, ok := s.locate(id)
	if !ok {
		return false, nil
	}

	s.record("Delete task")
	s.removeAt(date, idx)

	s.logger.Debug("DeleteTask", "task_id", id, "date", date)
	return true, s.save()
}

// ToggleCompleted sets the completed flag of task id. Setting the value it
// already has changes nothing and records nothing.
func (s *Store) ToggleCompleted(id string, value bool) (bool, error) {
	date, idx, ok := s.locate(id)
	if !ok || s.days[date][idx].Completed == value {
		return false, nil
	}

	if value {
		s.record("Complete task")
	} else {
		s.record("Uncomplete task")
	}
	s.days[date][idx].Completed = value

	return true, s.save()
}

// MoveTask relocates task id to newDate. Moving to the current date,
// unknown ids and holiday ids are a no-op.
func (s *Store) MoveTask(id, newDate string) (bool, error) {
	target, err := validateDate(newDate)
	if err != nil {
		return false, err
	}

	date, idx, ok := s.locate(id)
	if !ok || date == target {
		return false, nil
	}

	s.record("Move task")

	task := s.days[date][idx]
	s.removeAt(date, idx)
	task.Date = target
	s.days[target] = append(s.days[target], task)

	s.logger.Debug("MoveTask", "task_id", id, "from", date, "to", target)
	return true, s.save()
}

// ClearCompleted removes every completed task and returns how many went.
func (s *Store) ClearCompleted() (int, error) {
	count := 0
	for _, tasks := range s.days {
		for _, t := range tasks {
			if t.Completed {
				count++
			}
		}
	}
	if count == 0 {
		return 0, nil
	}

	s.record("Clear completed")
	for date, tasks := range s.days {
		kept := tasks[:0]
		for _, t := range tasks {
			if !t.Completed {
				kept = append(kept, t)
			}
		}
		if len(kept) == 0 {
			delete(s.days, date)
		} else {
			s.days[date] = kept
		}
	}

	s.logger.Info("ClearCompleted", "removed", count)
	return count, s.save()
}

// FindByID resolves a stored task or a synthetic holiday id.
func (s *Store) FindByID(id string) (Task, bool) {
	if strings.HasPrefix(id, HolidayIDPrefix) {
		date := strings.TrimPrefix(id, HolidayIDPrefix)
		if s.holidays == nil {
			return Task{}, false
		}
		h, ok := s.holidays.HolidayFor(date)
		if !ok {
			return Task{}, false
		}
		return h.Entry(date), true
	}

	date, idx, ok := s.locate(id)
	if !ok {
		return Task{}, false
	}
	return s.days[date][idx].Clone(), true
}

// GetTasksForDate returns the day's tasks plus its holiday entry in display
// order: holiday first, then timed tasks by HH:MM, then untimed tasks.
func (s *Store) GetTasksForDate(date string) []Task {
	date = datekey.Normalize(date)

	tasks := make([]Task, 0, len(s.days[date])+1)
	if s.holidays != nil {
		if h, ok := s.holidays.HolidayFor(date); ok {
			tasks = append(tasks, h.Entry(date))
		}
	}
	tasks = append(tasks, cloneTasks(s.days[date])...)

	SortForDisplay(tasks)
	return tasks
}

// SortForDisplay orders tasks in place, keeping insertion order for ties.
func SortForDisplay(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		ri, rj := displayRank(tasks[i]), displayRank(tasks[j])
		if ri != rj {
			return ri < rj
		}
		if ri == 1 {
			return tasks[i].Time < tasks[j].Time
		}
		return false
	})
}

func displayRank(t Task) int {
	switch {
	case t.IsHoliday && t.Time == "":
		return 0
	case t.Time != "":
		return 1
	default:
		return 2
	}
}

// Snapshot returns a deep copy of the stored mapping. Holidays are never
// part of it.
func (s *Store) Snapshot() Days {
	return s.days.Clone()
}

// Restore replaces the whole mapping with days and persists it without
// recording history; history itself calls this. Keys that are not dates
// are rejected with ErrInvalidDate and nothing changes.
func (s *Store) Restore(days Days) error {
	if bad := days.InvalidDates(); len(bad) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidDate, strings.Join(bad, ", "))
	}
	clean, _, _ := s.sanitize(days.Clone())
	s.days = clean
	return s.save()
}

// Import replaces the whole mapping as one undoable mutation. A mapping
// with a key that is not a calendar date is rejected as a whole.
func (s *Store) Import(days Days) error {
	if bad := days.InvalidDates(); len(bad) > 0 {
		return fmt.Errorf("%w: not a calendar date: %s", ErrMalformedImport, strings.Join(bad, ", "))
	}
	s.record("Import tasks")
	if err := s.Restore(days); err != nil {
		return err
	}
	s.logger.Info("Import", "dates", len(s.days), "tasks", s.days.Len())
	return nil
}

// Dates returns the stored keys in chronological order.
func (s *Store) Dates() []string {
	dates := make([]string, 0, len(s.days))
	for d := range s.days {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}

// All returns every stored task by date, then display order.
func (s *Store) All() []Task {
	all := make([]Task, 0, s.days.Len())
	for _, date := range s.Dates() {
		day := cloneTasks(s.days[date])
		SortForDisplay(day)
		all = append(all, day...)
	}
	return all
}

// Len counts the stored tasks.
func (s *Store) Len() int {
	return s.days.Len()
}

func (s *Store) locate(id string) (string, int, bool) {
	if id == "" || strings.HasPrefix(id, HolidayIDPrefix) {
		return "", 0, false
	}
	for date, tasks := range s.days {
		for i, t := range tasks {
			if t.ID == id {
				return date, i, true
			}
		}
	}
	return "", 0, false
}

// removeAt deletes one task, pruning the bucket when it empties.
func (s *Store) removeAt(date string, idx int) {
	tasks := s.days[date]
	tasks = append(tasks[:idx:idx], tasks[idx+1:]...)
	if len(tasks) == 0 {
		delete(s.days, date)
		return
	}
	s.days[date] = tasks
}
