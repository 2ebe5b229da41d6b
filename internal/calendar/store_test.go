package calendar

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MikeBiancalana/planit/internal/storage"
)

type holidayMap map[string]Holiday

func (m holidayMap) HolidayFor(date string) (Holiday, bool) {
	h, ok := m[date]
	return h, ok
}

type labelRecorder struct {
	labels []string
}

func (r *labelRecorder) RecordBeforeMutation(label string) {
	r.labels = append(r.labels, label)
}

func setupKV(t *testing.T) *storage.KV {
	t.Helper()
	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return storage.NewKV(db, nil)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func setupStore(t *testing.T, opts ...Option) (*Store, *storage.KV) {
	t.Helper()
	kv := setupKV(t)
	store := NewStore(kv, append([]Option{WithIDGenerator(sequentialIDs())}, opts...)...)
	require.NoError(t, store.Load())
	return store, kv
}

func assertBucketInvariant(t *testing.T, s *Store) {
	t.Helper()
	ids := make(map[string]bool)
	for date, tasks := range s.Snapshot() {
		assert.NotEmpty(t, tasks, "bucket %s should not be empty", date)
		for _, task := range tasks {
			assert.Equal(t, date, task.Date)
			assert.False(t, ids[task.ID], "duplicate id %s", task.ID)
			ids[task.ID] = true
		}
	}
}

func TestAddTask_Validation(t *testing.T) {
	store, kv := setupStore(t)

	tests := []struct {
		name  string
		input TaskInput
		want  error
	}{
		{"empty title", TaskInput{Title: "   ", Date: "2025-01-01"}, ErrEmptyTitle},
		{"missing date", TaskInput{Title: "x"}, ErrMissingDate},
		{"bad date", TaskInput{Title: "x", Date: "2025-02-30"}, ErrInvalidDate},
		{"bad time", TaskInput{Title: "x", Date: "2025-01-01", Time: "25:00"}, ErrInvalidTime},
		{"short time", TaskInput{Title: "x", Date: "2025-01-01", Time: "9:00"}, ErrInvalidTime},
		{"bad color", TaskInput{Title: "x", Date: "2025-01-01", Color: "pink"}, ErrInvalidColor},
		{"bad rule", TaskInput{Title: "x", Date: "2025-01-01", Recurrence: &Recurrence{Type: "yearly"}}, ErrInvalidRecurrence},
		{"negative interval", TaskInput{Title: "x", Date: "2025-01-01", Recurrence: &Recurrence{Type: RecurDaily, Interval: -1}}, ErrInvalidRecurrence},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := store.AddTask(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	assert.Equal(t, 0, store.Len())
	_, ok, err := kv.Get(storage.KeyTasks)
	require.NoError(t, err)
	assert.False(t, ok, "rejected input must not persist")
}

func TestAddTask_Defaults(t *testing.T) {
	store, _ := setupStore(t)

	task, occurrences, err := store.AddTask(TaskInput{
		Title: "  Write report ",
		Date:  "2025-3-7",
		Tags:  []string{"work", " work", "", "docs"},
	})
	require.NoError(t, err)
	assert.Empty(t, occurrences)

	assert.Equal(t, "task-1", task.ID)
	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, "2025-03-07", task.Date)
	assert.Equal(t, ColorBlue, task.Color)
	assert.Equal(t, []string{"work", "docs"}, task.Tags)
	assert.False(t, task.Completed)
	assert.False(t, task.IsRecurring)
}

func TestGetTasksForDate_SortOrder(t *testing.T) {
	holidays := holidayMap{"2025-01-01": {Title: "New Year", Type: "public"}}
	store, _ := setupStore(t, WithHolidays(holidays))

	for _, in := range []TaskInput{
		{Title: "untimed", Date: "2025-01-01"},
		{Title: "afternoon", Date: "2025-01-01", Time: "14:30"},
		{Title: "morning", Date: "2025-01-01", Time: "09:00"},
	} {
		_, _, err := store.AddTask(in)
		require.NoError(t, err)
	}

	tasks := store.GetTasksForDate("2025-01-01")
	require.Len(t, tasks, 4)
	assert.Equal(t, "New Year", tasks[0].Title)
	assert.True(t, tasks[0].IsHoliday)
	assert.True(t, tasks[0].ReadOnly)
	assert.Equal(t, "holiday-2025-01-01", tasks[0].ID)
	assert.Equal(t, "public", tasks[0].HolidayType)
	assert.Equal(t, "morning", tasks[1].Title)
	assert.Equal(t, "afternoon", tasks[2].Title)
	assert.Equal(t, "untimed", tasks[3].Title)
}

func TestGetTasksForDate_UntimedKeepInsertionOrder(t *testing.T) {
	store, _ := setupStore(t)
	for _, title := range []string{"first", "second", "third"} {
		_, _, err := store.AddTask(TaskInput{Title: title, Date: "2025-01-02"})
		require.NoError(t, err)
	}

	tasks := store.GetTasksForDate("2025-1-2")
	require.Len(t, tasks, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{tasks[0].Title, tasks[1].Title, tasks[2].Title})
}

func TestGetTasksForDate_ReturnsCopies(t *testing.T) {
	store, _ := setupStore(t)
	_, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-02", Tags: []string{"x"}})
	require.NoError(t, err)

	tasks := store.GetTasksForDate("2025-01-02")
	tasks[0].Title = "mutated"
	tasks[0].Tags[0] = "mutated"

	again := store.GetTasksForDate("2025-01-02")
	assert.Equal(t, "a", again[0].Title)
	assert.Equal(t, []string{"x"}, again[0].Tags)
}

func TestUpdateTask(t *testing.T) {
	store, _ := setupStore(t)
	task, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-02", Time: "10:00"})
	require.NoError(t, err)
	_, err = store.ToggleCompleted(task.ID, true)
	require.NoError(t, err)

	t.Run("same date edits in place and keeps completion", func(t *testing.T) {
		changed, err := store.UpdateTask(task.ID, TaskInput{Title: "b", Date: "2025-01-02", Color: ColorRed})
		require.NoError(t, err)
		assert.True(t, changed)

		got, ok := store.FindByID(task.ID)
		require.True(t, ok)
		assert.Equal(t, "b", got.Title)
		assert.Equal(t, ColorRed, got.Color)
		assert.Empty(t, got.Time)
		assert.True(t, got.Completed)
	})

	t.Run("date change moves and prunes", func(t *testing.T) {
		changed, err := store.UpdateTask(task.ID, TaskInput{Title: "b", Date: "2025-01-09"})
		require.NoError(t, err)
		assert.True(t, changed)

		assert.Empty(t, store.GetTasksForDate("2025-01-02"))
		assert.Equal(t, []string{"2025-01-09"}, store.Dates())
		assertBucketInvariant(t, store)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		changed, err := store.UpdateTask("missing", TaskInput{Title: "z", Date: "2025-01-01"})
		require.NoError(t, err)
		assert.False(t, changed)
	})

	t.Run("invalid input on a known id is rejected", func(t *testing.T) {
		changed, err := store.UpdateTask(task.ID, TaskInput{Title: "", Date: "2025-01-01"})
		assert.ErrorIs(t, err, ErrEmptyTitle)
		assert.False(t, changed)
	})

	t.Run("unknown or holiday id ignores invalid input", func(t *testing.T) {
		changed, err := store.UpdateTask("missing", TaskInput{Title: ""})
		require.NoError(t, err)
		assert.False(t, changed)

		changed, err = store.UpdateTask("holiday-2025-01-01", TaskInput{Title: "", Date: "bad"})
		require.NoError(t, err)
		assert.False(t, changed)
	})
}

func TestUpdateTask_AddingRuleExpands(t *testing.T) {
	store, _ := setupStore(t)
	task, _, err := store.AddTask(TaskInput{Title: "standup", Date: "2025-01-01"})
	require.NoError(t, err)

	changed, err := store.UpdateTask(task.ID, TaskInput{
		Title:      "standup",
		Date:       "2025-01-01",
		Recurrence: &Recurrence{Type: RecurDaily, Interval: 1, EndDate: "2025-01-03"},
	})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 3, store.Len())

	origin, ok := store.FindByID(task.ID)
	require.True(t, ok)
	assert.True(t, origin.IsRecurring)

	// editing an origin again does not expand a second time
	_, err = store.UpdateTask(task.ID, TaskInput{
		Title:      "standup!",
		Date:       "2025-01-01",
		Recurrence: &Recurrence{Type: RecurDaily, Interval: 1, EndDate: "2025-01-03"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
}

func TestDeleteTask(t *testing.T) {
	store, _ := setupStore(t, WithHolidays(holidayMap{"2025-01-01": {Title: "New Year"}}))
	task, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-02"})
	require.NoError(t, err)

	changed, err := store.DeleteTask("holiday-2025-01-01")
	require.NoError(t, err)
	assert.False(t, changed)
	_, ok := store.FindByID("holiday-2025-01-01")
	assert.True(t, ok, "holidays are never deletable")

	changed, err = store.DeleteTask(task.ID)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Empty(t, store.Dates())

	changed, err = store.DeleteTask(task.ID)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestDeleteOrigin_LeavesOccurrences(t *testing.T) {
	store, _ := setupStore(t)
	origin, occurrences, err := store.AddTask(TaskInput{
		Title:      "water plants",
		Date:       "2025-01-01",
		Recurrence: &Recurrence{Type: RecurWeekly, Interval: 1, EndDate: "2025-01-15"},
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 2)

	_, err = store.DeleteTask(origin.ID)
	require.NoError(t, err)

	for _, occ := range occurrences {
		got, ok := store.FindByID(occ.ID)
		require.True(t, ok)
		assert.Equal(t, origin.ID, got.ParentTaskID)
	}
}

func TestToggleCompleted(t *testing.T) {
	rec := &labelRecorder{}
	store, _ := setupStore(t, WithRecorder(rec))
	task, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-02", Time: "08:00"})
	require.NoError(t, err)

	changed, err := store.ToggleCompleted(task.ID, true)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = store.ToggleCompleted(task.ID, true)
	require.NoError(t, err)
	assert.False(t, changed)

	got, _ := store.FindByID(task.ID)
	assert.True(t, got.Completed)
	assert.Equal(t, "08:00", got.Time)
	assert.Equal(t, []string{"Add task", "Complete task"}, rec.labels)
}

func TestMoveTask(t *testing.T) {
	holidays := holidayMap{"2025-01-01": {Title: "New Year"}}
	store, _ := setupStore(t, WithHolidays(holidays))
	a, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-02"})
	require.NoError(t, err)
	_, _, err = store.AddTask(TaskInput{Title: "b", Date: "2025-01-02"})
	require.NoError(t, err)

	changed, err := store.MoveTask(a.ID, "2025-01-02")
	require.NoError(t, err)
	assert.False(t, changed, "same date is a no-op")

	changed, err = store.MoveTask("holiday-2025-01-01", "2025-01-05")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = store.MoveTask(a.ID, "nope")
	assert.ErrorIs(t, err, ErrInvalidDate)

	changed, err = store.MoveTask(a.ID, "2025-1-5")
	require.NoError(t, err)
	assert.True(t, changed)

	got, ok := store.FindByID(a.ID)
	require.True(t, ok)
	assert.Equal(t, "2025-01-05", got.Date)
	assert.Len(t, store.GetTasksForDate("2025-01-02"), 1)
	assertBucketInvariant(t, store)
}

func TestClearCompleted(t *testing.T) {
	store, _ := setupStore(t)
	a, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-01"})
	require.NoError(t, err)
	b, _, err := store.AddTask(TaskInput{Title: "b", Date: "2025-01-02"})
	require.NoError(t, err)
	c, _, err := store.AddTask(TaskInput{Title: "c", Date: "2025-01-02"})
	require.NoError(t, err)

	_, err = store.ToggleCompleted(a.ID, true)
	require.NoError(t, err)
	_, err = store.ToggleCompleted(b.ID, true)
	require.NoError(t, err)

	removed, err := store.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	all := store.All()
	require.Len(t, all, 1)
	assert.Equal(t, c.ID, all[0].ID)
	assert.Equal(t, []string{"2025-01-02"}, store.Dates())

	removed, err = store.ClearCompleted()
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestFindByID_Holiday(t *testing.T) {
	store, _ := setupStore(t, WithHolidays(holidayMap{"2025-12-25": {Title: "Christmas", Description: "Day off", Type: "public"}}))

	h, ok := store.FindByID("holiday-2025-12-25")
	require.True(t, ok)
	assert.Equal(t, "Christmas", h.Title)
	assert.True(t, h.ReadOnly)

	_, ok = store.FindByID("holiday-2025-12-26")
	assert.False(t, ok)
}

func TestPersistenceRoundTrip(t *testing.T) {
	kv := setupKV(t)
	store := NewStore(kv)
	task, _, err := store.AddTask(TaskInput{
		Title:      "gym",
		Date:       "2025-01-06",
		Time:       "07:00",
		Tags:       []string{"health"},
		Recurrence: &Recurrence{Type: RecurWeekly, Interval: 1, EndDate: "2025-01-20"},
	})
	require.NoError(t, err)

	reloaded := NewStore(kv)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, store.Snapshot(), reloaded.Snapshot())

	got, ok := reloaded.FindByID(task.ID)
	require.True(t, ok)
	require.NotNil(t, got.Recurrence)
	assert.Equal(t, RecurWeekly, got.Recurrence.Type)
}

func TestLoad_NormalizesAndWritesBack(t *testing.T) {
	kv := setupKV(t)
	raw := `{
		"2025-1-5": [{"id":"a","title":"a","date":"2025-1-5","tags":[]}],
		"2025-01-05": [{"id":"b","title":"b","date":"2025-01-05","tags":[]}],
		"2025-01-07": [],
		"2025-2-3": [{"id":"a","title":"dup","date":"2025-2-3"}]
	}`
	require.NoError(t, kv.Set(storage.KeyTasks, raw))

	store := NewStore(kv, WithIDGenerator(sequentialIDs()))
	require.NoError(t, store.Load())

	assert.Equal(t, []string{"2025-01-05", "2025-02-03"}, store.Dates())
	assert.Len(t, store.GetTasksForDate("2025-01-05"), 2)
	assertBucketInvariant(t, store)

	stored, ok, err := kv.Get(storage.KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)
	assert.NotContains(t, stored, "2025-1-5")
	assert.NotContains(t, stored, "2025-01-07")
}

func TestLoad_KeepsImpossibleDatesOnDisk(t *testing.T) {
	kv := setupKV(t)
	raw := `{
		"2025-02-30": [{"id":"x","title":"odd","date":"2025-02-30","color":"red"}],
		"2025-1-5": [{"id":"a","title":"a","date":"2025-1-5"}]
	}`
	require.NoError(t, kv.Set(storage.KeyTasks, raw))

	store := NewStore(kv)
	require.NoError(t, store.Load())

	assert.Equal(t, []string{"2025-01-05"}, store.Dates())
	_, ok := store.FindByID("x")
	assert.False(t, ok)
	loaded, ok := store.FindByID("a")
	require.True(t, ok)
	assert.Equal(t, ColorBlue, loaded.Color)

	_, _, err := store.AddTask(TaskInput{Title: "b", Date: "2025-01-06"})
	require.NoError(t, err)

	stored, ok, err := kv.Get(storage.KeyTasks)
	require.NoError(t, err)
	require.True(t, ok)

	var record Days
	require.NoError(t, json.Unmarshal([]byte(stored), &record))
	assert.Equal(t, []string{"2025-01-05", "2025-01-06", "2025-02-30"}, record.Dates())
	require.Len(t, record["2025-02-30"], 1)
	assert.Equal(t, "odd", record["2025-02-30"][0].Title)
	assert.Equal(t, ColorBlue, record["2025-01-05"][0].Color)
}

func TestLoad_CorruptRecord(t *testing.T) {
	kv := setupKV(t)
	require.NoError(t, kv.Set(storage.KeyTasks, "{not json"))

	store := NewStore(kv)
	assert.Error(t, store.Load())
	assert.Equal(t, 0, store.Len())
}

func TestUniqueIDsAcrossOperations(t *testing.T) {
	store, _ := setupStore(t)
	_, _, err := store.AddTask(TaskInput{
		Title:      "daily",
		Date:       "2025-01-01",
		Recurrence: &Recurrence{Type: RecurDaily, Interval: 1, EndDate: "2025-01-31"},
	})
	require.NoError(t, err)
	_, _, err = store.AddTask(TaskInput{Title: "one-off", Date: "2025-01-15"})
	require.NoError(t, err)

	all := store.All()
	require.NoError(t, store.Import(store.Snapshot()))
	assert.Len(t, store.All(), len(all))
	assertBucketInvariant(t, store)
}

func TestMaterialize(t *testing.T) {
	rec := &labelRecorder{}
	store, _ := setupStore(t, WithRecorder(rec))
	existing, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-01"})
	require.NoError(t, err)

	err = store.Materialize([]Task{
		{ID: existing.ID, Title: "clash", Date: "2025-1-2"},
		{Title: "no id", Date: "2025-01-03"},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, store.Len())
	assert.Equal(t, []string{"Add task", "Add recurring tasks"}, rec.labels)
	assertBucketInvariant(t, store)

	assert.Error(t, store.Materialize([]Task{{Title: "bad", Date: "x"}}))
}
