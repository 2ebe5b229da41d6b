package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStats(t *testing.T) {
	store, _ := setupStore(t)
	assert.Equal(t, Stats{}, store.Stats())

	var ids []string
	for _, date := range []string{"2025-01-01", "2025-01-02", "2025-01-03"} {
		task, _, err := store.AddTask(TaskInput{Title: "t", Date: date})
		require.NoError(t, err)
		ids = append(ids, task.ID)
	}
	_, err := store.ToggleCompleted(ids[0], true)
	require.NoError(t, err)
	_, err = store.ToggleCompleted(ids[1], true)
	require.NoError(t, err)

	assert.Equal(t, Stats{Total: 3, Completed: 2, Pending: 1, CompletionRate: 67}, store.Stats())
}

func TestStreak(t *testing.T) {
	store, _ := setupStore(t)
	for _, date := range []string{"2025-03-08", "2025-03-09", "2025-03-10", "2025-03-06"} {
		task, _, err := store.AddTask(TaskInput{Title: "t", Date: date})
		require.NoError(t, err)
		_, err = store.ToggleCompleted(task.ID, true)
		require.NoError(t, err)
	}
	_, _, err := store.AddTask(TaskInput{Title: "open", Date: "2025-03-07"})
	require.NoError(t, err)

	assert.Equal(t, 3, store.Streak("2025-03-10"))
	assert.Equal(t, 0, store.Streak("2025-03-11"))
	assert.Equal(t, 1, store.Streak("2025-03-06"))
}

func TestStreak_CappedAtLookback(t *testing.T) {
	store, _ := setupStore(t)
	_, _, err := store.AddTask(TaskInput{
		Title:      "daily",
		Date:       "2025-01-01",
		Recurrence: &Recurrence{Type: RecurDaily, Interval: 1, EndDate: "2025-03-01"},
	})
	require.NoError(t, err)
	for _, task := range store.All() {
		_, err := store.ToggleCompleted(task.ID, true)
		require.NoError(t, err)
	}

	assert.Equal(t, 30, store.Streak("2025-03-01"))
}

func TestUpcoming(t *testing.T) {
	store, _ := setupStore(t)
	inputs := []TaskInput{
		{Title: "yesterday", Date: "2025-01-09"},
		{Title: "today late", Date: "2025-01-10", Time: "18:00"},
		{Title: "today early", Date: "2025-01-10", Time: "08:00"},
		{Title: "done", Date: "2025-01-11"},
		{Title: "in a week", Date: "2025-01-16"},
		{Title: "too far", Date: "2025-01-17"},
	}
	for _, in := range inputs {
		task, _, err := store.AddTask(in)
		require.NoError(t, err)
		if in.Title == "done" {
			_, err = store.ToggleCompleted(task.ID, true)
			require.NoError(t, err)
		}
	}

	got, err := store.Upcoming("2025-01-10", UpcomingDays, UpcomingLimit)
	require.NoError(t, err)
	titles := make([]string, len(got))
	for i, task := range got {
		titles[i] = task.Title
	}
	assert.Equal(t, []string{"today early", "today late", "in a week"}, titles)

	limited, err := store.Upcoming("2025-01-10", UpcomingDays, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSearch(t *testing.T) {
	store, _ := setupStore(t)
	for _, in := range []TaskInput{
		{Title: "Dentist", Date: "2025-02-01", Time: "09:30"},
		{Title: "Call mom", Date: "2025-01-01", Description: "ask about the DENTIST"},
		{Title: "Groceries", Date: "2025-01-05", Tags: []string{"errands"}},
	} {
		_, _, err := store.AddTask(in)
		require.NoError(t, err)
	}

	got := store.Search("dentist")
	require.Len(t, got, 2)
	assert.Equal(t, "Call mom", got[0].Title)
	assert.Equal(t, "Dentist", got[1].Title)

	assert.Len(t, store.Search("errand"), 1)
	assert.Len(t, store.Search("09:30"), 1)
	assert.Empty(t, store.Search("  "))
}
