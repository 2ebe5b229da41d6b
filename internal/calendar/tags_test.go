package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTagged(t *testing.T, policy HolidayPolicy) (*Store, *TagIndex) {
	t.Helper()
	store, _ := setupStore(t, WithHolidays(holidayMap{"2025-01-01": {Title: "New Year"}}))
	for _, in := range []TaskInput{
		{Title: "report", Date: "2025-01-01", Tags: []string{"work"}},
		{Title: "dishes", Date: "2025-01-01", Tags: []string{"home"}},
		{Title: "review", Date: "2025-01-02", Tags: []string{"work", "urgent"}},
		{Title: "plain", Date: "2025-01-03"},
	} {
		_, _, err := store.AddTask(in)
		require.NoError(t, err)
	}
	return store, NewTagIndex(store, policy)
}

func TestTagIndex_AllTagsAndCounts(t *testing.T) {
	_, ix := setupTagged(t, ShowHolidays)

	assert.Equal(t, []string{"home", "urgent", "work"}, ix.AllTags())

	counts := ix.Counts()
	assert.Equal(t, 4, counts.Total)
	assert.Equal(t, map[string]int{"work": 2, "home": 1, "urgent": 1}, counts.ByTag)
}

func TestTagIndex_Filter(t *testing.T) {
	_, ix := setupTagged(t, ShowHolidays)

	all := ix.TasksForDate("2025-01-01", AllTags)
	assert.Len(t, all, 3)

	work := ix.TasksForDate("2025-01-01", "work")
	require.Len(t, work, 2)
	assert.True(t, work[0].IsHoliday)
	assert.Equal(t, "report", work[1].Title)

	assert.Empty(t, ix.TasksForDate("2025-01-03", "work"))
}

func TestTagIndex_FilterHidesHolidays(t *testing.T) {
	_, ix := setupTagged(t, HideHolidays)

	work := ix.TasksForDate("2025-01-01", "work")
	require.Len(t, work, 1)
	assert.Equal(t, "report", work[0].Title)

	assert.Len(t, ix.TasksForDate("2025-01-01", AllTags), 3)
}

func TestFilterByColor(t *testing.T) {
	tasks := []Task{
		{Title: "a", Color: ColorRed},
		{Title: "b", Color: ColorBlue},
		{Title: "c", Color: ColorRed},
	}

	assert.Len(t, FilterByColor(tasks, "all"), 3)
	red := FilterByColor(tasks, "red")
	require.Len(t, red, 2)
	assert.Equal(t, "c", red[1].Title)
	assert.Empty(t, FilterByColor(tasks, "green"))
}
