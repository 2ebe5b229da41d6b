package calendar

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportJSON_ExcludesHolidays(t *testing.T) {
	store, _ := setupStore(t, WithHolidays(holidayMap{"2025-01-01": {Title: "New Year"}}))
	_, _, err := store.AddTask(TaskInput{Title: "a", Date: "2025-01-01", Tags: []string{"x"}})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.ExportJSON(&buf))
	assert.NotContains(t, buf.String(), "New Year")
	assert.Contains(t, buf.String(), `"title": "a"`)

	var decoded Days
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, store.Snapshot(), decoded)
}

func TestParseImport(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", `{"2025-01-01":[{"id":"a","title":"a","date":"2025-01-01"}]}`, false},
		{"unpadded keys", `{"2025-1-1":[{"title":"a"}]}`, false},
		{"empty object", `{}`, false},
		{"not json", `{oops`, true},
		{"empty", ``, true},
		{"array", `[]`, true},
		{"non-date key", `{"tomorrow":[]}`, true},
		{"impossible date", `{"2025-02-30":[{}]}`, true},
		{"impossible month", `{"2025-13-01":[]}`, true},
		{"bucket not a list", `{"2025-01-01":{"title":"a"}}`, true},
		{"task not an object", `{"2025-01-01":["a"]}`, true},
		{"wrong field type", `{"2025-01-01":[{"title":5}]}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days, err := ParseImport([]byte(tt.doc))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedImport)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, days)
		})
	}
}

func TestImport_ReplacesStoreWholesale(t *testing.T) {
	rec := &labelRecorder{}
	store, _ := setupStore(t, WithRecorder(rec))
	_, _, err := store.AddTask(TaskInput{Title: "old", Date: "2025-01-01"})
	require.NoError(t, err)

	days, err := ParseImport([]byte(`{"2025-2-1":[{"id":"n1","title":"new","date":"2025-2-1","tags":["a"]}],"2025-02-02":[]}`))
	require.NoError(t, err)
	require.NoError(t, store.Import(days))

	assert.Equal(t, []string{"2025-02-01"}, store.Dates())
	got, ok := store.FindByID("n1")
	require.True(t, ok)
	assert.Equal(t, "2025-02-01", got.Date)
	assert.Equal(t, ColorBlue, got.Color)
	assert.Equal(t, []string{"Add task", "Import tasks"}, rec.labels)
}

func TestImport_MalformedLeavesStoreUntouched(t *testing.T) {
	store, _ := setupStore(t)
	_, _, err := store.AddTask(TaskInput{Title: "keep", Date: "2025-01-01"})
	require.NoError(t, err)
	before := store.Snapshot()

	_, err = ParseImport([]byte(`{"2025-01-01": "nope"}`))
	require.ErrorIs(t, err, ErrMalformedImport)

	assert.Equal(t, before, store.Snapshot())
}

func TestImport_ImpossibleDateRejectsWholeDocument(t *testing.T) {
	rec := &labelRecorder{}
	store, _ := setupStore(t, WithRecorder(rec))
	_, _, err := store.AddTask(TaskInput{Title: "keep", Date: "2025-01-01"})
	require.NoError(t, err)
	before := store.Snapshot()

	doc := `{
		"2025-02-30": [{"id":"a","title":"lost","date":"2025-02-30"}],
		"2025-03-01": [{"id":"b","title":"fine","date":"2025-03-01"}]
	}`
	_, err = ParseImport([]byte(doc))
	require.ErrorIs(t, err, ErrMalformedImport)
	assert.Contains(t, err.Error(), "2025-02-30")

	err = store.Import(Days{
		"2025-02-30": {{ID: "a", Title: "lost", Date: "2025-02-30"}},
		"2025-03-01": {{ID: "b", Title: "fine", Date: "2025-03-01"}},
	})
	require.ErrorIs(t, err, ErrMalformedImport)

	assert.Equal(t, before, store.Snapshot())
	assert.Equal(t, []string{"Add task"}, rec.labels)
}

func TestExportICS(t *testing.T) {
	store, _ := setupStore(t)
	_, occurrences, err := store.AddTask(TaskInput{
		Title:      "Team sync",
		Date:       "2025-01-06",
		Time:       "10:00",
		Tags:       []string{"work"},
		Recurrence: &Recurrence{Type: RecurWeekly, Interval: 1, EndDate: "2025-01-13"},
	})
	require.NoError(t, err)
	require.Len(t, occurrences, 1)
	_, _, err = store.AddTask(TaskInput{Title: "Holiday prep", Date: "2025-01-07", Description: "buy gifts"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, store.ExportICS(&buf, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	out := buf.String()

	assert.Contains(t, out, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "SUMMARY:Team sync")
	assert.Contains(t, out, "SUMMARY:Holiday prep")
	assert.Contains(t, out, "RELATED-TO:task-1")
	assert.Contains(t, out, "X-PLANIT-RRULE:")
	assert.Contains(t, out, "FREQ=WEEKLY")
	assert.Contains(t, out, "CATEGORIES:work")
	assert.Contains(t, out, "20250107")
}

func TestRRuleText(t *testing.T) {
	text, err := RRuleText(Recurrence{Type: RecurMonthly, Interval: 2, EndDate: "2025-06-01"})
	require.NoError(t, err)
	assert.Contains(t, text, "FREQ=MONTHLY")
	assert.Contains(t, text, "INTERVAL=2")
	assert.Contains(t, text, "UNTIL=20250601")

	_, err = RRuleText(Recurrence{Type: "hourly"})
	assert.ErrorIs(t, err, ErrInvalidRecurrence)
}
