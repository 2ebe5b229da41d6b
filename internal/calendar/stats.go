package calendar

import (
	"math"
	"strings"

	"github.com/MikeBiancalana/planit/internal/datekey"
)

const (
	streakLookback = 30
	UpcomingDays   = 7
	UpcomingLimit  = 5
)

// Stats summarizes the stored tasks.
type Stats struct {
	Total          int `json:"total"`
	Completed      int `json:"completed"`
	Pending        int `json:"pending"`
	CompletionRate int `json:"completionRate"`
}

// Stats counts stored tasks; holidays are not tasks. The rate is a rounded
// percentage and 0 for an empty store.
func (s *Store) Stats() Stats {
	var st Stats
	for _, tasks := range s.days {
		for _, t := range tasks {
			st.Total++
			if t.Completed {
				st.Completed++
			}
		}
	}
	st.Pending = st.Total - st.Completed
	if st.Total > 0 {
		st.CompletionRate = int(math.Round(float64(st.Completed) / float64(st.Total) * 100))
	}
	return st
}

// Streak counts consecutive days ending at today that have at least one
// completed task, looking back at most 30 days.
func (s *Store) Streak(today string) int {
	streak := 0
	for i := 0; i < streakLookback; i++ {
		date, err := datekey.AddDays(today, -i)
		if err != nil {
			return 0
		}
		if !s.hasCompleted(date) {
			break
		}
		streak++
	}
	return streak
}

func (s *Store) hasCompleted(date string) bool {
	for _, t := range s.days[date] {
		if t.Completed {
			return true
		}
	}
	return false
}

// Upcoming returns up to limit incomplete tasks dated from today through
// the following days-1 days, in date then display order.
func (s *Store) Upcoming(today string, days, limit int) ([]Task, error) {
	end, err := datekey.AddDays(today, days-1)
	if err != nil {
		return nil, err
	}
	dates, err := datekey.Range(today, end)
	if err != nil {
		return nil, err
	}

	out := make([]Task, 0, limit)
	for _, date := range dates {
		day := cloneTasks(s.days[date])
		SortForDisplay(day)
		for _, t := range day {
			if t.Completed {
				continue
			}
			if len(out) == limit {
				return out, nil
			}
			out = append(out, t)
		}
	}
	return out, nil
}

// Search matches query case-insensitively against title, description,
// time and tags of stored tasks.
func (s *Store) Search(query string) []Task {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []Task{}
	}

	out := make([]Task, 0)
	for _, t := range s.All() {
		if matches(t, query) {
			out = append(out, t)
		}
	}
	return out
}

func matches(t Task, query string) bool {
	fields := append([]string{t.Title, t.Description, t.Time}, t.Tags...)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
