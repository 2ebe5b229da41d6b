package calendar

import "sort"

// AllTags is the filter value that matches every task.
const AllTags = "all"

// HolidayPolicy decides what a specific tag filter does with holidays.
type HolidayPolicy int

const (
	// ShowHolidays lets holidays through every tag filter.
	ShowHolidays HolidayPolicy = iota
	// HideHolidays filters holidays like any other untagged entry.
	HideHolidays
)

// TagCounts is the tag summary of the store.
type TagCounts struct {
	Total int
	ByTag map[string]int
}

// TagIndex is a view over a Store, recomputed on every call.
type TagIndex struct {
	store  *Store
	policy HolidayPolicy
}

func NewTagIndex(store *Store, policy HolidayPolicy) *TagIndex {
	return &TagIndex{store: store, policy: policy}
}

// AllTags returns the sorted union of tags over stored tasks.
func (ix *TagIndex) AllTags() []string {
	set := make(map[string]bool)
	for _, tasks := range ix.store.days {
		for _, t := range tasks {
			for _, tag := range t.Tags {
				set[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(set))
	for tag := range set {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Counts returns the total task count and the number of tasks carrying
// each tag.
func (ix *TagIndex) Counts() TagCounts {
	counts := TagCounts{ByTag: make(map[string]int)}
	for _, tasks := range ix.store.days {
		for _, t := range tasks {
			counts.Total++
			for _, tag := range NormalizeTags(t.Tags) {
				counts.ByTag[tag]++
			}
		}
	}
	return counts
}

// Filter keeps the tasks tagged activeTag. AllTags and the empty tag are
// the identity.
func (ix *TagIndex) Filter(activeTag string, dayTasks []Task) []Task {
	if activeTag == "" || activeTag == AllTags {
		return dayTasks
	}

	out := make([]Task, 0, len(dayTasks))
	for _, t := range dayTasks {
		if t.IsHoliday {
			if ix.policy == ShowHolidays {
				out = append(out, t)
			}
			continue
		}
		if t.HasTag(activeTag) {
			out = append(out, t)
		}
	}
	return out
}

// TasksForDate is GetTasksForDate filtered by activeTag.
func (ix *TagIndex) TasksForDate(date, activeTag string) []Task {
	return ix.Filter(activeTag, ix.store.GetTasksForDate(date))
}

// FilterByColor keeps the tasks of one color. AllTags is the identity.
func FilterByColor(tasks []Task, color string) []Task {
	if color == "" || color == AllTags {
		return tasks
	}

	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if string(t.Color) == color {
			out = append(out, t)
		}
	}
	return out
}
