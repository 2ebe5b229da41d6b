// Package holiday provides the read-only holiday overlay: entries loaded
// from a JSON or ICS document and merged into day views at read time.
package holiday

import (
	"sort"
	"sync"

	"github.com/MikeBiancalana/planit/internal/calendar"
)

// Overlay is a DateKey to Holiday mapping that can be swapped while being
// read, so background reloads never race with rendering.
type Overlay struct {
	mu      sync.RWMutex
	entries map[string]calendar.Holiday
}

func NewOverlay() *Overlay {
	return &Overlay{entries: make(map[string]calendar.Holiday)}
}

// HolidayFor implements calendar.HolidaySource.
func (o *Overlay) HolidayFor(date string) (calendar.Holiday, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	h, ok := o.entries[date]
	return h, ok
}

// Replace swaps in a new mapping wholesale.
func (o *Overlay) Replace(entries map[string]calendar.Holiday) {
	copied := make(map[string]calendar.Holiday, len(entries))
	for date, h := range entries {
		copied[date] = h
	}

	o.mu.Lock()
	o.entries = copied
	o.mu.Unlock()
}

func (o *Overlay) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.entries)
}

// Dates returns the holiday dates in order.
func (o *Overlay) Dates() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()

	dates := make([]string, 0, len(o.entries))
	for d := range o.entries {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	return dates
}
