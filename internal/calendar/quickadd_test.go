package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuickAdd(t *testing.T) {
	tests := []struct {
		line  string
		title string
		time  string
		tags  []string
	}{
		{"Buy milk", "Buy milk", "", []string{}},
		{"Standup 09:15 #work", "Standup", "09:15", []string{"work"}},
		{"#home Fix sink 18:00 #urgent #home", "Fix sink", "18:00", []string{"home", "urgent"}},
		{"Meet at 25:00", "Meet at 25:00", "", []string{}},
		{"Call 10:00 about 11:00 slot", "Call about 11:00 slot", "10:00", []string{}},
		{"# lonely hash", "# lonely hash", "", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			in := ParseQuickAdd(tt.line, "2025-01-01")
			assert.Equal(t, tt.title, in.Title)
			assert.Equal(t, tt.time, in.Time)
			assert.Equal(t, tt.tags, in.Tags)
			assert.Equal(t, "2025-01-01", in.Date)
		})
	}
}
