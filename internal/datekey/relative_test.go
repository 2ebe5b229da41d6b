package datekey

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday
var refNow = time.Date(2025, 1, 15, 10, 30, 0, 0, time.Local)

func TestResolve(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"t", "2025-01-15"},
		{"Today", "2025-01-15"},
		{"tm", "2025-01-16"},
		{"yesterday", "2025-01-14"},
		{"wed", "2025-01-22"},
		{"fri", "2025-01-17"},
		{"mon", "2025-01-20"},
		{"+3d", "2025-01-18"},
		{"-15d", "2024-12-31"},
		{"+2w", "2025-01-29"},
		{"+1m", "2025-02-15"},
		{"2024-2-29", "2024-02-29"},
		{"2020-01-01", "2020-01-01"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Resolve(tt.input, refNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve_Invalid(t *testing.T) {
	for _, input := range []string{"", "someday", "+d", "+3x", "+abcd", "2025-02-30", "2025/01/01"} {
		t.Run(input, func(t *testing.T) {
			_, err := Resolve(input, refNow)
			assert.Error(t, err)
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2025-01-15", "today"},
		{"2025-01-16", "tomorrow"},
		{"2025-01-14", "yesterday"},
		{"2025-01-18", "Saturday"},
		{"2025-01-22", "in 1 week"},
		{"2025-02-05", "in 3 weeks"},
		{"2025-03-01", "Mar 1, 2025"},
		{"2024-12-01", "Dec 1, 2024"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.key, refNow))
		})
	}
}
