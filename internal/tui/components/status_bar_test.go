package components

import (
	"strings"
	"testing"
)

func TestStatusBarView(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(160)
	sb.SetDate("2025-01-15")
	sb.SetView("month")
	sb.SetTag("work")

	view := sb.View()
	for _, want := range []string{"2025-01-15", "[month]", "#work", "q:quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected status bar to contain %q, got: %s", want, view)
		}
	}
}

func TestStatusBarHidesAllTag(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(160)
	sb.SetTag("all")

	if strings.Contains(sb.View(), "#all") {
		t.Error("Expected the all filter to be hidden")
	}
}

func TestStatusBarInputMode(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(160)
	sb.SetInputMode(true)

	view := sb.View()
	if !strings.Contains(view, "enter:submit") {
		t.Errorf("Expected input hints, got: %s", view)
	}
	if strings.Contains(view, "q:quit") {
		t.Errorf("Expected normal hints to be hidden, got: %s", view)
	}
}

func TestStatusBarTruncates(t *testing.T) {
	sb := NewStatusBar()
	sb.SetWidth(40)
	sb.SetDate("2025-01-15")

	if !strings.Contains(sb.View(), "...") {
		t.Errorf("Expected truncated hints, got: %s", sb.View())
	}

	sb.SetWidth(0)
	_ = sb.View()
}
