package holiday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/datekey"
	"github.com/MikeBiancalana/planit/internal/perf"
)

const (
	fetchTimeout    = 10 * time.Second
	maxDocumentSize = 8 << 20
	slowLoad        = 500 * time.Millisecond
	defaultICSType  = "holiday"
)

// Loader reads holiday documents from files or http(s) URLs.
type Loader struct {
	client *http.Client
	logger *slog.Logger
	now    func() time.Time

	// recurring ICS events expand this many years around now
	yearsBack, yearsAhead int
}

// NewLoader creates a loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		client:     &http.Client{Timeout: fetchTimeout},
		logger:     logger,
		now:        time.Now,
		yearsBack:  1,
		yearsAhead: 2,
	}
}

// Load fetches and parses source.
func (l *Loader) Load(ctx context.Context, source string) (map[string]calendar.Holiday, error) {
	timer := perf.NewTimer("holiday_load", l.logger, slowLoad)
	defer timer.Stop()

	data, err := l.fetch(ctx, source)
	if err != nil {
		return nil, err
	}

	if isICS(source, data) {
		return l.ParseICS(data)
	}
	return l.ParseJSON(data)
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read holidays: %w", err)
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build holiday request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch holidays: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday response: %w", err)
	}
	return data, nil
}

func isICS(source string, data []byte) bool {
	if strings.HasSuffix(strings.ToLower(source), ".ics") {
		return true
	}
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("BEGIN:VCALENDAR"))
}

// ParseJSON reads {"YYYY-MM-DD": {"title", "description", "type"}}. Keys
// are normalized; keys that are not dates are skipped.
func (l *Loader) ParseJSON(data []byte) (map[string]calendar.Holiday, error) {
	var raw map[string]calendar.Holiday
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse holidays: %w", err)
	}

	out := make(map[string]calendar.Holiday, len(raw))
	for key, h := range raw {
		date := datekey.Normalize(key)
		if !datekey.Valid(date) {
			l.logger.Warn("ParseJSON", "operation", "skipping holiday with invalid date", "date", key)
			continue
		}
		out[date] = h
	}
	return out, nil
}

// ParseICS reads VEVENTs as holidays keyed by their start day. Events with
// an RRULE are expanded over the loader's year window.
func (l *Loader) ParseICS(data []byte) (map[string]calendar.Holiday, error) {
	cal, err := ical.ParseCalendar(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse holiday calendar: %w", err)
	}

	now := l.now()
	from := time.Date(now.Year()-l.yearsBack, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(now.Year()+l.yearsAhead, 12, 31, 0, 0, 0, 0, time.UTC)

	out := make(map[string]calendar.Holiday)
	for _, ve := range cal.Events() {
		h := calendar.Holiday{Type: defaultICSType}
		if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
			h.Title = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyDescription); p != nil {
			h.Description = p.Value
		}
		if p := ve.GetProperty(ical.ComponentPropertyCategories); p != nil && p.Value != "" {
			h.Type = strings.ToLower(strings.Split(p.Value, ",")[0])
		}

		startProp := ve.GetProperty(ical.ComponentPropertyDtStart)
		if startProp == nil {
			continue
		}
		start, err := parseICSDate(startProp.Value)
		if err != nil {
			l.logger.Warn("ParseICS", "error", err, "summary", h.Title)
			continue
		}

		rruleProp := ve.GetProperty(ical.ComponentPropertyRrule)
		if rruleProp == nil {
			out[datekey.FromTime(start)] = h
			continue
		}

		dates, err := expandRule(rruleProp.Value, start, ve.GetProperties(ical.ComponentPropertyExdate), from, to)
		if err != nil {
			l.logger.Warn("ParseICS", "error", err, "summary", h.Title, "rrule", rruleProp.Value)
			out[datekey.FromTime(start)] = h
			continue
		}
		for _, d := range dates {
			out[datekey.FromTime(d)] = h
		}
	}
	return out, nil
}

func expandRule(raw string, start time.Time, exdates []*ical.IANAProperty, from, to time.Time) ([]time.Time, error) {
	r, err := rrule.StrToRRule(raw)
	if err != nil {
		return nil, err
	}
	r.DTStart(start)

	var set rrule.Set
	set.RRule(r)
	for _, p := range exdates {
		for _, part := range strings.Split(p.Value, ",") {
			if ex, err := parseICSDate(part); err == nil {
				set.ExDate(ex)
			}
		}
	}
	return set.Between(from, to, true), nil
}

// parseICSDate keeps only the calendar day of a DATE or DATE-TIME value.
func parseICSDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if len(v) < 8 {
		return time.Time{}, fmt.Errorf("invalid ICS date %q", v)
	}
	return time.Parse("20060102", v[:8])
}
