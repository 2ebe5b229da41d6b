package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Settings is the user-editable configuration stored in config.yaml.
type Settings struct {
	// HolidaySource is a file path or http(s) URL. Relative paths resolve
	// against the data directory. A .ics suffix or VCALENDAR content selects
	// ICS parsing, everything else is read as JSON.
	HolidaySource string `yaml:"holiday_source"`

	// HolidayRefresh is a cron spec (e.g. "@daily", "0 */6 * * *") used by
	// the interactive UI to reload holidays. Empty disables the schedule.
	HolidayRefresh string `yaml:"holiday_refresh"`

	HistoryCapacity       int    `yaml:"history_capacity"`
	RecurrenceHorizonDays int    `yaml:"recurrence_horizon_days"`
	MaxOccurrences        int    `yaml:"max_occurrences"`
	DefaultColor          string `yaml:"default_color"`

	// TagFilterHidesHolidays decides whether a specific tag filter also
	// hides holiday entries. Holidays carry no tags, so true means they
	// disappear whenever a tag other than "all" is active.
	TagFilterHidesHolidays bool `yaml:"tag_filter_hides_holidays"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() *Settings {
	return &Settings{
		HolidaySource:          HolidaysFile,
		HolidayRefresh:         "@daily",
		HistoryCapacity:        10,
		RecurrenceHorizonDays:  365,
		MaxOccurrences:         5000,
		DefaultColor:           "blue",
		TagFilterHidesHolidays: false,
	}
}

// LoadSettings reads config.yaml from the data directory, writing the
// defaults first if the file does not exist yet.
func LoadSettings() (*Settings, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadSettingsFrom(path)
}

// LoadSettingsFrom reads settings from path, creating it with defaults
// (0600) when missing. Zero-valued fields fall back to defaults.
func LoadSettingsFrom(path string) (*Settings, error) {
	settings := DefaultSettings()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := SaveSettings(path, settings); err != nil {
			return nil, err
		}
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	settings.applyDefaults()

	return settings, nil
}

// SaveSettings writes settings to path as YAML.
func SaveSettings(path string, settings *Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}

	data, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

func (s *Settings) applyDefaults() {
	defaults := DefaultSettings()
	if s.HolidaySource == "" {
		s.HolidaySource = defaults.HolidaySource
	}
	if s.HistoryCapacity <= 0 {
		s.HistoryCapacity = defaults.HistoryCapacity
	}
	if s.RecurrenceHorizonDays <= 0 {
		s.RecurrenceHorizonDays = defaults.RecurrenceHorizonDays
	}
	if s.MaxOccurrences <= 0 {
		s.MaxOccurrences = defaults.MaxOccurrences
	}
	if s.DefaultColor == "" {
		s.DefaultColor = defaults.DefaultColor
	}
}

// ResolveHolidaySource turns the configured source into a URL or an
// absolute file path.
func (s *Settings) ResolveHolidaySource() (string, error) {
	src := strings.TrimSpace(s.HolidaySource)
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src, nil
	}
	if filepath.IsAbs(src) {
		return src, nil
	}

	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, src), nil
}
