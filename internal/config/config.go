package config

import (
	"os"
	"path/filepath"
)

const (
	AppName        = "planit"
	DbName         = "planit.db"
	ConfigFileName = "config.yaml"
	HolidaysFile   = "holidays.json"
)

// DataDir returns the path to the planit data directory (~/.planit/)
// Creates the directory if it doesn't exist
// Can be overridden with PLANIT_DATA_DIR environment variable (primarily for testing)
func DataDir() (string, error) {
	// Check for test override
	if dataDir := os.Getenv("PLANIT_DATA_DIR"); dataDir != "" {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return "", err
		}
		return dataDir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dataDir := filepath.Join(home, "."+AppName)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// ExportDir returns the path to the export directory (~/.planit/exports/)
// Creates the directory if it doesn't exist
func ExportDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	exportDir := filepath.Join(dataDir, "exports")
	if err := os.MkdirAll(exportDir, 0755); err != nil {
		return "", err
	}

	return exportDir, nil
}

// DatabasePath returns the path to the SQLite database (~/.planit/planit.db)
func DatabasePath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, DbName), nil
}

// ConfigPath returns the path to the settings file (~/.planit/config.yaml)
func ConfigPath() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, ConfigFileName), nil
}

// DefaultHolidaySource returns the default holiday document (~/.planit/holidays.json)
func DefaultHolidaySource() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dataDir, HolidaysFile), nil
}
