//go:build integration

package integration

import (
	"os"
	"path/filepath"
	"testing"
)

// TestTempDir creates a temporary directory for integration tests
func TestTempDir(t *testing.T) string {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "planit-integration-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return tempDir
}

// SetupTestEnvironment creates an isolated data directory and returns it.
func SetupTestEnvironment(t *testing.T) string {
	t.Helper()

	dataDir := filepath.Join(TestTempDir(t), ".planit")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		t.Fatalf("Failed to create data dir: %v", err)
	}

	return dataDir
}

// WriteDataFile writes a file such as holidays.json into the data directory.
func WriteDataFile(t *testing.T, dataDir, name, content string) string {
	t.Helper()

	path := filepath.Join(dataDir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}

	return path
}
