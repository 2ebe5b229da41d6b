package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/MikeBiancalana/planit/internal/config"
)

// FileStore handles export and import documents on disk
type FileStore struct{}

// NewFileStore creates a new file store
func NewFileStore() *FileStore {
	return &FileStore{}
}

// FileInfo holds file metadata
type FileInfo struct {
	Path         string
	LastModified time.Time
	Exists       bool
}

// ExportPath returns the default export path for a day and extension,
// e.g. ~/.planit/exports/planit-tasks-2025-01-04.json
func (fs *FileStore) ExportPath(date string, ext string) (string, error) {
	exportDir, err := config.ExportDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(exportDir, fmt.Sprintf("planit-tasks-%s.%s", date, ext)), nil
}

// WriteDocument writes content to path, creating parent directories.
func (fs *FileStore) WriteDocument(path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

// ReadDocument reads a document and returns its content and metadata.
// A missing file is reported through FileInfo.Exists, not as an error.
func (fs *FileStore) ReadDocument(path string) ([]byte, FileInfo, error) {
	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, FileInfo{Path: path, Exists: false}, nil
	}
	if err != nil {
		return nil, FileInfo{}, fmt.Errorf("failed to stat file: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, FileInfo{}, fmt.Errorf("failed to read file: %w", err)
	}

	return content, FileInfo{
		Path:         path,
		LastModified: fileInfo.ModTime(),
		Exists:       true,
	}, nil
}
