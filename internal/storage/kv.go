package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeBiancalana/planit/internal/perf"
)

// Record keys shared by the core and the UI collaborators.
const (
	KeyTasks   = "planit_tasks"
	KeyHistory = "planit_history"
	KeyNotes   = "planit_notes"
	KeyTheme   = "planit_theme"
)

const slowWriteThreshold = 50 * time.Millisecond

// KV is a synchronous string-keyed record store backed by the kv table.
type KV struct {
	db     *Database
	logger *slog.Logger
	writes *perf.Recorder
	now    func() time.Time
}

// NewKV creates a record store on db
func NewKV(db *Database, logger *slog.Logger) *KV {
	if logger == nil {
		logger = slog.Default()
	}
	return &KV{
		db:     db,
		logger: logger,
		writes: perf.NewRecorder("kv_write", logger, slowWriteThreshold),
		now:    time.Now,
	}
}

// Get returns the value stored under key and whether it exists.
func (k *KV) Get(key string) (string, bool, error) {
	var value string
	err := k.db.DB().QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read record %s: %w", key, err)
	}
	return value, true, nil
}

// Set durably writes value under key before returning.
func (k *KV) Set(key, value string) error {
	timer := k.writes.Start()
	defer timer.Stop()

	_, err := k.db.DB().Exec(`
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, k.now().Unix())
	if err != nil {
		k.logger.Error("Set", "error", err, "key", key)
		return fmt.Errorf("failed to write record %s: %w", key, err)
	}
	return nil
}

// Delete removes key; deleting a missing key is not an error.
func (k *KV) Delete(key string) error {
	if _, err := k.db.DB().Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete record %s: %w", key, err)
	}
	return nil
}

// WriteStats returns timing aggregates for Set calls.
func (k *KV) WriteStats() perf.Stats {
	return k.writes.Stats()
}

// LogWriteStats logs the write timing aggregate at DEBUG.
func (k *KV) LogWriteStats() {
	k.writes.LogStats()
}
