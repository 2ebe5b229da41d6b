// Package history keeps bounded undo/redo stacks of full task snapshots.
package history

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/MikeBiancalana/planit/internal/calendar"
)

// DefaultCapacity bounds the undo stack.
const DefaultCapacity = 10

// Source is the live state history snapshots and restores.
type Source interface {
	Snapshot() calendar.Days
	Restore(days calendar.Days) error
}

// Persister stores the stacks between runs.
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
}

// Snapshot is a deep copy of the store taken right before a mutation.
type Snapshot struct {
	Tasks     calendar.Days `json:"tasks"`
	Action    string        `json:"action"`
	Timestamp time.Time     `json:"timestamp"`
}

type stacks struct {
	Undo []Snapshot `json:"undo"`
	Redo []Snapshot `json:"redo"`
}

// Manager implements calendar.Recorder. The undo stack holds at most
// capacity snapshots and drops the oldest first; the redo stack is cleared
// by every new mutation.
type Manager struct {
	source   Source
	capacity int
	now      func() time.Time
	logger   *slog.Logger

	persist Persister
	key     string

	undo []Snapshot
	redo []Snapshot
}

// Option configures a Manager.
type Option func(*Manager)

func WithCapacity(n int) Option {
	return func(m *Manager) { m.capacity = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithPersistence keeps the stacks in p under key so undo survives
// restarts. Stored stacks are read when the Manager is created.
func WithPersistence(p Persister, key string) Option {
	return func(m *Manager) {
		m.persist = p
		m.key = key
	}
}

// New creates a Manager over source.
func New(source Source, opts ...Option) *Manager {
	m := &Manager{
		source:   source,
		capacity: DefaultCapacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.capacity <= 0 {
		m.capacity = DefaultCapacity
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}

	m.load()
	return m
}

func (m *Manager) load() {
	if m.persist == nil {
		return
	}

	raw, ok, err := m.persist.Get(m.key)
	if err != nil {
		m.logger.Warn("load", "error", err, "key", m.key)
		return
	}
	if !ok {
		return
	}

	var s stacks
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		m.logger.Warn("load", "error", err, "key", m.key, "operation", "discarding stored history")
		return
	}
	m.undo = truncate(s.Undo, m.capacity)
	m.redo = s.Redo
}

func (m *Manager) save() error {
	if m.persist == nil {
		return nil
	}

	data, err := json.Marshal(stacks{Undo: m.undo, Redo: m.redo})
	if err != nil {
		return fmt.Errorf("failed to encode history: %w", err)
	}
	if err := m.persist.Set(m.key, string(data)); err != nil {
		return fmt.Errorf("failed to persist history: %w", err)
	}
	return nil
}

func (m *Manager) snapshot(label string) Snapshot {
	return Snapshot{Tasks: m.source.Snapshot(), Action: label, Timestamp: m.now()}
}

// RecordBeforeMutation pushes the current state labelled with the action
// about to run and discards the redo stack.
func (m *Manager) RecordBeforeMutation(label string) {
	m.undo = truncate(append(m.undo, m.snapshot(label)), m.capacity)
	m.redo = nil

	if err := m.save(); err != nil {
		m.logger.Error("RecordBeforeMutation", "error", err, "action", label)
	}
}

// Undo restores the most recent snapshot and returns its action label.
// ok is false when there is nothing to undo.
func (m *Manager) Undo() (string, bool, error) {
	if len(m.undo) == 0 {
		return "", false, nil
	}

	top := m.undo[len(m.undo)-1]
	m.redo = append(m.redo, m.snapshot(top.Action))
	m.undo = m.undo[:len(m.undo)-1]

	if err := m.source.Restore(top.Tasks); err != nil {
		return top.Action, true, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	if err := m.save(); err != nil {
		return top.Action, true, err
	}

	m.logger.Debug("Undo", "action", top.Action, "undo", len(m.undo), "redo", len(m.redo))
	return top.Action, true, nil
}

// Redo reapplies the most recently undone action. ok is false when there
// is nothing to redo.
func (m *Manager) Redo() (string, bool, error) {
	if len(m.redo) == 0 {
		return "", false, nil
	}

	top := m.redo[len(m.redo)-1]
	m.undo = truncate(append(m.undo, m.snapshot(top.Action)), m.capacity)
	m.redo = m.redo[:len(m.redo)-1]

	if err := m.source.Restore(top.Tasks); err != nil {
		return top.Action, true, fmt.Errorf("failed to restore snapshot: %w", err)
	}
	if err := m.save(); err != nil {
		return top.Action, true, err
	}

	m.logger.Debug("Redo", "action", top.Action, "undo", len(m.undo), "redo", len(m.redo))
	return top.Action, true, nil
}

// CanUndo reports whether Undo would do anything.
func (m *Manager) CanUndo() bool { return len(m.undo) > 0 }

// CanRedo reports whether Redo would do anything.
func (m *Manager) CanRedo() bool { return len(m.redo) > 0 }

// UndoLen is the number of snapshots on the undo stack.
func (m *Manager) UndoLen() int { return len(m.undo) }

// RedoLen is the number of snapshots on the redo stack.
func (m *Manager) RedoLen() int { return len(m.redo) }

// Entries returns the undo stack, most recent first.
func (m *Manager) Entries() []Snapshot {
	out := make([]Snapshot, 0, len(m.undo))
	for i := len(m.undo) - 1; i >= 0; i-- {
		out = append(out, m.undo[i])
	}
	return out
}

// Clear empties both stacks and removes the stored record.
func (m *Manager) Clear() error {
	m.undo, m.redo = nil, nil
	if m.persist == nil {
		return nil
	}
	if err := m.persist.Delete(m.key); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// truncate drops the oldest snapshots beyond capacity.
func truncate(s []Snapshot, capacity int) []Snapshot {
	if len(s) <= capacity {
		return s
	}
	return append([]Snapshot(nil), s[len(s)-capacity:]...)
}
