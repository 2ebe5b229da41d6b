package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/MikeBiancalana/planit/internal/calendar"
	"github.com/MikeBiancalana/planit/internal/config"
	"github.com/MikeBiancalana/planit/internal/history"
	"github.com/MikeBiancalana/planit/internal/holiday"
	"github.com/MikeBiancalana/planit/internal/logger"
	"github.com/MikeBiancalana/planit/internal/storage"
)

// app bundles the services every command works against.
type app struct {
	settings *config.Settings
	db       *storage.Database
	kv       *storage.KV
	files    *storage.FileStore
	store    *calendar.Store
	history  *history.Manager
	tags     *calendar.TagIndex
	holidays *holiday.Service
	logger   *slog.Logger
}

// openApp opens the database, loads the task store, attaches durable
// history and loads holidays once. Holiday failures only leave the
// overlay empty.
func openApp(ctx context.Context) (*app, error) {
	log := logger.GetLogger()

	settings, err := config.LoadSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	dbPath, err := config.DatabasePath()
	if err != nil {
		return nil, fmt.Errorf("failed to get database path: %w", err)
	}
	db, err := storage.NewDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	kv := storage.NewKV(db, log)

	source, err := settings.ResolveHolidaySource()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to resolve holiday source: %w", err)
	}
	overlay := holiday.NewOverlay()
	holidays := holiday.NewService(overlay, holiday.NewLoader(log), source, log)
	_ = holidays.Refresh(ctx)

	engine := calendar.NewRecurrenceEngine(calendar.RecurrenceConfig{
		HorizonDays:    settings.RecurrenceHorizonDays,
		MaxOccurrences: settings.MaxOccurrences,
		Logger:         log,
	})
	store := calendar.NewStore(kv,
		calendar.WithHolidays(overlay),
		calendar.WithRecurrenceEngine(engine),
		calendar.WithDefaultColor(calendar.Color(settings.DefaultColor)),
		calendar.WithLogger(log),
	)
	if err := store.Load(); err != nil {
		db.Close()
		return nil, err
	}

	hist := history.New(store,
		history.WithCapacity(settings.HistoryCapacity),
		history.WithPersistence(kv, storage.KeyHistory),
		history.WithLogger(log),
	)
	store.SetRecorder(hist)

	policy := calendar.ShowHolidays
	if settings.TagFilterHidesHolidays {
		policy = calendar.HideHolidays
	}

	return &app{
		settings: settings,
		db:       db,
		kv:       kv,
		files:    storage.NewFileStore(),
		store:    store,
		history:  hist,
		tags:     calendar.NewTagIndex(store, policy),
		holidays: holidays,
		logger:   log,
	}, nil
}

// Close flushes write statistics to the debug log and closes the database.
func (a *app) Close() error {
	a.kv.LogWriteStats()
	return a.db.Close()
}

// withApp opens the app around fn.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
