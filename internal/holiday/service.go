package holiday

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"sync"
	"time"
)

// Service keeps an Overlay filled from one source.
type Service struct {
	overlay *Overlay
	loader  *Loader
	source  string
	logger  *slog.Logger

	mu       sync.Mutex
	loadedAt time.Time
}

// NewService creates a holiday service
func NewService(overlay *Overlay, loader *Loader, source string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if loader == nil {
		loader = NewLoader(logger)
	}
	return &Service{
		overlay: overlay,
		loader:  loader,
		source:  source,
		logger:  logger,
	}
}

func (s *Service) Overlay() *Overlay {
	return s.overlay
}

func (s *Service) Source() string {
	return s.source
}

// Refresh reloads the overlay from the source. A failure is logged and
// leaves the overlay as it was: empty before the first successful load,
// the last good data after. The error is returned for callers that want
// to report it.
func (s *Service) Refresh(ctx context.Context) error {
	entries, err := s.loader.Load(ctx, s.source)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug("Refresh", "operation", "no holiday file", "source", s.source)
		return err
	}
	if err != nil {
		s.logger.Warn("Refresh", "error", err, "source", s.source, "kept", s.overlay.Len())
		return err
	}

	s.overlay.Replace(entries)

	s.mu.Lock()
	s.loadedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info("Refresh", "source", s.source, "holidays", len(entries))
	return nil
}

// LoadedAt is the time of the last successful refresh, zero if none.
func (s *Service) LoadedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadedAt
}
