package holiday

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes a Service on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	service *Service
	logger  *slog.Logger
	entry   cron.EntryID
}

// NewScheduler registers service.Refresh under spec, which accepts the
// standard five fields and descriptors such as "@daily" or "@every 6h".
func NewScheduler(spec string, service *Service, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Scheduler{
		cron:    cron.New(),
		service: service,
		logger:  logger,
	}

	id, err := s.cron.AddFunc(spec, s.run)
	if err != nil {
		return nil, fmt.Errorf("invalid holiday refresh schedule %q: %w", spec, err)
	}
	s.entry = id
	return s, nil
}

func (s *Scheduler) run() {
	// failures are already logged by Refresh
	_ = s.service.Refresh(context.Background())
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Debug("Scheduler.Start", "next", s.cron.Entry(s.entry).Next)
}

// Stop halts the schedule and waits for a running refresh to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
