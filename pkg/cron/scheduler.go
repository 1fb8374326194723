// Package cron provides scheduled background jobs using robfig/cron.
package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ledgerlens/statement-parser/internal/domain/statement/service"
)

// Scheduler manages background scheduled jobs using robfig/cron.
type Scheduler struct {
	cron     *cron.Cron
	svc      *service.Service
	schedule string
	logger   *slog.Logger
}

// NewScheduler creates a new job scheduler. schedule is a cron spec for the
// cache sweep, e.g. "@every 1m".
func NewScheduler(svc *service.Service, schedule string, logger *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelDebug))))

	return &Scheduler{
		cron:     c,
		svc:      svc,
		schedule: schedule,
		logger:   logger,
	}
}

// Start begins scheduled jobs.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.sweepCache)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("cron scheduler started",
		slog.Int("jobs", len(s.cron.Entries())),
		slog.String("sweep_schedule", s.schedule),
	)
	return nil
}

// Stop gracefully stops all scheduled jobs.
func (s *Scheduler) Stop() context.Context {
	s.logger.Info("cron scheduler stopping")
	return s.cron.Stop()
}

// RunNow manually triggers the cache sweep (for testing/admin).
func (s *Scheduler) RunNow() {
	go s.sweepCache()
}

// sweepCache drops the cached document once it outlives its TTL.
func (s *Scheduler) sweepCache() {
	s.svc.ExpireStale(time.Now())
}
