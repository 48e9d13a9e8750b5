package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"WhaleSentinel/internal/logger"
	"WhaleSentinel/internal/model"
	"WhaleSentinel/internal/notifier"
)

// StatsSource exposes the counters the digest reports on.
type StatsSource interface {
	Stats() model.ScanStats
	Mode() model.Mode
}

// Scheduler runs periodic side jobs next to the scan loop.
type Scheduler struct {
	Cron     *cron.Cron
	Source   StatsSource
	Notifier notifier.Notifier
	Ctx      context.Context

	log *logger.Logger
	now func() time.Time
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, src StatsSource, n notifier.Notifier, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Source:   src,
		Notifier: n,
		Ctx:      ctx,
		log:      log.WithField("component", "scheduler"),
		now:      time.Now,
	}
}

// RegisterDigest schedules the stats digest.
func (s *Scheduler) RegisterDigest(schedule string) error {
	if _, err := s.Cron.AddFunc(schedule, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info("scheduler started")
}

// Stop stops the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.log.Info("scheduler stopped")
}

// RunDigestNow sends the digest immediately.
func (s *Scheduler) RunDigestNow() {
	s.digestTask()
}

func (s *Scheduler) digestTask() {
	s.log.Info("running digest task")
	text := notifier.FormatDigest(s.Source.Stats(), s.Source.Mode(), s.now())
	if err := s.Notifier.Send(s.Ctx, text); err != nil {
		s.log.WithError(err).Error("send digest")
	}
}
