package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/clinichq/clinic/internal/domain/dashboard"
)

// Scheduler runs the clinic's recurring background jobs. Jobs only
// observe and log; they never mutate workflow state.
type Scheduler struct {
	cron   *cron.Cron
	stats  dashboard.Repository
	logger zerolog.Logger
}

func NewScheduler(stats dashboard.Repository, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		stats:  stats,
		logger: logger,
	}
}

// Start registers the nightly stats snapshot and begins the scheduler.
// spec is a standard cron expression, e.g. "5 0 * * *".
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.snapshotStats); err != nil {
		return err
	}
	s.cron.Start()
	s.logger.Info().Str("spec", spec).Msg("stats snapshot job scheduled")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) snapshotStats() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stats, err := s.stats.Stats(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("stats snapshot failed")
		return
	}
	s.logger.Info().
		Int("total_patients", stats.TotalPatients).
		Int("total_appointments", stats.TotalAppointments).
		Int("pending_appointments", stats.PendingAppointments).
		Int("total_lab_requests", stats.TotalLabRequests).
		Int("pending_lab_requests", stats.PendingLabRequests).
		Int("completed_today", stats.CompletedToday).
		Msg("daily stats snapshot")
}
