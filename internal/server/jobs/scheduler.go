// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	cron   *cron.Cron
	logger logging.Logger
	jobs   int
}

func NewScheduler(l logging.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger: l.With("module", "scheduler"),
	}
}

// Add schedules job on spec ("@every 1h", "0 3 * * *"). An empty spec
// disables the job.
func (s *Scheduler) Add(spec string, job cron.Job) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddJob(spec, job); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}
	s.jobs++
	return nil
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return s.jobs
}

// Run starts the scheduler and blocks until ctx is cancelled, then waits
// for running jobs to finish.
func (s *Scheduler) Run(ctx context.Context) error {
	s.cron.Start()
	s.logger.Info(ctx, "Scheduler started", "jobs", s.jobs)

	<-ctx.Done()

	s.logger.Info(ctx, "Stopping scheduler...")
	<-s.cron.Stop().Done()
	return nil
}
