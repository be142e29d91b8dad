package jobs

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// Sweeper removes notes left behind by deleted users.
type Sweeper interface {
	SweepOrphans(ctx context.Context) (int64, error)
}

// OrphanSweepJob deletes notes whose author no longer exists.
type OrphanSweepJob struct {
	notes   Sweeper
	logger  logging.Logger
	timeout time.Duration
}

func NewOrphanSweepJob(s Sweeper, l logging.Logger, timeout time.Duration) *OrphanSweepJob {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &OrphanSweepJob{notes: s, logger: l.With("job", "orphan_sweep"), timeout: timeout}
}

// Run implements cron.Job.
func (j *OrphanSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	n, err := j.notes.SweepOrphans(ctx)
	if err != nil {
		j.logger.Warn(ctx, "Orphan sweep failed", "error", err)
		return
	}
	if n > 0 {
		j.logger.Info(ctx, "Orphan notes removed", "count", n)
		return
	}
	j.logger.Debug(ctx, "Orphan sweep found nothing")
}
