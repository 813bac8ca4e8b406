package sync

import (
	"context"
	"time"
)

// RunScheduled executes the named jobs in order, immediately and then
// once per interval, until ctx is cancelled. A failing job is logged
// and does not stop the cycle or the loop; the jobs share whatever
// partial-success semantics they have when run by hand.
//
// Intended to run in its own goroutine next to the HTTP server.
func (s *Service) RunScheduled(ctx context.Context, interval time.Duration, jobs []string) {
	s.log.Info("job scheduler started", "interval", interval.String(), "jobs", jobs)

	s.runCycle(ctx, jobs)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("job scheduler stopped")
			return
		case <-ticker.C:
			s.runCycle(ctx, jobs)
		}
	}
}

// runCycle runs one pass over the scheduled job list. Scheduled runs
// never use full mode; reprocessing already-filled fields is an
// operator decision, not a cron one.
func (s *Service) runCycle(ctx context.Context, jobs []string) {
	start := time.Now()
	for _, name := range jobs {
		if ctx.Err() != nil {
			return
		}
		// Run logs each job's outcome, success or failure.
		_, _ = s.Run(ctx, name, false)
	}
	s.log.Info("scheduled cycle completed",
		"jobs", len(jobs), "duration_ms", time.Since(start).Milliseconds())
}
