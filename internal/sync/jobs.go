package sync

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrUnknownJob is returned by Run for a job name that does not exist.
var ErrUnknownJob = errors.New("sync: unknown job")

// Job is one runnable reconciliation operation, exposed by name to the
// CLI, the HTTP trigger and the scheduler.
type Job struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	run func(ctx context.Context, full bool) (Result, error)
}

// Jobs lists the runnable operations in pipeline order. The full flag
// accepted by Run only affects the two fill jobs; the others always
// scan whatever their filters select.
func (s *Service) Jobs() []Job {
	return []Job{
		{
			Name:        "validate-ids",
			Description: "check identity numbers and mark each activist's id-valid field",
			run: func(ctx context.Context, _ bool) (Result, error) {
				return s.ValidateIDs(ctx)
			},
		},
		{
			Name:        "fill-emails",
			Description: "fill activist emails from event registrations by phone number",
			run:         s.FillEmails,
		},
		{
			Name:        "fill-facebook",
			Description: "fill activist facebook profiles from registrations and the phone database",
			run:         s.FillFacebook,
		},
		{
			Name:        "fill-names",
			Description: "fill registry names from the configured person-lookup engines",
			run: func(ctx context.Context, _ bool) (Result, error) {
				return s.FillNames(ctx)
			},
		},
		{
			Name:        "fill-birthdays",
			Description: "fill registry birth dates for activists with a valid id",
			run: func(ctx context.Context, _ bool) (Result, error) {
				return s.FillBirthdays(ctx)
			},
		},
		{
			Name:        "link-recruits",
			Description: "mark recruitment candidates and link recruitment rows to activists",
			run: func(ctx context.Context, _ bool) (Result, error) {
				return s.LinkRecruitment(ctx)
			},
		},
		{
			Name:        "ensure-uuids",
			Description: "assign a uuid to every activist row missing one",
			run: func(ctx context.Context, _ bool) (Result, error) {
				return s.EnsureUUIDs(ctx)
			},
		},
	}
}

// Run executes the named job and logs its aggregate outcome. The
// returned Result carries the job name and wall-clock duration; it is
// partial when err is non-nil.
func (s *Service) Run(ctx context.Context, name string, full bool) (Result, error) {
	for _, job := range s.Jobs() {
		if job.Name != name {
			continue
		}

		start := time.Now()
		res, err := job.run(ctx, full)
		res.Job = name
		res.Duration = time.Since(start)

		if err != nil {
			s.log.Error("job failed",
				"job", name, "scanned", res.Scanned, "updated", res.Updated,
				"failed", res.Failed, "duration_ms", res.Duration.Milliseconds(),
				"error", err)
			return res, err
		}
		s.log.Info("job finished",
			"job", name, "scanned", res.Scanned, "updated", res.Updated,
			"failed", res.Failed, "duration_ms", res.Duration.Milliseconds())
		return res, nil
	}
	return Result{}, fmt.Errorf("%w: %q", ErrUnknownJob, name)
}
