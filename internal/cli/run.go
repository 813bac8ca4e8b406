package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/matehops/mateh/internal/sync"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Full bool
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <job>",
		Short: "Run one sync job against the base",
		Long: `Run one named reconciliation job against the configured base.

Use "matehctl jobs" for the list of job names. With --full, jobs that
normally skip already-filled rows rescan everything.

Example:
  matehctl run validate-ids
  matehctl run fill-emails --full`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Full, "full", false, "rescan rows whose fields are already filled")

	return cmd
}

// runResult is a job result plus its duration in milliseconds.
type runResult struct {
	sync.Result
	DurationMS int64 `json:"duration_ms"`
}

func runJob(opts *RunOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	formatter.VerboseLog("running job %s (full=%v)", name, opts.Full)
	res, err := svc.Run(cmd.Context(), name, opts.Full)
	if err != nil {
		if errors.Is(err, sync.ErrUnknownJob) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("unknown job %q", name), err)
		}
		return WrapExitError(ExitFailure, fmt.Sprintf("job %s", name), err)
	}

	if formatter.JSON() {
		return formatter.Success(runResult{Result: res, DurationMS: res.Duration.Milliseconds()})
	}

	fmt.Fprintf(formatter.Writer, "Job %s finished in %s: scanned %d, updated %d, failed %d\n",
		res.Job, res.Duration.Round(time.Millisecond), res.Scanned, res.Updated, res.Failed)
	return nil
}
