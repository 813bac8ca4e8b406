package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewJobsCommand creates the jobs command.
func NewJobsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "jobs",
		Short:         "List the runnable sync jobs",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listJobs(rootOpts, cmd)
		},
	}
}

func listJobs(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer cleanup()

	jobs := svc.Jobs()
	if formatter.JSON() {
		return formatter.Success(jobs)
	}

	for _, j := range jobs {
		fmt.Fprintf(formatter.Writer, "%-15s %s\n", j.Name, j.Description)
	}
	return nil
}
