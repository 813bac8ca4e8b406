package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matehops/mateh/internal/report"
)

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "report",
		Short:         "Tally recent event registrations per training",
		Long:          "Count event registrations from the last two months, grouped by training.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(rootOpts, cmd)
		},
	}
}

func runReport(opts *RootOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer cleanup()

	counts, err := svc.TrainingCounts(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "training report", err)
	}

	lines := report.Lines(counts)
	if formatter.JSON() {
		return formatter.Success(lines)
	}

	if len(lines) == 0 {
		fmt.Fprintln(formatter.Writer, "no registrations in the window")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintf(formatter.Writer, "%s: %d\n", line.Training, line.Count)
	}
	return nil
}
