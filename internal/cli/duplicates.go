package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// NewDuplicatesCommand creates the duplicates command.
func NewDuplicatesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicates <table>",
		Short: "List rows sharing a phone number",
		Long: `Group the rows of one table by normalized phone number and list the
groups with more than one row. <table> is "activists" or
"registrations".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDuplicates(rootOpts, args[0], cmd)
		},
	}
}

func runDuplicates(opts *RootOptions, table string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts)
	if err != nil {
		return err
	}
	defer cleanup()

	var groups map[string][]string
	switch table {
	case "activists":
		groups, err = svc.DuplicateActivists(cmd.Context())
	case "registrations":
		groups, err = svc.DuplicateRegistrations(cmd.Context())
	default:
		return NewExitError(ExitCommandError, fmt.Sprintf("unknown table %q: must be activists or registrations", table))
	}
	if err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("duplicates in %s", table), err)
	}

	if formatter.JSON() {
		return formatter.Success(groups)
	}

	if len(groups) == 0 {
		fmt.Fprintln(formatter.Writer, "no duplicates")
		return nil
	}
	phones := make([]string, 0, len(groups))
	for phone := range groups {
		phones = append(phones, phone)
	}
	sort.Strings(phones)
	for _, phone := range phones {
		fmt.Fprintf(formatter.Writer, "%s: %s\n", phone, strings.Join(groups[phone], ", "))
	}
	return nil
}
