// Package cli implements the matehctl command line interface: the sync
// jobs and reports of the service, runnable from a shell or a cron
// entry without the HTTP server in between.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// NewService builds the sync service a command runs against.
	// Production wiring reads the environment; tests inject fakes.
	NewService ServiceBuilder
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for matehctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{NewService: buildService}

	cmd := &cobra.Command{
		Use:   "matehctl",
		Short: "Activist base sync and reporting",
		Long: `matehctl runs the activist-base reconciliation jobs and reports
against the configured Baserow base. Configuration comes from the
environment (or a .env file in the working directory), the same
variables the server reads.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewJobsCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewDuplicatesCommand(opts))
	cmd.AddCommand(NewContactsCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
