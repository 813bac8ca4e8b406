package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matehops/mateh/internal/sync"
)

// ContactsOptions holds flags for the contacts subcommands.
type ContactsOptions struct {
	*RootOptions
	Output string
}

// NewContactsCommand creates the contacts command group.
func NewContactsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ContactsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Export activists to a phone's address book",
		Long: `Work the contact-save queue: vetted activists with a phone number
whose saved-as-contact flag is still off.`,
	}

	list := &cobra.Command{
		Use:           "list",
		Short:         "List the contacts awaiting save",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listContacts(opts, cmd)
		},
	}

	export := &cobra.Command{
		Use:           "export",
		Short:         "Write the pending contacts as an importable CSV",
		Long:          "Write the pending contacts as a CSV the Google Contacts importer accepts. Ignores --format; the output is always CSV.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportContacts(opts, cmd)
		},
	}
	export.Flags().StringVarP(&opts.Output, "output", "o", "", "write to file instead of stdout")

	markSaved := &cobra.Command{
		Use:           "mark-saved <uuid>",
		Short:         "Flip the saved flag on one contact",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return markContactSaved(opts, args[0], cmd)
		},
	}

	cmd.AddCommand(list)
	cmd.AddCommand(export)
	cmd.AddCommand(markSaved)

	return cmd
}

func listContacts(opts *ContactsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	contacts, err := svc.ContactsPendingSave(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "pending contacts", err)
	}

	if formatter.JSON() {
		return formatter.Success(contacts)
	}

	if len(contacts) == 0 {
		fmt.Fprintln(formatter.Writer, "no contacts pending")
		return nil
	}
	for _, c := range contacts {
		fmt.Fprintf(formatter.Writer, "%s\t%s\n", c.Phone, c.Name)
	}
	return nil
}

func exportContacts(opts *ContactsOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	contacts, err := svc.ContactsPendingSave(cmd.Context())
	if err != nil {
		return WrapExitError(ExitFailure, "pending contacts", err)
	}

	var out io.Writer = cmd.OutOrStdout()
	if opts.Output != "" {
		f, err := os.Create(opts.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "create output file", err)
		}
		defer f.Close()
		out = f
	}

	cw := csv.NewWriter(out)
	if err := cw.Write([]string{"Name", "Phone 1 - Type", "Phone 1 - Value"}); err != nil {
		return WrapExitError(ExitFailure, "write CSV", err)
	}
	for _, c := range contacts {
		if err := cw.Write([]string{c.Name, "Mobile", c.Phone}); err != nil {
			return WrapExitError(ExitFailure, "write CSV", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return WrapExitError(ExitFailure, "write CSV", err)
	}

	formatter.VerboseLog("exported %d contacts", len(contacts))
	return nil
}

func markContactSaved(opts *ContactsOptions, id string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	svc, cleanup, err := opts.NewService(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.MarkContactSaved(cmd.Context(), id); err != nil {
		switch {
		case errors.Is(err, sync.ErrInvalidContactID), errors.Is(err, sync.ErrContactNotFound):
			return WrapExitError(ExitCommandError, "mark saved", err)
		default:
			return WrapExitError(ExitFailure, "mark saved", err)
		}
	}

	if formatter.JSON() {
		return formatter.Success(map[string]string{"status": "saved", "uuid": id})
	}
	fmt.Fprintf(formatter.Writer, "contact %s marked saved\n", id)
	return nil
}
