package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/medcsv"
)

// MedsOptions holds flags shared by the meds subcommands.
type MedsOptions struct {
	*RootOptions
	Username string
	Password string
	Output   string
}

// NewMedsCommand creates the meds command group.
func NewMedsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meds",
		Short: "Manage the medication log",
	}

	cmd.AddCommand(newMedsImportCommand(rootOpts))
	cmd.AddCommand(newMedsExportCommand(rootOpts))
	cmd.AddCommand(newMedsListCommand(rootOpts))

	return cmd
}

func newMedsImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MedsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <csv-file>",
		Short: "Replace the medication log from a CSV file",
		Long: `Parse a medication CSV and replace the user's whole medication log with
its rows. The import is all-or-nothing: a bad header persists nothing,
and a storage failure leaves the previous log intact.

Use "-" to read from stdin.

Example:
  careloop meds import ./meds.csv --user demo --password demo`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMedsImport(opts, args[0], cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)

	return cmd
}

func runMedsImport(opts *MedsOptions, path string, cmd *cobra.Command) error {
	text, err := readInput(path, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read input", err)
	}

	f := opts.formatter(cmd.OutOrStdout())

	result := medcsv.Parse(text)
	if result.Err != nil {
		_ = f.Error(string(result.Err.Code), result.Err.Message, nil)
		return NewExitError(ExitFailure, result.Err.Message)
	}

	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer us.Close()

	if err := us.store.ReplaceMedications(cmd.Context(), us.sess.UserID, result.Records); err != nil {
		log := opts.logger()
		log.Error().Err(err).Msg("medication save failed")
		_ = f.Error("STORE", "could not save medications, previous log unchanged", nil)
		return WrapExitError(ExitFailure, "save failed", err)
	}

	if f.Format == "json" {
		return f.Success(map[string]interface{}{"imported": len(result.Records)})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d medication(s)\n", len(result.Records))
	return nil
}

func newMedsExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MedsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the medication log as CSV",
		Long: `Serialize the user's medication log back to CSV, header included. The
output re-imports cleanly, so it doubles as a backup format.

Example:
  careloop meds export -o backup.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMedsExport(opts, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write CSV to file instead of stdout")

	return cmd
}

func runMedsExport(opts *MedsOptions, cmd *cobra.Command) error {
	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer us.Close()

	entries, err := us.store.Medications(cmd.Context(), us.sess.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load medications", err)
	}

	csv := medcsv.Write(entries)
	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(csv), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write output file", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d medication(s) to %s\n", len(entries), opts.Output)
		return nil
	}

	fmt.Fprint(cmd.OutOrStdout(), csv)
	return nil
}

func newMedsListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MedsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "Show the medication log",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMedsList(opts, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)

	return cmd
}

func runMedsList(opts *MedsOptions, cmd *cobra.Command) error {
	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer us.Close()

	entries, err := us.store.Medications(cmd.Context(), us.sess.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load medications", err)
	}

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No medications recorded.")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s  (%s - %s)\n", e.Medication, e.Dose, e.Frequency, e.StartDate, e.EndDate)
		if e.Notes != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", e.Notes)
		}
	}
	return nil
}

// readInput reads the whole input, treating "-" as stdin.
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}
