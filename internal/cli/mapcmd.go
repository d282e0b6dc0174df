package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/bodymap"
)

// MapOptions holds flags for the map command.
type MapOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewMapCommand creates the map command.
func NewMapCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MapOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "map [medication...]",
		Short: "Map medications to affected body systems",
		Long: `Map medication names to the body systems they affect. With no
arguments the user's stored medication log is mapped; explicit names
skip the store entirely.

Lookups are case-insensitive and unrecognized names are ignored, so the
output only ever names known systems.

Example:
  careloop map
  careloop map Metformin lisinopril`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMap(opts, args, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)

	return cmd
}

func runMap(opts *MapOptions, args []string, cmd *cobra.Command) error {
	m, err := bodymap.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load body system reference data", err)
	}

	names := args
	if len(names) == 0 {
		us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
		if err != nil {
			return err
		}
		defer us.Close()

		entries, err := us.store.Medications(cmd.Context(), us.sess.UserID)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to load medications", err)
		}
		for _, e := range entries {
			names = append(names, e.Medication)
		}
	}

	points := m.SystemsFor(names)

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(points)
	}

	if len(points) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No known medications to map.")
		return nil
	}
	for _, p := range points {
		line := fmt.Sprintf("%-16s (%.2f, %.2f)  %s", p.System, p.X, p.Y, p.Color)
		if tests := m.TestsFor(p.System); len(tests) > 0 {
			line += "  tracks " + strings.Join(tests, ", ")
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
