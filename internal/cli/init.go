package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/store"
)

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the database and seed demo accounts",
		Long: `Create the SQLite database (if it does not exist), apply the schema,
and seed the demo accounts. Running init again is harmless; existing
accounts are left alone.

Example:
  careloop init --db ./careloop.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}

	return cmd
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	if opts.Database == "" {
		return NewExitError(ExitCommandError, "no database path: set --db or "+envDatabase)
	}

	log := opts.logger()
	log.Debug().Str("path", opts.Database).Msg("opening database")

	st, err := store.Open(opts.Database, store.WithLogger(log))
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error().Err(closeErr).Msg("error closing database")
		}
	}()

	if err := store.Seed(cmd.Context(), st); err != nil {
		return WrapExitError(ExitCommandError, "failed to seed accounts", err)
	}

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(map[string]interface{}{
			"database": opts.Database,
			"accounts": []string{store.DemoUsername, store.SampleUsername},
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Database ready: %s\n", opts.Database)
	fmt.Fprintf(cmd.OutOrStdout(), "Seeded accounts: %s, %s\n", store.DemoUsername, store.SampleUsername)
	return nil
}
