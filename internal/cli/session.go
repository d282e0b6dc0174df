package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/session"
	"github.com/careloop/careloop/internal/store"
)

// credentialFlags attaches the --user and --password flags every data
// command needs. Defaults match the seeded demo account.
func credentialFlags(cmd *cobra.Command, username, password *string) {
	cmd.Flags().StringVarP(username, "user", "u", store.DemoUsername, "account username")
	cmd.Flags().StringVarP(password, "password", "p", store.DemoPassword, "account password")
}

// userSession bundles an open store with the resolved session for one
// command invocation. Callers must Close it.
type userSession struct {
	store *store.SQLite
	sess  session.Session
}

func (s *userSession) Close() error {
	return s.store.Close()
}

// openSession opens the database, initializes the session state machine,
// and logs the user in. Every command that touches user data goes through
// here: no session, no data.
func openSession(ctx context.Context, opts *RootOptions, username, password string) (*userSession, error) {
	if opts.Database == "" {
		return nil, NewExitError(ExitCommandError, "no database path: set --db or "+envDatabase)
	}

	st, err := store.Open(opts.Database, store.WithLogger(opts.logger()))
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}

	resolver := session.NewResolver(st, session.WithLogger(opts.logger()))
	if err := resolver.Init(ctx); err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "failed to initialize session", err)
	}

	ok, err := resolver.Login(ctx, username, password)
	if err != nil {
		_ = st.Close()
		return nil, WrapExitError(ExitCommandError, "login failed", err)
	}
	if !ok {
		_ = st.Close()
		return nil, NewExitError(ExitFailure, "invalid credentials")
	}

	return &userSession{store: st, sess: resolver.Current()}, nil
}
