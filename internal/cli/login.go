package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Username string
	Password string
}

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify credentials and print the resolved session",
		Long: `Verify credentials against the account store and print the resolved
session. The session is per invocation; data commands log in again
themselves.

Example:
  careloop login --db ./careloop.db --user "John Smith" --password john`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogin(opts, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)

	return cmd
}

func runLogin(opts *LoginOptions, cmd *cobra.Command) error {
	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		f := opts.formatter(cmd.OutOrStdout())
		if GetExitCode(err) == ExitFailure {
			_ = f.Error("AUTH", "invalid credentials", nil)
		}
		return err
	}
	defer us.Close()

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(us.sess)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (user %d)\n", us.sess.PatientName, us.sess.UserID)
	fmt.Fprintf(cmd.OutOrStdout(), "Session token: %s\n", us.sess.Token)
	return nil
}
