package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/bodymap"
	"github.com/careloop/careloop/internal/history"
)

// TimelineOptions holds flags for the timeline command.
type TimelineOptions struct {
	*RootOptions
	Username string
	Password string
	Labs     string
	Limit    int
}

// NewTimelineCommand creates the timeline command.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TimelineOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show recent health events, newest first",
		Long: `Merge lab results and medication start dates into one chronology,
newest first. Lab history comes from a CSV file passed with --labs.

Example:
  careloop timeline --labs labs.csv --limit 10`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTimeline(opts, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)
	cmd.Flags().StringVar(&opts.Labs, "labs", "", "path to lab results CSV")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of events to show")

	return cmd
}

func runTimeline(opts *TimelineOptions, cmd *cobra.Command) error {
	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer us.Close()

	m, err := bodymap.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load body system reference data", err)
	}

	meds, err := us.store.Medications(cmd.Context(), us.sess.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load medications", err)
	}

	labs, err := loadLabsFile(opts.Labs, m)
	if err != nil {
		return err
	}

	events := history.Timeline(labs, meds)
	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(events)
	}

	if len(events) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No events to show.")
		return nil
	}
	for _, e := range events {
		line := fmt.Sprintf("%s  %-18s %s", e.Date.Format("2006-01-02"), e.Type, e.Description)
		if e.Status != "" {
			line += fmt.Sprintf(" [%s]", e.Status)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
