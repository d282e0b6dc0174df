package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/careloop/careloop/internal/bodymap"
	"github.com/careloop/careloop/internal/history"
	"github.com/careloop/careloop/internal/record"
)

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	Username string
	Password string
	Labs     string
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the one-screen health overview",
		Long: `Build the health overview for the logged-in user: identity, active
medications, abnormal labs, and risk factors. Lab history comes from a
CSV file passed with --labs; without it the overview covers medications
only.

Example:
  careloop summary --user "John Smith" --password john --labs labs.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(opts, cmd)
		},
	}

	credentialFlags(cmd, &opts.Username, &opts.Password)
	cmd.Flags().StringVar(&opts.Labs, "labs", "", "path to lab results CSV")

	return cmd
}

func runSummary(opts *SummaryOptions, cmd *cobra.Command) error {
	us, err := openSession(cmd.Context(), opts.RootOptions, opts.Username, opts.Password)
	if err != nil {
		return err
	}
	defer us.Close()

	m, err := bodymap.Load()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load body system reference data", err)
	}

	patient, _, err := us.store.PatientByUserID(cmd.Context(), us.sess.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load patient profile", err)
	}

	meds, err := us.store.Medications(cmd.Context(), us.sess.UserID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load medications", err)
	}

	labs, err := loadLabsFile(opts.Labs, m)
	if err != nil {
		return err
	}

	summary := history.Summarize(patient, meds, labs)

	f := opts.formatter(cmd.OutOrStdout())
	if f.Format == "json" {
		return f.Success(summary)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderSummary(summary))
	return nil
}

// renderSummary formats the overview for terminal display.
func renderSummary(s history.HealthSummary) string {
	var b strings.Builder

	name := s.PatientName
	if name == "" {
		name = "(no linked patient)"
	}
	fmt.Fprintf(&b, "Patient: %s", name)
	if s.MRN != "" {
		fmt.Fprintf(&b, "  MRN %s", s.MRN)
	}
	if s.Age > 0 {
		fmt.Fprintf(&b, "  %d %s", s.Age, s.Gender)
	}
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Medications (%d):\n", s.TotalMedications)
	if len(s.ActiveMedications) == 0 {
		b.WriteString("  none\n")
	}
	for _, med := range s.ActiveMedications {
		fmt.Fprintf(&b, "  %s\n", med)
	}

	fmt.Fprintf(&b, "\nAbnormal labs (%d):\n", s.AbnormalLabCount)
	if len(s.AbnormalTests) == 0 {
		b.WriteString("  none\n")
	}
	for _, test := range s.AbnormalTests {
		fmt.Fprintf(&b, "  %s\n", test)
	}
	if !s.LatestLabDate.IsZero() {
		fmt.Fprintf(&b, "  latest result: %s\n", s.LatestLabDate.Format("2006-01-02"))
	}

	b.WriteString("\nRisk factors:\n")
	for _, r := range s.RiskFactors {
		fmt.Fprintf(&b, "  %s\n", r)
	}

	return b.String()
}

// loadLabsFile reads and parses a lab CSV, treating an empty path as no
// history at all.
func loadLabsFile(path string, m *bodymap.Map) ([]record.LabResult, error) {
	if path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open labs file", err)
	}
	defer file.Close()

	labs, err := history.LoadLabs(file, m)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "invalid labs file", err)
	}
	return labs, nil
}
