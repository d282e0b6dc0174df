package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // path to the SQLite database
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// envDatabase names the environment variable that supplies the database
// path when --db is not given. A .env file in the working directory is
// loaded first, so the path can live there too.
const envDatabase = "CARELOOP_DB"

// NewRootCommand creates the root command for the careloop CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "careloop",
		Short: "careloop - personal health record CLI",
		Long:  "A local-first personal health record: medication log, body system mapping, and lab history for a single patient.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			// A missing .env is fine; flags and the environment still apply.
			_ = godotenv.Load()
			if opts.Database == "" {
				opts.Database = os.Getenv(envDatabase)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "path to SQLite database (defaults to $CARELOOP_DB)")

	// Add subcommands
	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewMedsCommand(opts))
	cmd.AddCommand(NewMapCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewTimelineCommand(opts))

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

// logger builds the diagnostic logger for a command. Output goes to stderr
// so it never mixes with JSON payloads on stdout.
func (o *RootOptions) logger() zerolog.Logger {
	level := zerolog.WarnLevel
	if o.Verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}
