// =============================================================================
// langcsv - Generate Command
// =============================================================================
//
// This file defines the 'generate' command, which is the main command. It
// runs one conversion for the merged options.
//
// COMMAND USAGE:
//   langcsv generate [flags]
//
// PROCESSING PIPELINE:
//   1. Load .env, the YAML options file and the command flags
//   2. Download the translation table
//   3. Build the language buckets
//   4. Write every language in every selected format
//   5. Print the run summary (--summary)
//
// EXIT STATUS:
//   Non-zero when the options are invalid, the download or parse fails, or
//   at least one file could not be written.
//
// =============================================================================

package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/langcsv/internal/converter"
	"github.com/ginjaninja78/langcsv/internal/logging"
	"github.com/ginjaninja78/langcsv/pkg/utils"
)

// =============================================================================
// GENERATE COMMAND DEFINITION
// =============================================================================

func newGenerateCmd(g *globalFlags) *cobra.Command {
	of := &optionFlags{}
	var (
		summary bool
		noColor bool
	)

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Download the translation table and write localization files",
		Long: `The generate command downloads the translation table, builds one set of
translations per language column and writes them in every selected format.

Empty cells take the value of the fallback column (en by default). Cells equal
to a delete value (**NO_TRANSLATIONS** by default) are written as "".

All files are written concurrently. The command fails if any file could not
be written; the files that were written are left in place.`,

		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd, g, of)
			if err != nil {
				return err
			}

			logger := newLogger(cmd, opts)
			color := !noColor && os.Getenv("NO_COLOR") == ""
			liner := logging.NewConsoleLiner(cmd.OutOrStdout(), color)

			startTime := time.Now()

			conv := converter.New(opts,
				converter.WithLogger(logger),
				converter.WithLiner(liner),
				converter.WithDebugOutput(cmd.OutOrStdout()),
			)
			report, runErr := conv.Run(cmd.Context())

			if summary && report != nil {
				s := report.Summary()
				s.RunID = conv.RunID()
				s.Source = opts.FilePath
				s.StartTime = startTime
				s.EndTime = time.Now()
				if err := utils.WriteSummary(cmd.OutOrStdout(), s); err != nil {
					logger.Warn("failed to print summary", "error", err)
				}
			}

			return runErr
		},
	}

	of.register(generateCmd)
	generateCmd.Flags().BoolVar(&summary, "summary", false, "Print a table of written files when done")
	generateCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output (also honors NO_COLOR)")

	return generateCmd
}
