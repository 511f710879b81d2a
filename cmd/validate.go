// =============================================================================
// langcsv - Validate Command
// =============================================================================
//
// This file defines the 'validate' command. It checks the merged options
// without writing any output file.
//
// COMMAND USAGE:
//   langcsv validate [--check-source] [flags]
//
// With --check-source the table is also downloaded and its header checked
// against the column mapping.
//
// =============================================================================

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/langcsv/internal/converter"
	"github.com/ginjaninja78/langcsv/internal/validation"
)

func newValidateCmd(g *globalFlags) *cobra.Command {
	of := &optionFlags{}
	var checkSource bool

	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate options without generating files",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := loadOptions(cmd, g, of)
			if err != nil {
				return err
			}

			findings := validation.ValidateOptions(opts)

			if checkSource && !validation.HasErrors(findings) {
				conv := converter.New(opts, converter.WithLogger(newLogger(cmd, opts)))
				table, err := conv.Load(cmd.Context())
				if err != nil {
					return err
				}
				findings = append(findings, validation.ValidateTable(opts, table)...)
			}

			fmt.Fprint(cmd.OutOrStdout(), validation.FormatErrors(findings))
			return validation.AsError(findings)
		},
	}

	of.register(validateCmd)
	validateCmd.Flags().BoolVar(&checkSource, "check-source", false, "Also download the table and check its header")

	return validateCmd
}
