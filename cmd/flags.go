package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/types"
)

// optionFlags mirrors the config.Options fields settable from the command
// line. Only flags the user actually passed override the config file.
type optionFlags struct {
	filePath         string
	sourceFormat     string
	delimiter        string
	sheet            string
	scratchPath      string
	disableCacheBust bool
	fetchTimeout     time.Duration

	columnKey      string
	columnValue    []string
	fallbackColumn string
	delValue       []string

	dest       string
	outputName string
	output     []string

	debug int
}

func (f *optionFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()

	// Source
	flags.StringVar(&f.filePath, "file-path", "", "URL of the translation table (https, s3, file or a local path)")
	flags.StringVar(&f.sourceFormat, "source-format", "", "Table encoding: csv or xlsx (default inferred from the URL)")
	flags.StringVar(&f.delimiter, "delimiter", "", "CSV delimiter (default \",\")")
	flags.StringVar(&f.sheet, "sheet", "", "Workbook sheet for xlsx sources (default first sheet)")
	flags.StringVar(&f.scratchPath, "scratch-path", "", "Where the downloaded table is stored")
	flags.BoolVar(&f.disableCacheBust, "no-cache-bust", false, "Do not append _timestamp to http(s) sources")
	flags.DurationVar(&f.fetchTimeout, "fetch-timeout", 0, "Download timeout (0 = none)")

	// Columns
	flags.StringVar(&f.columnKey, "column-key", "", "Column holding the translation key")
	flags.StringSliceVar(&f.columnValue, "column-value", nil, "Language columns, comma separated")
	flags.StringVar(&f.fallbackColumn, "fallback-column", "", "Column used when a language cell is empty (default \"en\")")
	flags.StringSliceVar(&f.delValue, "del-value", nil, "Cell values written out as empty strings")

	// Output
	flags.StringVar(&f.dest, "dest", "", "Output prefix, usually a directory ending with /")
	flags.StringVar(&f.outputName, "output-name", "", "Inserted between --dest and the language code")
	flags.StringSliceVar(&f.output, "output", nil, "Formats: json, strings, yml, xml, liquid (default json)")

	flags.IntVar(&f.debug, "debug", 0, "Debug dump level 0-3")
}

func (f *optionFlags) apply(cmd *cobra.Command, opts *config.Options) {
	changed := cmd.Flags().Changed

	if changed("file-path") {
		opts.FilePath = f.filePath
	}
	if changed("source-format") {
		opts.SourceFormat = types.SourceFormat(f.sourceFormat)
	}
	if changed("delimiter") {
		opts.Delimiter = f.delimiter
	}
	if changed("sheet") {
		opts.Sheet = f.sheet
	}
	if changed("scratch-path") {
		opts.ScratchPath = f.scratchPath
	}
	if changed("no-cache-bust") {
		opts.DisableCacheBust = f.disableCacheBust
	}
	if changed("fetch-timeout") {
		opts.FetchTimeout = f.fetchTimeout
	}
	if changed("column-key") {
		opts.ColumnKey = f.columnKey
	}
	if changed("column-value") {
		opts.ColumnValue = f.columnValue
	}
	if changed("fallback-column") {
		opts.FallbackColumn = f.fallbackColumn
	}
	if changed("del-value") {
		opts.DelValue = f.delValue
	}
	if changed("dest") {
		opts.Dest = f.dest
	}
	if changed("output-name") {
		opts.OutputName = f.outputName
	}
	if changed("output") {
		opts.Output = f.output
	}
	if changed("debug") {
		opts.Debug = f.debug
	}
}
