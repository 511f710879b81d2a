// =============================================================================
// langcsv - Converter Module
// =============================================================================
//
// This module contains the orchestration of one generation run, from the
// remote translation table to the files on disk.
//
// CONVERSION PIPELINE:
//   1. Validate the options
//   2. Create the destination directory
//   3. Download the table into the scratch file
//   4. Parse the scratch file (CSV or XLSX)
//   5. Build one bucket per language
//   6. Write every bucket in every selected format
//   7. Run the completion callback when every file was written
//
// CONCURRENCY:
//   Steps 1-5 run sequentially; the download has to finish before parsing.
//   Step 6 writes all files concurrently and joins them.
//
// =============================================================================

package converter

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/csvparser"
	"github.com/ginjaninja78/langcsv/internal/debug"
	"github.com/ginjaninja78/langcsv/internal/fetcher"
	"github.com/ginjaninja78/langcsv/internal/logging"
	"github.com/ginjaninja78/langcsv/internal/types"
	"github.com/ginjaninja78/langcsv/internal/validation"
	"github.com/ginjaninja78/langcsv/internal/writer"
	"github.com/ginjaninja78/langcsv/internal/xlsxparser"
	"github.com/ginjaninja78/langcsv/pkg/utils"
)

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Converter runs the generation pipeline for one set of options.
type Converter struct {
	// opts is a private copy of the caller's options with defaults applied.
	opts *config.Options

	// fetcher downloads the source table.
	fetcher fetcher.Fetcher

	// logger carries the run_id attribute of this converter.
	logger *slog.Logger
	runID  string

	// liner prints the user-facing "Translation generated!" lines.
	liner logging.Liner

	// debugOut receives the debug dumps.
	debugOut io.Writer

	// now is used for cache busting.
	now func() time.Time
}

// Option configures a Converter.
type Option func(*Converter)

// WithFetcher replaces the scheme router built from the options.
func WithFetcher(f fetcher.Fetcher) Option {
	return func(c *Converter) { c.fetcher = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Converter) { c.logger = l }
}

// WithLiner sets the progress line printer.
func WithLiner(l logging.Liner) Option {
	return func(c *Converter) { c.liner = l }
}

// WithDebugOutput sets where debug dumps go. Default: stdout.
func WithDebugOutput(w io.Writer) Option {
	return func(c *Converter) { c.debugOut = w }
}

// WithClock sets the time source used for cache busting.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) { c.now = now }
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a new Converter instance.
//
// PARAMETERS:
//   - opts: The invocation options. They are copied; defaults are applied to
//     the copy.
//   - options: Collaborators to override (fetcher, logger, liner, ...).
//
// RETURNS:
//   - A new Converter instance tagged with a fresh run ID.
func New(opts *config.Options, options ...Option) *Converter {
	resolved := *opts
	resolved.ApplyDefaults()

	c := &Converter{
		opts:     &resolved,
		logger:   slog.Default(),
		liner:    logging.NopLiner{},
		debugOut: os.Stdout,
		now:      time.Now,
	}

	for _, option := range options {
		option(c)
	}

	if c.fetcher == nil {
		c.fetcher = DefaultFetcher(c.opts)
	}
	c.logger, c.runID = logging.WithRun(c.logger)

	return c
}

// DefaultFetcher routes http(s), s3 and local sources.
func DefaultFetcher(opts *config.Options) fetcher.Fetcher {
	s3cfg := fetcher.S3Config{
		Region:    opts.S3.Region,
		Endpoint:  opts.S3.Endpoint,
		AccessKey: opts.S3.AccessKey,
		SecretKey: opts.S3.SecretKey,
		PathStyle: opts.S3.PathStyle,
	}

	return fetcher.NewRouter().
		Handle(fetcher.NewHTTPFetcher(nil), "http", "https").
		Handle(fetcher.NewS3Fetcher(s3cfg), "s3").
		Handle(fetcher.LocalFetcher{}, "file")
}

// RunID returns the identifier attached to every log entry of this converter.
func (c *Converter) RunID() string { return c.runID }

// Options returns the resolved options.
func (c *Converter) Options() *config.Options { return c.opts }

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the generation pipeline.
//
// RETURNS:
//   - The write report. Nil when the run stopped before planning writes.
//   - ErrInvalidOptions, a fetch or parse error, or the joined write errors.
//
// The completion callback runs only when the error is nil.
func (c *Converter) Run(ctx context.Context) (*writer.Report, error) {
	opts := c.opts

	// =========================================================================
	// STEP 1: VALIDATE OPTIONS
	// =========================================================================

	findings := validation.ValidateOptions(opts)
	c.logFindings(findings)
	if err := validation.AsError(findings); err != nil {
		return nil, err
	}

	formats, _ := opts.Formats()

	// =========================================================================
	// STEP 2: PREPARE DESTINATION
	// =========================================================================
	// A failure here is not fatal: the per-file writes report their own errors.

	if err := utils.EnsureDir(opts.Dest); err != nil {
		c.logger.Error("failed to create destination", "dest", opts.Dest, "error", err)
	}

	// =========================================================================
	// STEP 3-4: FETCH AND PARSE
	// =========================================================================

	table, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	c.logFindings(validation.ValidateTable(opts, table))

	if opts.Debug == debug.LevelTable {
		debug.Rows(c.debugOut, table)
		debug.Options(c.debugOut, opts)
	}

	// =========================================================================
	// STEP 5: TRANSFORM
	// =========================================================================

	transformer := NewTransformer(opts)
	if opts.Debug == debug.LevelCells {
		transformer.WithTrace(func(language, key, value string) {
			debug.Cell(c.debugOut, language, key, value)
		})
	}

	buckets := transformer.Transform(table.Rows)

	if opts.Debug == debug.LevelOutput {
		for _, b := range buckets {
			data, err := b.JSON()
			if err != nil {
				c.logger.Warn("failed to render debug output", "language", b.Language(), "error", err)
				continue
			}
			debug.Language(c.debugOut, b.Language(), data)
		}
	}

	// =========================================================================
	// STEP 6-7: WRITE AND JOIN
	// =========================================================================

	sources := make([]writer.Source, len(buckets))
	for i, b := range buckets {
		sources[i] = b
	}

	tasks := writer.Plan(sources, formats, opts.Dest, opts.OutputName)
	c.logger.Info("writing translations",
		"languages", len(buckets),
		"formats", len(formats),
		"files", len(tasks))

	report, err := writer.New(c.logger, c.liner).Write(ctx, tasks, opts.OnComplete)
	if err != nil {
		return report, err
	}

	c.logger.Info("translations generated", "files", len(report.Written))
	return report, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// Load downloads the source into the scratch file and parses it.
// It does not validate options.
func (c *Converter) Load(ctx context.Context) (*types.Table, error) {
	opts := c.opts

	source := opts.FilePath
	if !opts.DisableCacheBust {
		source = fetcher.WithCacheBust(source, c.now())
	}

	fetchCtx := ctx
	if opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, opts.FetchTimeout)
		defer cancel()
	}

	c.logger.Debug("fetching translation table", "source", source, "scratch", opts.ScratchPath)

	if err := fetcher.Download(fetchCtx, c.fetcher, source, opts.ScratchPath); err != nil {
		c.logger.Error("failed to fetch translation table", "source", opts.FilePath, "error", err)
		return nil, fmt.Errorf("failed to fetch %s: %w", opts.FilePath, err)
	}

	var (
		table *types.Table
		err   error
	)
	switch opts.SourceFormat {
	case types.SourceXLSX:
		table, err = xlsxparser.Parse(opts.ScratchPath, opts.Sheet)
	default:
		settings := csvparser.DefaultSettings()
		settings.Delimiter = opts.Delimiter
		table, err = csvparser.Parse(opts.ScratchPath, settings)
	}
	if err != nil {
		c.logger.Error("failed to parse translation table", "path", opts.ScratchPath, "error", err)
		return nil, fmt.Errorf("failed to parse %s: %w", opts.ScratchPath, err)
	}

	c.logger.Debug("parsed translation table", "rows", len(table.Rows), "columns", len(table.Headers))
	return table, nil
}

func (c *Converter) logFindings(findings []*validation.ValidationError) {
	for _, f := range findings {
		level := slog.LevelWarn
		if f.Severity == validation.SeverityError {
			level = slog.LevelError
		}
		c.logger.Log(context.Background(), level, f.Message, "field", f.Field, "value", f.Value)
	}
}
