// =============================================================================
// langcsv - Output Writer Module
// =============================================================================
//
// This module writes every language bucket in every selected format and joins
// the writes into a single completion signal.
//
// FILE LAYOUT (paths are plain concatenation, dest is a prefix):
//
//   json    <dest><name><lang>.json
//   strings <dest><name><lang>.lproj/Localizable.strings
//   yml     <dest><name><lang>.yml
//   xml     <dest><name>values-<lang>/strings.xml
//   liquid  <dest><name><lang>.liquid
//
// COMPLETION:
//   All writes run concurrently and are joined with an errgroup. A failed
//   write never cancels its siblings. The completion callback runs once,
//   after the join, and only when every planned file was written.
//
// =============================================================================

package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ginjaninja78/langcsv/internal/logging"
	"github.com/ginjaninja78/langcsv/internal/types"
	"github.com/ginjaninja78/langcsv/pkg/utils"
)

// =============================================================================
// PLANNING
// =============================================================================

// Source is one language worth of rendered output.
type Source interface {
	Language() string
	Render(format types.Format) ([]byte, error)
}

// Task is one planned file write.
type Task struct {
	Source Source
	Format types.Format

	// Dir is created before the write. Empty when the file sits directly
	// under the destination prefix.
	Dir string

	// Path is the file to create or truncate.
	Path string
}

// Plan expands sources x formats into write tasks, sources outermost.
//
// PARAMETERS:
//   - sources: the language buckets, in discovery order.
//   - formats: the deduplicated output formats.
//   - dest: directory prefix, concatenated as is ("out/").
//   - outputName: inserted between dest and the language code.
func Plan(sources []Source, formats []types.Format, dest, outputName string) []Task {
	prefix := dest + outputName
	tasks := make([]Task, 0, len(sources)*len(formats))

	for _, src := range sources {
		lang := src.Language()
		for _, format := range formats {
			task := Task{Source: src, Format: format}

			switch format {
			case types.FormatJSON:
				task.Path = prefix + lang + ".json"
			case types.FormatStrings:
				task.Dir = prefix + lang + ".lproj"
				task.Path = task.Dir + "/Localizable.strings"
			case types.FormatYAML:
				task.Path = prefix + lang + ".yml"
			case types.FormatXML:
				task.Dir = prefix + "values-" + lang
				task.Path = task.Dir + "/strings.xml"
			case types.FormatLiquid:
				task.Path = prefix + lang + ".liquid"
			default:
				continue
			}

			tasks = append(tasks, task)
		}
	}

	return tasks
}

// =============================================================================
// REPORT
// =============================================================================

// Failure records a file that could not be written.
type Failure struct {
	Path string
	Err  error
}

// Report is the outcome of one Write.
type Report struct {
	// Expected is the number of planned writes.
	Expected int

	// Written lists the created files, sorted.
	Written []string

	// Failures lists failed writes in the order they happened.
	Failures []Failure
}

// Complete reports whether every planned file was written.
func (r *Report) Complete() bool {
	return r.Failures == nil && len(r.Written) == r.Expected
}

// Err joins every failure, the first one first. Nil when nothing failed.
func (r *Report) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f.Err
	}
	return errors.Join(errs...)
}

// Summary converts the report for utils.WriteSummary.
func (r *Report) Summary() utils.RunSummary {
	s := utils.RunSummary{Expected: r.Expected, Written: r.Written}
	for _, f := range r.Failures {
		s.Failed = append(s.Failed, utils.FailedFile{Path: f.Path, ErrorMessage: f.Err.Error()})
	}
	return s
}

// =============================================================================
// WRITER
// =============================================================================

// Writer performs planned writes.
type Writer struct {
	logger *slog.Logger
	liner  logging.Liner
}

// New creates a Writer. Nil arguments fall back to the default logger and a
// silent liner.
func New(logger *slog.Logger, liner logging.Liner) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if liner == nil {
		liner = logging.NopLiner{}
	}
	return &Writer{logger: logger, liner: liner}
}

// Write runs every task concurrently and waits for all of them.
// onComplete, when not nil, runs exactly once after the join if every task
// succeeded. The returned error joins all failures.
//
// ctx is only checked before the writes start; in-flight writes are not
// cancelled.
func (w *Writer) Write(ctx context.Context, tasks []Task, onComplete func()) (*Report, error) {
	report := &Report{Expected: len(tasks)}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)

	for _, task := range tasks {
		g.Go(func() error {
			err := w.writeOne(task)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failures = append(report.Failures, Failure{Path: task.Path, Err: err})
				return err
			}
			report.Written = append(report.Written, task.Path)
			return nil
		})
	}

	// The first error is also in report.Failures; the join below keeps all of them.
	_ = g.Wait()

	sort.Strings(report.Written)

	if err := report.Err(); err != nil {
		w.logger.Error("translation files incomplete",
			"expected", report.Expected,
			"written", len(report.Written),
			"failed", len(report.Failures))
		return report, err
	}

	if onComplete != nil {
		onComplete()
	}

	return report, nil
}

func (w *Writer) writeOne(task Task) error {
	if task.Dir != "" {
		if err := utils.EnsureDir(task.Dir); err != nil {
			w.logger.Error("failed to create output directory", "dir", task.Dir, "error", err)
		}
	}

	data, err := task.Source.Render(task.Format)
	if err != nil {
		w.logger.Error("failed to render translations",
			"language", task.Source.Language(),
			"format", task.Format,
			"error", err)
		return fmt.Errorf("render %s: %w", task.Path, err)
	}

	if err := utils.WriteFile(task.Path, data); err != nil {
		w.logger.Error("failed to write translations", "path", task.Path, "error", err)
		return err
	}

	w.liner.Line("Translation generated! > '" + logging.Emphasize(w.liner, utils.DisplayPath(task.Path)) + "'")
	return nil
}
