// Package pipeline adapts a conversion run to a build pipeline step.
//
// A step receives items from an upstream stage and hands them, unchanged, to
// the next one. Receiving a buffered item is what triggers generation; the
// item's own contents are not read.
package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/ginjaninja78/langcsv/internal/writer"
)

// ErrStreamingNotSupported is returned for items whose contents are a stream.
var ErrStreamingNotSupported = errors.New("pipeline: streams are not supported")

// Item is a unit flowing through a pipeline.
type Item struct {
	// Path identifies the item upstream.
	Path string

	// Contents is set for buffered items.
	Contents []byte

	// Stream is set for streamed items.
	Stream io.Reader
}

// IsNull reports whether the item carries no contents at all.
func (i Item) IsNull() bool { return i.Contents == nil && i.Stream == nil }

// IsStream reports whether the item carries a stream.
func (i Item) IsStream() bool { return i.Stream != nil }

// Runner runs one generation.
type Runner interface {
	Run(ctx context.Context) (*writer.Report, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(ctx context.Context) (*writer.Report, error)

// Run implements Runner.
func (f RunnerFunc) Run(ctx context.Context) (*writer.Report, error) { return f(ctx) }

// Step triggers a Runner for every buffered item.
type Step struct {
	runner  Runner
	logger  *slog.Logger
	onError func(error)
}

// StepOption configures a Step.
type StepOption func(*Step)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(l *slog.Logger) StepOption {
	return func(s *Step) { s.logger = l }
}

// OnError registers a callback receiving generation errors. Generation
// errors never fail the item itself.
func OnError(fn func(error)) StepOption {
	return func(s *Step) { s.onError = fn }
}

// NewStep creates a Step.
func NewStep(runner Runner, opts ...StepOption) *Step {
	s := &Step{runner: runner, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Process handles one item and returns it for the next stage.
//
//   - null items pass through untouched
//   - streamed items pass through with ErrStreamingNotSupported
//   - buffered items run the generation, then pass through
func (s *Step) Process(ctx context.Context, item Item) (Item, error) {
	if item.IsNull() {
		return item, nil
	}

	if item.IsStream() {
		s.logger.Error("streaming not supported", "path", item.Path)
		return item, ErrStreamingNotSupported
	}

	if _, err := s.runner.Run(ctx); err != nil {
		s.logger.Error("translation generation failed", "path", item.Path, "error", err)
		if s.onError != nil {
			s.onError(err)
		}
	}

	return item, nil
}
