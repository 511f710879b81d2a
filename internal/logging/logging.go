// Package logging configures structured logging and the human-facing
// progress lines printed while translations are generated.
//
// slog carries diagnostics tagged with a run ID. A Liner prints the short
// "Translation generated!" confirmations a developer watches in the terminal.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// New builds a logger writing to w and installs it as the slog default.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel converts a string log level to slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRun returns a logger tagged with a fresh run ID, so every entry of
// one generation run can be correlated.
func WithRun(logger *slog.Logger) (*slog.Logger, string) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.NewString()
	return logger.With("run_id", runID), runID
}

// Nope returns a logger that discards everything.
func Nope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// =============================================================================
// PROGRESS LINES
// =============================================================================

// Liner prints one progress line.
type Liner interface {
	Line(msg string)
}

// ANSI color pairs (open, close).
var styles = map[string][2]string{
	"grey": {"\x1b[90m", "\x1b[39m"},
	"cyan": {"\x1b[36m", "\x1b[39m"},
	"red":  {"\x1b[31m", "\x1b[39m"},
}

// Colorize wraps s in the escape codes of the named color.
// Unknown colors return s unchanged.
func Colorize(s, color string) string {
	style, ok := styles[color]
	if !ok {
		return s
	}
	return style[0] + s + style[1]
}

// ConsoleLiner writes "[HH:MM:SS] msg" lines with a grey timestamp.
type ConsoleLiner struct {
	mu    sync.Mutex
	w     io.Writer
	now   func() time.Time
	color bool
}

// NewConsoleLiner creates a Liner on w. Colors are disabled when color is false.
func NewConsoleLiner(w io.Writer, color bool) *ConsoleLiner {
	return &ConsoleLiner{w: w, now: time.Now, color: color}
}

// Line writes msg prefixed by the current time.
// Safe for concurrent use; writes never interleave.
func (c *ConsoleLiner) Line(msg string) {
	stamp := "[" + c.now().Format("15:04:05") + "]"
	if c.color {
		stamp = Colorize(stamp, "grey")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, stamp+" "+msg)
}

// Highlight colors s in cyan when the liner uses colors.
func (c *ConsoleLiner) Highlight(s string) string {
	if !c.color {
		return s
	}
	return Colorize(s, "cyan")
}

// Highlighter is implemented by liners that can emphasize part of a line.
type Highlighter interface {
	Highlight(s string) string
}

// Emphasize highlights s if l supports it.
func Emphasize(l Liner, s string) string {
	if h, ok := l.(Highlighter); ok {
		return h.Highlight(s)
	}
	return s
}

// NopLiner drops every line.
type NopLiner struct{}

func (NopLiner) Line(string) {}
