// =============================================================================
// langcsv - Validation Engine
// =============================================================================
//
// This module checks a set of Options before any network or disk work starts,
// and optionally checks a parsed table against the column mapping.
//
// VALIDATION STRATEGY:
//   1. Option-level: required fields, known formats, debug range
//   2. Locale-level: language columns should be BCP 47 tags (warning only,
//      spreadsheets often use ad hoc column names)
//   3. Table-level: the mapped columns exist in the header (warnings only)
//
// ERROR HANDLING:
//   - Errors are collected, not returned one by one
//   - "error" severity stops the run, "warning" is logged and ignored
//
// =============================================================================

package validation

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/types"
)

// ErrInvalidOptions is returned when options contain at least one error.
var ErrInvalidOptions = errors.New("invalid options")

// Severity levels.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// MaxDebugLevel is the highest supported debug level.
const MaxDebugLevel = 3

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity indicates the severity of the error.
	// "error" = fatal, processing should stop
	// "warning" = non-fatal, processing can continue
	Severity string

	// Field is the option (YAML key) or column that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("[%s] %s: %s", strings.ToUpper(e.Severity), e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Field,
		e.Message,
		e.Value,
	)
}

func newError(field, value, message string) *ValidationError {
	return &ValidationError{Severity: SeverityError, Field: field, Value: value, Message: message}
}

func newWarning(field, value, message string) *ValidationError {
	return &ValidationError{Severity: SeverityWarning, Field: field, Value: value, Message: message}
}

// =============================================================================
// OPTION VALIDATION
// =============================================================================

// ValidateOptions checks opts and returns every finding, errors first in
// the order the options are declared.
func ValidateOptions(opts *config.Options) []*ValidationError {
	var errs []*ValidationError

	if strings.TrimSpace(opts.FilePath) == "" {
		errs = append(errs, newError("file_path", "", "source URL is required"))
	}

	switch opts.SourceFormat {
	case "", types.SourceCSV, types.SourceXLSX:
	default:
		errs = append(errs, newError("source_format", string(opts.SourceFormat), "must be csv or xlsx"))
	}

	if opts.ColumnKey == "" {
		errs = append(errs, newError("column_key", "", "key column is required"))
	}

	if len(opts.ColumnValue) == 0 {
		errs = append(errs, newWarning("column_value", "", "no language columns, nothing will be generated"))
	}

	for _, lang := range opts.ColumnValue {
		if lang == opts.ColumnKey && lang != "" {
			errs = append(errs, newWarning("column_value", lang, "language column is also the key column"))
			continue
		}
		if _, err := language.Parse(lang); err != nil {
			errs = append(errs, newWarning("column_value", lang, "not a BCP 47 language tag"))
		}
	}

	_, unknown := opts.Formats()
	for _, u := range unknown {
		errs = append(errs, newError("output", u, "unknown format, expected one of json, strings, yml, xml, liquid"))
	}

	if opts.Debug < 0 || opts.Debug > MaxDebugLevel {
		errs = append(errs, newError("debug", fmt.Sprint(opts.Debug), fmt.Sprintf("must be between 0 and %d", MaxDebugLevel)))
	}

	if opts.FetchTimeout < 0 {
		errs = append(errs, newError("fetch_timeout", opts.FetchTimeout.String(), "must not be negative"))
	}

	return errs
}

// =============================================================================
// TABLE VALIDATION
// =============================================================================

// ValidateTable checks that the mapped columns exist in the parsed table.
// Every finding is a warning: missing language cells are written as "".
func ValidateTable(opts *config.Options, table *types.Table) []*ValidationError {
	var errs []*ValidationError

	if opts.ColumnKey != "" && !table.HasColumn(opts.ColumnKey) {
		errs = append(errs, newWarning("column_key", opts.ColumnKey, "column not found in table header"))
	}

	for _, lang := range opts.ColumnValue {
		if !table.HasColumn(lang) {
			errs = append(errs, newWarning("column_value", lang, "column not found in table header"))
		}
	}

	if opts.FallbackColumn != "" && !table.HasColumn(opts.FallbackColumn) {
		errs = append(errs, newWarning("fallback_column", opts.FallbackColumn, "column not found in table header"))
	}

	if len(table.Rows) == 0 {
		errs = append(errs, newWarning("file_path", table.Source, "table has no data rows"))
	}

	return errs
}

// =============================================================================
// RESULT HELPERS
// =============================================================================

// HasErrors reports whether any finding has error severity.
func HasErrors(errs []*ValidationError) bool {
	for _, e := range errs {
		if e.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Split separates errors from warnings.
func Split(errs []*ValidationError) (fatal, warnings []*ValidationError) {
	for _, e := range errs {
		if e.Severity == SeverityError {
			fatal = append(fatal, e)
		} else {
			warnings = append(warnings, e)
		}
	}
	return fatal, warnings
}

// AsError returns nil when errs has no error-severity finding, otherwise an
// error wrapping ErrInvalidOptions and listing every fatal finding.
func AsError(errs []*ValidationError) error {
	fatal, _ := Split(errs)
	if len(fatal) == 0 {
		return nil
	}

	joined := make([]error, len(fatal))
	for i, e := range fatal {
		joined[i] = e
	}
	return fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(joined...))
}

// FormatErrors formats validation errors for display or logging.
//
// PARAMETERS:
//   - errors: The validation errors to format.
//
// RETURNS:
//   - A formatted string containing all errors.
func FormatErrors(errs []*ValidationError) string {
	if len(errs) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d finding(s):\n\n", len(errs)))

	for i, err := range errs {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, err.Error()))
	}

	return builder.String()
}
