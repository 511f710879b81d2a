package validation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/types"
)

func validOptions() *config.Options {
	opts := &config.Options{
		FilePath:    "https://example.com/table.csv",
		ColumnKey:   "key",
		ColumnValue: []string{"en", "fr", "pt_BR"},
		Output:      []string{"json", "yml", "xml"},
	}
	opts.ApplyDefaults()
	return opts
}

func fields(errs []*ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Severity + ":" + e.Field
	}
	return out
}

func TestValidateOptions(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		errs := ValidateOptions(validOptions())
		assert.Empty(t, errs)
		assert.NoError(t, AsError(errs))
	})

	t.Run("missing required fields", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.FilePath = " "
		opts.ColumnKey = ""

		errs := ValidateOptions(opts)
		assert.Equal(t, []string{"error:file_path", "error:column_key"}, fields(errs))
		assert.True(t, HasErrors(errs))
	})

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.Output = []string{"json", "csv", "po"}

		errs := ValidateOptions(opts)
		require.Len(t, errs, 2)
		assert.Equal(t, "csv", errs[0].Value)
		assert.Equal(t, "po", errs[1].Value)

		err := AsError(errs)
		require.ErrorIs(t, err, ErrInvalidOptions)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "output", ve.Field)
	})

	t.Run("debug range", func(t *testing.T) {
		t.Parallel()
		for _, level := range []int{-1, 4} {
			opts := validOptions()
			opts.Debug = level
			assert.Equal(t, []string{"error:debug"}, fields(ValidateOptions(opts)))
		}
	})

	t.Run("negative timeout", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.FetchTimeout = -time.Second
		assert.Equal(t, []string{"error:fetch_timeout"}, fields(ValidateOptions(opts)))
	})

	t.Run("unknown source format", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.SourceFormat = "ods"
		assert.Equal(t, []string{"error:source_format"}, fields(ValidateOptions(opts)))
	})

	t.Run("warnings do not fail", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.ColumnValue = []string{"en", "!!", "key"}

		errs := ValidateOptions(opts)
		assert.Equal(t, []string{"warning:column_value", "warning:column_value"}, fields(errs))
		assert.False(t, HasErrors(errs))
		assert.NoError(t, AsError(errs))
	})

	t.Run("no languages", func(t *testing.T) {
		t.Parallel()
		opts := validOptions()
		opts.ColumnValue = nil
		assert.Equal(t, []string{"warning:column_value"}, fields(ValidateOptions(opts)))
	})
}

func TestValidateTable(t *testing.T) {
	t.Parallel()

	opts := validOptions()
	table := &types.Table{
		Headers: []string{"key", "en", "fr"},
		Rows:    []types.Row{{"key": "greeting", "en": "Hello", "fr": "Bonjour"}},
	}

	errs := ValidateTable(opts, table)
	require.Len(t, errs, 1)
	assert.Equal(t, "pt_BR", errs[0].Value)
	assert.False(t, HasErrors(errs))

	empty := &types.Table{Headers: []string{"id"}, Source: "lang.csv"}
	assert.Equal(t, []string{
		"warning:column_key",
		"warning:column_value",
		"warning:column_value",
		"warning:column_value",
		"warning:fallback_column",
		"warning:file_path",
	}, fields(ValidateTable(opts, empty)))
}

func TestSplit(t *testing.T) {
	t.Parallel()

	errs := []*ValidationError{
		newWarning("a", "", "w"),
		newError("b", "", "e"),
	}
	fatal, warnings := Split(errs)
	assert.Equal(t, "b", fatal[0].Field)
	assert.Equal(t, "a", warnings[0].Field)
}

func TestFormatErrors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "No validation errors.", FormatErrors(nil))

	out := FormatErrors([]*ValidationError{
		newError("output", "csv", "unknown format"),
		newWarning("column_value", "", "no language columns"),
	})
	assert.True(t, strings.HasPrefix(out, "Validation completed with 2 finding(s):"))
	assert.Contains(t, out, "1. [ERROR] output: unknown format (value: 'csv')")
	assert.Contains(t, out, "2. [WARNING] column_value: no language columns")
}
