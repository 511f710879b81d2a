// =============================================================================
// langcsv - Localization Transformer
// =============================================================================
//
// This module turns parsed rows into one Bucket per language.
//
// VALUE RESOLUTION (per row, per language column):
//   1. value = row[language]
//   2. if the cell exists and is exactly "", value = row[fallback column]
//      (a missing column does not fall back)
//   3. if value equals a delete sentinel, value = ""
//
// QUOTE HANDLING:
//   Spreadsheet exports carry double quotes as the &quot; entity.
//   - JSON sink                 : &quot; -> "
//   - .strings / YAML / Liquid  : &quot; -> \"   (value sits in a quoted literal)
//   - XML sink                  : left untouched
//
// FINALIZATION:
//   After the last row, every bucket is finalized in a separate pass, so the
//   XML closing tag never depends on which languages the last row touched.
//
// =============================================================================

package converter

import (
	"strings"

	"github.com/ginjaninja78/langcsv/internal/config"
	"github.com/ginjaninja78/langcsv/internal/types"
)

// quotEntity is the HTML entity for a double quote.
const quotEntity = "&quot;"

// =============================================================================
// TRANSFORMER
// =============================================================================

// TraceFunc observes every produced cell.
type TraceFunc func(language, key, value string)

// Transformer builds language buckets from rows.
type Transformer struct {
	columnKey string
	languages []string
	fallback  string
	isDelete  func(string) bool
	trace     TraceFunc
}

// NewTransformer creates a Transformer from the column mapping in opts.
func NewTransformer(opts *config.Options) *Transformer {
	return &Transformer{
		columnKey: opts.ColumnKey,
		languages: opts.ColumnValue,
		fallback:  opts.FallbackColumn,
		isDelete:  opts.IsDeleteValue,
	}
}

// WithTrace sets a callback invoked for every produced cell.
func (t *Transformer) WithTrace(fn TraceFunc) *Transformer {
	t.trace = fn
	return t
}

// Transform processes rows in order and returns the finalized buckets in
// the order languages were first seen.
func (t *Transformer) Transform(rows []types.Row) []*Bucket {
	var buckets []*Bucket
	index := make(map[string]*Bucket)

	for _, row := range rows {
		key := row[t.columnKey]

		for _, language := range t.languages {
			value := t.Resolve(row, language)

			bucket, ok := index[language]
			if !ok {
				bucket = newBucket(language)
				index[language] = bucket
				buckets = append(buckets, bucket)
			}

			bucket.add(key, value)

			if t.trace != nil {
				t.trace(language, key, value)
			}
		}
	}

	for _, bucket := range buckets {
		bucket.finalize()
	}

	return buckets
}

// Resolve computes the value of one language cell after fallback and
// sentinel filtering.
func (t *Transformer) Resolve(row types.Row, language string) string {
	value, ok := row.Lookup(language)
	if ok && value == "" {
		value = row[t.fallback]
	}

	if t.isDelete(value) {
		value = ""
	}

	return value
}

// =============================================================================
// UTILITY FUNCTIONS
// =============================================================================

// EscapeQuotes replaces the &quot; entity with a double quote.
// With doubleSlashes the quote is backslash-escaped for use inside a quoted
// literal.
func EscapeQuotes(s string, doubleSlashes bool) string {
	if doubleSlashes {
		return strings.ReplaceAll(s, quotEntity, `\"`)
	}
	return strings.ReplaceAll(s, quotEntity, `"`)
}
