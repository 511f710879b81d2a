// =============================================================================
// langcsv - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - csvparser / xlsxparser (producers of rows)
//   - converter (consumer of rows, producer of buckets)
//   - writer, validation, config
//
// =============================================================================

package types

import "strings"

// =============================================================================
// ROW TYPES
// =============================================================================

// Row is one parsed data line of the translation table.
// Key is the column header, value is the raw cell text.
type Row map[string]string

// Lookup returns the cell for a column and whether the column exists at all.
// A present-but-empty cell and a missing column are different things for
// the language fallback rule.
func (r Row) Lookup(column string) (string, bool) {
	value, ok := r[column]
	return value, ok
}

// Table is the parsed translation table.
type Table struct {
	// Headers holds the column names in file order.
	Headers []string

	// Rows holds the data rows in file order.
	Rows []Row

	// Source is the local path the table was parsed from.
	Source string
}

// HasColumn reports whether the header names column.
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// =============================================================================
// OUTPUT FORMATS
// =============================================================================

// Format identifies one kind of localization file.
type Format string

const (
	FormatJSON    Format = "json"
	FormatStrings Format = "strings"
	FormatYAML    Format = "yml"
	FormatXML     Format = "xml"
	FormatLiquid  Format = "liquid"
)

// AllFormats lists every supported output format.
var AllFormats = []Format{FormatJSON, FormatStrings, FormatYAML, FormatXML, FormatLiquid}

// ParseFormat converts a user supplied identifier to a Format.
// Matching is case-insensitive; "yaml" is accepted as an alias of "yml".
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, true
	case "strings":
		return FormatStrings, true
	case "yml", "yaml":
		return FormatYAML, true
	case "xml":
		return FormatXML, true
	case "liquid":
		return FormatLiquid, true
	}
	return "", false
}

// SourceFormat identifies how the downloaded table is encoded.
type SourceFormat string

const (
	SourceCSV  SourceFormat = "csv"
	SourceXLSX SourceFormat = "xlsx"
)
