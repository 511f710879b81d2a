// =============================================================================
// langcsv - CSV Parser Module
// =============================================================================
//
// This module turns the downloaded translation table into ordered rows.
//
// CONTRACT:
//   - The first line is the header and names the columns
//   - Every following line becomes one types.Row (column -> cell)
//   - Row order is preserved exactly
//   - Cells are taken verbatim; whitespace is significant in translations
//
// FEATURES:
//   - Configurable delimiter (comma, semicolon, tab, pipe)
//   - UTF-8 byte order mark stripped from the first header
//   - Ragged rows tolerated: missing trailing cells read as ""
//
// =============================================================================

package csvparser

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ginjaninja78/langcsv/internal/types"
)

// ErrEmptyTable is returned when the file has no header line.
var ErrEmptyTable = errors.New("csvparser: table is empty")

const byteOrderMark = "\ufeff"

// =============================================================================
// SETTINGS
// =============================================================================

// Settings controls how the CSV is read.
type Settings struct {
	// Delimiter separates cells.
	// Accepts a literal character or one of: "tab", "\t", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// TrimSpace trims leading and trailing whitespace from headers and cells.
	// Default: false
	TrimSpace bool

	// KeepEmptyRows keeps rows whose cells are all empty.
	// Default: false (they are skipped)
	KeepEmptyRows bool
}

// DefaultSettings returns the settings used for published spreadsheets.
func DefaultSettings() Settings {
	return Settings{Delimiter: ","}
}

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads a CSV file and returns the parsed table.
func Parse(filePath string, settings Settings) (*types.Table, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	table, err := ParseReader(file, settings)
	if err != nil {
		return nil, err
	}

	table.Source = filePath
	return table, nil
}

// ParseReader reads a CSV stream and returns the parsed table.
func ParseReader(r io.Reader, settings Settings) (*types.Table, error) {
	csvReader := csv.NewReader(bufio.NewReader(r))
	configureReader(csvReader, settings)

	allRows, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	if len(allRows) == 0 {
		return nil, ErrEmptyTable
	}

	headers := cleanHeaders(allRows[0], settings)

	table := &types.Table{
		Headers: headers,
		Rows:    make([]types.Row, 0, len(allRows)-1),
	}

	for _, record := range allRows[1:] {
		if !settings.KeepEmptyRows && isRowEmpty(record) {
			continue
		}
		table.Rows = append(table.Rows, toRow(headers, record, settings))
	}

	return table, nil
}

// configureReader configures the CSV reader based on the settings.
func configureReader(reader *csv.Reader, settings Settings) {
	reader.Comma = delimiterRune(settings.Delimiter)

	// Published sheets sometimes have ragged trailing columns.
	reader.FieldsPerRecord = -1

	// Translations regularly contain stray quotes.
	reader.LazyQuotes = true
}

func delimiterRune(delimiter string) rune {
	switch delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "pipe", "PIPE":
		return '|'
	case "semicolon":
		return ';'
	case "":
		return ','
	default:
		return []rune(delimiter)[0]
	}
}

// cleanHeaders strips the byte order mark and, when requested, whitespace.
// Empty header cells get a positional name so their cells stay addressable.
func cleanHeaders(raw []string, settings Settings) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		if i == 0 {
			h = strings.TrimPrefix(h, byteOrderMark)
		}
		if settings.TrimSpace {
			h = strings.TrimSpace(h)
		}
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
}

func toRow(headers, record []string, settings Settings) types.Row {
	row := make(types.Row, len(headers))
	for i, header := range headers {
		value := ""
		if i < len(record) {
			value = record[i]
			if settings.TrimSpace {
				value = strings.TrimSpace(value)
			}
		}
		row[header] = value
	}
	return row
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
