// =============================================================================
// langcsv - XLSX Table Parser
// =============================================================================
//
// This module reads a translation table that is published as an Excel
// workbook instead of CSV. It produces exactly the same types.Table contract
// as the CSV parser, so the transformer does not care where rows came from.
//
// WORKBOOK LAYOUT (Expected):
//
//   | key      | en      | fr        | de          |
//   |----------|---------|-----------|-------------|
//   | greeting | Hello   | Bonjour   | Hallo       |
//   | farewell | Goodbye |           | Tschüss     |
//
//   Row 1 is the header. Every following non-empty row becomes one Row.
//   Cells are read as their formatted text.
//
// =============================================================================

package xlsxparser

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ginjaninja78/langcsv/internal/types"
)

var (
	// ErrNoSheets is returned for a workbook without worksheets.
	ErrNoSheets = errors.New("xlsxparser: workbook has no sheets")

	// ErrEmptySheet is returned when the selected sheet has no header row.
	ErrEmptySheet = errors.New("xlsxparser: sheet is empty")
)

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// Parse reads the named sheet of the workbook at filePath.
// An empty sheet name selects the first sheet.
func Parse(filePath, sheet string) (*types.Table, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	table, err := parseSheet(f, sheet)
	if err != nil {
		return nil, err
	}

	table.Source = filePath
	return table, nil
}

// ParseReader reads a workbook from r.
func ParseReader(r io.Reader, sheet string) (*types.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	return parseSheet(f, sheet)
}

// parseSheet converts one sheet of an open workbook into a table.
func parseSheet(f *excelize.File, sheet string) (*types.Table, error) {
	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, ErrNoSheets
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows of sheet %q: %w", sheet, err)
	}

	if len(rows) == 0 || isRowEmpty(rows[0]) {
		return nil, fmt.Errorf("%w: %q", ErrEmptySheet, sheet)
	}

	headers := cleanHeaders(rows[0])
	table := &types.Table{
		Headers: headers,
		Rows:    make([]types.Row, 0, len(rows)-1),
	}

	for _, record := range rows[1:] {
		// GetRows trims trailing empty cells, and fully empty rows
		// in the middle of a sheet come back as empty slices.
		if isRowEmpty(record) {
			continue
		}

		row := make(types.Row, len(headers))
		for i, header := range headers {
			if i < len(record) {
				row[header] = record[i]
			} else {
				row[header] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}

func cleanHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = h
	}
	return headers
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
