// Package debug writes the diagnostic dumps selected by the debug level.
//
//	1: parsed rows as a table and the resolved options
//	2: one line per produced cell
//	3: the JSON of every language
package debug

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"

	"github.com/ginjaninja78/langcsv/internal/types"
	"github.com/ginjaninja78/langcsv/pkg/utils"
)

// Debug levels.
const (
	LevelOff    = 0
	LevelTable  = 1
	LevelCells  = 2
	LevelOutput = 3
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Rows writes the parsed table, one table row per data row.
func Rows(w io.Writer, table *types.Table) {
	fmt.Fprintf(w, "==== data (%d rows) ====\n", len(table.Rows))

	rows := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		cells := make([]string, len(table.Headers))
		for j, h := range table.Headers {
			cells[j] = row[h]
		}
		rows[i] = cells
	}

	utils.RenderTable(w, table.Headers, rows)
}

// Options dumps v, normally the resolved *config.Options.
func Options(w io.Writer, v any) {
	fmt.Fprintln(w, "==== options ====")
	dumper.Fdump(w, v)
}

// Cell writes one produced cell.
func Cell(w io.Writer, language, key, value string) {
	fmt.Fprintln(w, "=>", language, key, value)
}

// Language writes the rendered JSON of one language.
func Language(w io.Writer, language string, data []byte) {
	fmt.Fprintf(w, "==== %s ====\n%s\n", language, data)
}
