package utils

import (
	"fmt"
	"io"
	"time"

	"github.com/olekukonko/tablewriter"
)

// =============================================================================
// RUN SUMMARY
// =============================================================================

// RunSummary contains summary information about a generation run.
type RunSummary struct {
	RunID     string
	Source    string
	StartTime time.Time
	EndTime   time.Time
	Expected  int
	Written   []string
	Failed    []FailedFile
}

// FailedFile describes one output file that could not be written.
type FailedFile struct {
	Path         string
	ErrorMessage string
}

// WriteSummary renders the summary as a header block followed by a table
// with one line per output file.
func WriteSummary(w io.Writer, summary RunSummary) error {
	duration := summary.EndTime.Sub(summary.StartTime).Round(time.Millisecond)

	_, err := fmt.Fprintf(w, "Run:      %s\nSource:   %s\nDuration: %s\nFiles:    %d/%d written\n\n",
		summary.RunID,
		summary.Source,
		duration,
		len(summary.Written),
		summary.Expected)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(summary.Written)+len(summary.Failed))
	for _, path := range summary.Written {
		rows = append(rows, []string{DisplayPath(path), "ok", ""})
	}
	for _, f := range summary.Failed {
		rows = append(rows, []string{DisplayPath(f.Path), "failed", f.ErrorMessage})
	}

	RenderTable(w, []string{"File", "Status", "Error"}, rows)
	return nil
}

// RenderTable writes rows as a bordered text table.
// Cells are printed verbatim; headers are not upper-cased.
func RenderTable(w io.Writer, header []string, rows [][]string) {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.AppendBulk(rows)
	table.Render()
}
