// =============================================================================
// langcsv - Main Entry Point
// =============================================================================
//
// USAGE:
//   langcsv generate   - Download the translation table and write the files
//   langcsv validate   - Validate options without writing anything
//   langcsv version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : fetch, parse, transform and write logic
//   - pkg/       : shared file and summary utilities
//
// =============================================================================

package main

import (
	"github.com/ginjaninja78/langcsv/cmd"
)

func main() {
	cmd.Execute()
}
