// Package export writes extracted transactions to CSV for spreadsheet and
// reconciliation workflows.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/tdstatement/tdstmt/extractor/common"
)

// WriteCSV writes the transactions of a parse result to a CSV file at path.
// Header and summary fields are JSON-only; CSV carries the record list.
func WriteCSV(path string, result any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return Write(f, result)
}

// Write writes the transactions of a parse result as CSV.
func Write(out io.Writer, result any) error {
	switch r := result.(type) {
	case common.ChequingResult:
		return gocsv.Marshal(&r.Transactions, out)
	case common.CardResult:
		return gocsv.Marshal(&r.Transactions, out)
	default:
		return fmt.Errorf("unsupported result type %T", result)
	}
}
