// Package sheet reads the portfolio snapshot from the spreadsheet the
// holdings and the buy log are kept in.
package sheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// Workbook gives access to the cells of named worksheets.
type Workbook interface {
	// Read returns every row of worksheet, as displayed.
	Read(ctx context.Context, worksheet string) ([][]string, error)
}

// Dir is a Workbook exported as CSV files, one "<worksheet>.csv" per worksheet.
type Dir string

// Read parses the CSV export of worksheet. Rows may have different lengths.
func (d Dir) Read(ctx context.Context, worksheet string) ([][]string, error) {
	filename := filepath.Join(string(d), worksheet+".csv")
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open worksheet %q: %w", worksheet, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("format error in %q: %w", filename, err)
	}
	return records, ctx.Err()
}
