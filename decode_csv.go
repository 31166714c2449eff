package kouji

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/transform"
)

// readCSV reads every row of a CSV ledger export, decoding the characters
// from the named encoding. Blank lines are skipped.
func readCSV(r io.Reader, encodingName string) ([]tableRow, error) {
	enc, err := textEncoding(encodingName)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.FieldsPerRecord = -1 // total rows are shorter than project rows
	cr.LazyQuotes = true

	var rows []tableRow
	for {
		cells, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		rows = append(rows, tableRow{Line: line, Cells: cells})
	}
	return rows, nil
}
