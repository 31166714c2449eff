package kouji

import (
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/kouji/date"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/text/width"
)

// ErrMalformedAmount is returned for an amount cell that is not a number.
var ErrMalformedAmount = errors.New("malformed amount")

// RecordError reports a cell of a tabular ledger that could not be decoded.
type RecordError struct {
	Ledger string
	Row    int // 1-based line in the source, header included
	Column int // 0-based, as in [Layout]
	Value  string
	Err    error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("%s: row %d, column %d: %q: %v", e.Ledger, e.Row, e.Column, e.Value, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

// tableRow is a row of a tabular source with its position in the source.
type tableRow struct {
	Line  int
	Cells []string
}

func (r tableRow) cell(col int) string {
	if col >= len(r.Cells) {
		return ""
	}
	return strings.TrimSpace(r.Cells[col])
}

// decodeTable turns the rows of a ledger export into records.
//
// Projects with an empty code are skipped: they are blank groups or
// subtotals.
func decodeTable(name string, rows []tableRow, layout Layout, logger *zap.Logger) ([]Record, error) {
	if len(rows) < layout.HeaderRows {
		return nil, fmt.Errorf("%s: %d rows, want at least %d header rows", name, len(rows), layout.HeaderRows)
	}
	data := rows[layout.HeaderRows:]
	end := len(data) - layout.FooterRows

	var records []Record
	for i := 0; i < end; i += layout.RowsPerRecord {
		first := data[i]
		if i+layout.CumulativeRow >= len(data) {
			return nil, fmt.Errorf("%s: row %d: project is truncated, want %d rows", name, first.Line, layout.RowsPerRecord)
		}
		second := data[i+layout.CumulativeRow]

		code := first.cell(layout.CodeColumn)
		if code == "" {
			logger.Debug("skipping project rows without code", zap.String("ledger", name), zap.Int("row", first.Line))
			continue
		}

		actual, err := parseAmount(first.cell(layout.AmountColumn))
		if err != nil {
			return nil, &RecordError{Ledger: name, Row: first.Line, Column: layout.AmountColumn, Value: first.cell(layout.AmountColumn), Err: err}
		}
		cumulative, err := parseAmount(second.cell(layout.AmountColumn))
		if err != nil {
			return nil, &RecordError{Ledger: name, Row: second.Line, Column: layout.AmountColumn, Value: second.cell(layout.AmountColumn), Err: err}
		}
		completed, _, err := date.ParseWareki(first.cell(layout.CompletionColumn))
		if err != nil {
			return nil, &RecordError{Ledger: name, Row: first.Line, Column: layout.CompletionColumn, Value: first.cell(layout.CompletionColumn), Err: err}
		}

		records = append(records, Record{
			Code:       code,
			Name:       first.cell(layout.NameColumn),
			Actual:     actual,
			Cumulative: cumulative,
			Completed:  completed,
		})
	}
	logger.Debug("decoded ledger table",
		zap.String("ledger", name),
		zap.Int("rows", len(rows)),
		zap.Int("records", len(records)),
	)
	return records, nil
}

// negativeMarks are the signs used by Japanese accounting documents for negative amounts.
var negativeMarks = []string{"△", "▲", "-"}

// parseAmount reads an amount cell. Empty cells are zero, thousands
// separators and full-width digits are accepted, fractions are truncated.
func parseAmount(cell string) (int64, error) {
	s := strings.TrimSpace(width.Narrow.String(cell))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	negative := false
	for _, mark := range negativeMarks {
		if rest, found := strings.CutPrefix(s, mark); found {
			negative = true
			s = strings.TrimSpace(rest)
			break
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil || strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return 0, ErrMalformedAmount
	}
	if negative {
		d = d.Neg()
	}
	if !d.Truncate(0).BigInt().IsInt64() {
		return 0, ErrMalformedAmount
	}
	return d.IntPart(), nil
}
