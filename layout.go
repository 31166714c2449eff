package kouji

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	xunicode "golang.org/x/text/encoding/unicode"
)

// Layout describes where the fields of a project are located in a tabular
// ledger export.
//
// The default layout is the one of the 工事管理表(簡易) exported by NX-Pro and
// NX-CE: after a header row, each project spans three rows; the first row
// holds the code, the name, the period actual amount and the completion date,
// the second row holds the cumulative amount in the same column as the actual
// amount. The table ends with five rows of totals.
type Layout struct {
	Encoding         string `toml:"encoding"`          // CSV character encoding: shift_jis, utf-8 or euc-jp
	Sheet            string `toml:"sheet"`             // XLSX sheet name, the first sheet when empty
	HeaderRows       int    `toml:"header_rows"`       // rows before the first project
	RowsPerRecord    int    `toml:"rows_per_record"`   // rows spanned by a project
	FooterRows       int    `toml:"footer_rows"`       // trailing total rows to ignore
	CodeColumn       int    `toml:"code_column"`       // 0-based columns, in the first row of a project
	NameColumn       int    `toml:"name_column"`
	AmountColumn     int    `toml:"amount_column"`     // actual amount on the first row, cumulative on CumulativeRow
	CompletionColumn int    `toml:"completion_column"`
	CumulativeRow    int    `toml:"cumulative_row"`    // 0-based row of the cumulative amount within a project
}

// DefaultLayout returns the layout of NX-Pro/NX-CE exports.
func DefaultLayout() Layout {
	return Layout{
		Encoding:         "shift_jis",
		HeaderRows:       1,
		RowsPerRecord:    3,
		FooterRows:       5,
		CodeColumn:       0,
		NameColumn:       1,
		AmountColumn:     3,
		CompletionColumn: 5,
		CumulativeRow:    1,
	}
}

// encodings maps the accepted encoding names to their decoder.
var encodings = map[string]encoding.Encoding{
	"shift_jis":   japanese.ShiftJIS,
	"sjis":        japanese.ShiftJIS,
	"cp932":       japanese.ShiftJIS,
	"windows-31j": japanese.ShiftJIS,
	"euc-jp":      japanese.EUCJP,
	"utf-8":       xunicode.UTF8BOM,
	"utf8":        xunicode.UTF8BOM,
}

// textEncoding returns the encoding for a name, case insensitive.
func textEncoding(name string) (encoding.Encoding, error) {
	enc, ok := encodings[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unsupported encoding %q", name)
	}
	return enc, nil
}

// Validate checks that the layout is usable.
func (l Layout) Validate() error {
	if _, err := textEncoding(l.Encoding); err != nil {
		return err
	}
	if l.HeaderRows < 0 || l.FooterRows < 0 {
		return fmt.Errorf("invalid layout: header_rows and footer_rows must not be negative")
	}
	if l.RowsPerRecord < 1 {
		return fmt.Errorf("invalid layout: rows_per_record must be at least 1, got %d", l.RowsPerRecord)
	}
	if l.CumulativeRow < 0 || l.CumulativeRow >= l.RowsPerRecord {
		return fmt.Errorf("invalid layout: cumulative_row %d is outside a %d rows record", l.CumulativeRow, l.RowsPerRecord)
	}
	for name, col := range map[string]int{
		"code_column":       l.CodeColumn,
		"name_column":       l.NameColumn,
		"amount_column":     l.AmountColumn,
		"completion_column": l.CompletionColumn,
	} {
		if col < 0 {
			return fmt.Errorf("invalid layout: %s must not be negative, got %d", name, col)
		}
	}
	return nil
}
