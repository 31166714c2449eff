package kouji

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// readXLSX reads the rows of a workbook sheet, the first sheet when sheet is
// empty. Cells are read as displayed, except date cells which are read in
// ISO format. Empty rows are kept: they are part of the project groups, as
// the empty records of a CSV export.
func readXLSX(r io.Reader, sheet string) ([]tableRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheet")
		}
		sheet = sheets[0]
	}

	cells, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}
	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	dates := dateCells{f: f, sheet: sheet, styles: make(map[int]bool)}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		dates.date1904 = *props.Date1904
	}

	rows := make([]tableRow, 0, len(cells))
	for i, row := range cells {
		for j, shown := range row {
			if i >= len(raw) || j >= len(raw[i]) || raw[i][j] == shown {
				continue
			}
			iso, ok, err := dates.read(j+1, i+1, raw[i][j])
			if err != nil {
				return nil, err
			}
			if ok {
				row[j] = iso
			}
		}
		rows = append(rows, tableRow{Line: i + 1, Cells: row})
	}
	return rows, nil
}

// dateCells converts the date cells of a sheet. Whether a cell holds a date
// depends on its number format only.
type dateCells struct {
	f        *excelize.File
	sheet    string
	date1904 bool
	styles   map[int]bool // style index → is a date format
}

// read returns the ISO date of the cell at col, row when it has a date
// format. A zero serial is kept as "0", the incomplete sentinel.
func (c *dateCells) read(col, row int, raw string) (string, bool, error) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", false, err
	}
	idx, err := c.f.GetCellStyle(c.sheet, name)
	if err != nil {
		return "", false, fmt.Errorf("reading style of cell %s: %w", name, err)
	}
	isDate, found := c.styles[idx]
	if !found {
		// workbooks without cell formats hold no date cell
		style, err := c.f.GetStyle(idx)
		isDate = err == nil && isDateStyle(style)
		c.styles[idx] = isDate
	}
	if !isDate {
		return "", false, nil
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		// text typed in a date formatted cell
		return "", false, nil
	}
	if serial == 0 {
		return "0", true, nil
	}
	t, err := excelize.ExcelDateToTime(serial, c.date1904)
	if err != nil {
		return "", false, fmt.Errorf("cell %s: %w", name, err)
	}
	return t.Format(time.DateOnly), true, nil
}

// builtinDateFormats are the built-in number formats displaying a date,
// including the ones of the Japanese locale (27-31, 34-36, 50-58).
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 22: true,
	27: true, 28: true, 29: true, 30: true, 31: true, 34: true, 35: true, 36: true,
	50: true, 51: true, 52: true, 53: true, 54: true, 55: true, 56: true, 57: true, 58: true,
}

func isDateStyle(style *excelize.Style) bool {
	if style == nil {
		return false
	}
	if style.CustomNumFmt == nil {
		return builtinDateFormats[style.NumFmt]
	}
	return isDateFormatCode(*style.CustomNumFmt)
}

// isDateFormatCode tells whether a custom number format code displays a
// date: it has a year, day or era token outside of literals.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	quoted, bracket := false, false
	for _, r := range strings.ToLower(code) {
		switch {
		case r == '"':
			quoted = !quoted
		case quoted:
		case r == '[':
			bracket = true
		case r == ']':
			bracket = false
		case bracket:
		default:
			b.WriteRune(r)
		}
	}
	s := strings.ReplaceAll(b.String(), "general", "")
	return strings.ContainsAny(s, "ydg")
}
