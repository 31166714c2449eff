package date

import "fmt"

// Range represents a range of dates.
type Range struct{ From, To Date }

// FiscalYear returns the accounting year that begins on start.
func FiscalYear(start Date) Range {
	return Range{From: start, To: start.AddYears(1).Add(-1)}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// String formats the range as "from – to".
func (r Range) String() string { return fmt.Sprintf("%s – %s", r.From, r.To) }
