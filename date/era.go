package date

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/width"
)

// Era is a Japanese imperial era. A year written in the era notation is
// converted to the Gregorian calendar by adding Offset.
type Era struct {
	Prefix string // letter used by accounting software exports, e.g. "R"
	Name   string // 令和
	Offset int    // gregorian year = era year + Offset
	Start  Date   // first day of the era
}

// Eras lists the eras that ledger exports may use, oldest first.
var Eras = []Era{
	{Prefix: "S", Name: "昭和", Offset: 1925, Start: New(1926, time.December, 25)},
	{Prefix: "H", Name: "平成", Offset: 1988, Start: New(1989, time.January, 8)},
	{Prefix: "R", Name: "令和", Offset: 2018, Start: New(2019, time.May, 1)},
}

// ErrUnknownEra is returned when a date token uses an era marker absent from [Eras].
var ErrUnknownEra = errors.New("unknown era")

// ErrShortYear is returned for a date without era whose year is not written with 4 digits.
var ErrShortYear = errors.New("gregorian year must have 4 digits")

// EraError reports a date token with an unrecognized era marker.
type EraError struct {
	Token  string
	Marker string
}

func (e *EraError) Error() string {
	return fmt.Sprintf("unknown era %q in date %q", e.Marker, e.Token)
}

func (e *EraError) Unwrap() error { return ErrUnknownEra }

// incomplete lists the tokens standing for "no completion date".
// "0" and "0.0" are what spreadsheet exports put in empty cells.
var incomplete = map[string]bool{"": true, "0": true, "0.0": true}

// ParseWareki converts a completion date token like "R03/04/01" into a Date.
//
// ok is false, with a nil error, when the token is the "not completed" sentinel.
// Tokens starting with a digit are read as Gregorian years ("2021/04/01").
// Full-width characters are accepted, as are '-' and '.' separators.
func ParseWareki(token string) (d Date, ok bool, err error) {
	s := strings.TrimSpace(width.Narrow.String(token))
	if incomplete[s] {
		return Date{}, false, nil
	}

	parts := strings.FieldsFunc(s, func(r rune) bool { return r == '/' || r == '-' || r == '.' })
	if len(parts) != 3 {
		return Date{}, false, fmt.Errorf("invalid date %q want format %q", token, "R03/04/01")
	}

	year, err := gregorianYear(token, parts[0])
	if err != nil {
		return Date{}, false, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, false, fmt.Errorf("invalid month in date %q: %w", token, err)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, false, fmt.Errorf("invalid day in date %q: %w", token, err)
	}

	d = New(year, time.Month(month), day)
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return Date{}, false, fmt.Errorf("invalid date %q: no such day", token)
	}
	return d, true, nil
}

// gregorianYear reads the year part of a token, applying the era offset.
func gregorianYear(token, part string) (int, error) {
	if part == "" {
		return 0, fmt.Errorf("invalid date %q: missing year", token)
	}
	if unicode.IsDigit(rune(part[0])) {
		// "04-01-21" is how spreadsheets display a date cell, not year 4.
		if len(part) != 4 {
			return 0, fmt.Errorf("invalid date %q: %w", token, ErrShortYear)
		}
		y, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("invalid year in date %q: %w", token, err)
		}
		return y, nil
	}

	for _, era := range Eras {
		for _, marker := range []string{era.Prefix, era.Name} {
			rest, found := strings.CutPrefix(part, marker)
			if !found {
				continue
			}
			y, err := strconv.Atoi(rest)
			if err != nil || y < 1 {
				return 0, fmt.Errorf("invalid %s year in date %q", era.Name, token)
			}
			return y + era.Offset, nil
		}
	}

	marker := strings.TrimRightFunc(part, unicode.IsDigit)
	return 0, &EraError{Token: token, Marker: marker}
}

// FormatWareki formats d in the export notation of the era it belongs to,
// e.g. "R03/04/01". Dates before the oldest known era, and the zero date,
// are formatted in ISO format.
func FormatWareki(d Date) string {
	for i := len(Eras) - 1; i >= 0; i-- {
		era := Eras[i]
		if !d.Before(era.Start) {
			return fmt.Sprintf("%s%02d/%02d/%02d", era.Prefix, d.Year()-era.Offset, d.Month(), d.Day())
		}
	}
	return d.String()
}
