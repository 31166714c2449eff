package renderer

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Formatter formats ledger amounts, which are expressed in currency major units.
type Formatter struct {
	f *money.Formatter
}

// Plain returns a formatter with thousands separators and no currency sign: 1,234,567.
func Plain() Formatter {
	return Formatter{f: money.NewFormatter(0, ".", ",", "", "1")}
}

// Currency returns a formatter for an ISO 4217 currency code: ¥1,234,567 for JPY.
func Currency(code string) (Formatter, error) {
	c := money.GetCurrency(strings.ToUpper(code))
	if c == nil {
		return Formatter{}, fmt.Errorf("unknown currency %q", code)
	}
	return Formatter{f: c.Formatter()}, nil
}

// Format formats an amount.
func (f Formatter) Format(amount int64) string {
	if f.f == nil {
		f = Plain()
	}
	minor := decimal.NewFromInt(amount).Shift(int32(f.f.Fraction))
	return f.f.Format(minor.IntPart())
}
