package kouji

import (
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/etnz/kouji/date"
)

// Record is a project line of a work-in-progress ledger.
type Record struct {
	Code       string    // project code, unique within a ledger
	Name       string    // project name, for display only
	Actual     int64     // amount booked during the period (実績)
	Cumulative int64     // amount booked since the project started (累計)
	Completed  date.Date // completion date (完成年月日), zero while the project is not completed
}

// Opening returns the balance carried into the period (期首残).
func (r Record) Opening() int64 { return r.Cumulative - r.Actual }

// IsCompleted reports whether the record has a completion date.
func (r Record) IsCompleted() bool { return !r.Completed.IsZero() }

// Ledger is the set of project records of one accounting period, indexed by code.
//
// A Ledger is immutable once created.
type Ledger struct {
	name    string
	records map[string]Record
}

// NewLedger creates a ledger from a list of records.
// Codes must be non empty and unique.
func NewLedger(name string, records ...Record) (*Ledger, error) {
	l := &Ledger{
		name:    name,
		records: make(map[string]Record, len(records)),
	}
	for _, r := range records {
		if r.Code == "" {
			return nil, fmt.Errorf("ledger %q: record %q has no code", name, r.Name)
		}
		if _, exists := l.records[r.Code]; exists {
			return nil, fmt.Errorf("ledger %q: duplicate project code %q", name, r.Code)
		}
		l.records[r.Code] = r
	}
	return l, nil
}

// Name returns the ledger name, usually the file it was loaded from.
func (l *Ledger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	if l == nil {
		return 0
	}
	return len(l.records)
}

// Record returns the record for a project code.
func (l *Ledger) Record(code string) (Record, bool) {
	if l == nil {
		return Record{}, false
	}
	r, ok := l.records[code]
	return r, ok
}

// Codes returns all project codes in ascending order.
func (l *Ledger) Codes() []string {
	if l == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(l.records))
}

// Records iterates over the records in ascending code order.
func (l *Ledger) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, code := range l.Codes() {
			if !yield(l.records[code]) {
				return
			}
		}
	}
}
