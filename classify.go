package kouji

import (
	"bitbucket.org/creachadair/stringset"
	"github.com/etnz/kouji/date"
)

// Status is the completion state of a project relative to a period start.
type Status int

const (
	// Incomplete projects have no completion date (未成).
	Incomplete Status = iota
	// FutureCompleted projects were completed on or after the period start.
	FutureCompleted
	// PastCompleted projects were completed strictly before the period start (過年度完成).
	PastCompleted
)

func (s Status) String() string {
	switch s {
	case Incomplete:
		return "incomplete"
	case FutureCompleted:
		return "future-completed"
	case PastCompleted:
		return "past-completed"
	default:
		return "unknown"
	}
}

// StatusOf classifies a single record relative to periodStart.
// A project completed exactly on periodStart is FutureCompleted.
func StatusOf(r Record, periodStart date.Date) Status {
	switch {
	case !r.IsCompleted():
		return Incomplete
	case r.Completed.Before(periodStart):
		return PastCompleted
	default:
		return FutureCompleted
	}
}

// Partition splits the codes of a ledger by completion status.
//
// Incomplete, FutureCompleted and PastCompleted are pairwise disjoint and
// their union is All.
type Partition struct {
	PeriodStart     date.Date
	All             stringset.Set
	Incomplete      stringset.Set
	FutureCompleted stringset.Set
	PastCompleted   stringset.Set
}

// Classify partitions the ledger codes relative to periodStart.
// A nil or empty ledger yields four empty sets.
func Classify(l *Ledger, periodStart date.Date) Partition {
	p := Partition{
		PeriodStart:     periodStart,
		All:             make(stringset.Set),
		Incomplete:      make(stringset.Set),
		FutureCompleted: make(stringset.Set),
		PastCompleted:   make(stringset.Set),
	}
	if l == nil {
		return p
	}
	for code, r := range l.records {
		p.All.Add(code)
		set := p.set(StatusOf(r, periodStart))
		set.Add(code)
	}
	return p
}

func (p Partition) set(s Status) stringset.Set {
	switch s {
	case Incomplete:
		return p.Incomplete
	case FutureCompleted:
		return p.FutureCompleted
	default:
		return p.PastCompleted
	}
}

// Status returns the status of a code, ok is false if the code is unknown.
func (p Partition) Status(code string) (s Status, ok bool) {
	for _, s := range []Status{Incomplete, FutureCompleted, PastCompleted} {
		if p.set(s).Contains(code) {
			return s, true
		}
	}
	return Incomplete, false
}

// Codes returns the sorted codes having the given status.
func (p Partition) Codes(s Status) []string { return p.set(s).Elements() }
