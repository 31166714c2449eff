package kouji

import (
	"errors"
	"fmt"

	"github.com/etnz/kouji/date"
)

// ErrIntegrity is returned when an anomaly rule selects a code that is
// missing from a ledger it must read. Partitions computed by [Classify] on the
// same ledgers never trigger it.
var ErrIntegrity = errors.New("integrity fault")

// IntegrityError reports a code selected by a category but absent from a ledger.
type IntegrityError struct {
	Category int
	Code     string
	Side     Side
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity fault: category %d selects %q which is missing from the %s ledger", e.Category, e.Code, e.Side)
}

func (e *IntegrityError) Unwrap() error { return ErrIntegrity }

// Finding is a project reported by a category.
type Finding struct {
	Code  string
	Name  string
	Delta int64 // signed amount, see [Category.Delta]
}

// Anomaly is the result of a category: its findings in ascending code order.
type Anomaly struct {
	Category Category
	Findings []Finding
}

// IsEmpty reports whether the category found nothing.
func (a Anomaly) IsEmpty() bool { return len(a.Findings) == 0 }

// Codes returns the codes of the findings.
func (a Anomaly) Codes() []string {
	codes := make([]string, 0, len(a.Findings))
	for _, f := range a.Findings {
		codes = append(codes, f.Code)
	}
	return codes
}

// Total returns the sum of the finding deltas.
func (a Anomaly) Total() int64 {
	var total int64
	for _, f := range a.Findings {
		total += f.Delta
	}
	return total
}

// LedgerInfo describes a ledger taking part in a reconciliation.
type LedgerInfo struct {
	Name    string
	Records int
}

// Reconciliation holds the result of every category, in [Categories] order.
type Reconciliation struct {
	PeriodStart date.Date
	Prior       LedgerInfo
	Current     LedgerInfo
	Anomalies   []Anomaly // one per category, empty ones included
}

// Found returns the non empty anomalies.
func (r *Reconciliation) Found() []Anomaly {
	var found []Anomaly
	for _, a := range r.Anomalies {
		if !a.IsEmpty() {
			found = append(found, a)
		}
	}
	return found
}

// Tier returns the non empty anomalies of a tier.
func (r *Reconciliation) Tier(t Tier) []Anomaly {
	var found []Anomaly
	for _, a := range r.Found() {
		if a.Category.Tier == t {
			found = append(found, a)
		}
	}
	return found
}

// HasTier reports whether any anomaly of the tier was found.
func (r *Reconciliation) HasTier(t Tier) bool { return len(r.Tier(t)) > 0 }

// IsClean reports whether no anomaly was found at all.
func (r *Reconciliation) IsClean() bool { return len(r.Found()) == 0 }

// Differential returns the sum of the differential anomaly amounts: the
// unexplained change of the work-in-progress balance.
func (r *Reconciliation) Differential() int64 {
	var total int64
	for _, a := range r.Tier(Differential) {
		total += a.Total()
	}
	return total
}

// Anomaly returns the result of the category with the given number.
func (r *Reconciliation) Anomaly(number int) (Anomaly, bool) {
	for _, a := range r.Anomalies {
		if a.Category.Number == number {
			return a, true
		}
	}
	return Anomaly{}, false
}

// Audit classifies both ledgers relative to the current period start and
// reconciles them.
func Audit(prior, current *Ledger, periodStart date.Date) (*Reconciliation, error) {
	return Reconcile(prior, current, Classify(prior, periodStart), Classify(current, periodStart))
}

// Reconcile evaluates every category of [Categories] on the prior and current
// ledgers and their partitions.
//
// Both partitions must have been computed with the same period start, the
// start of the current period.
func Reconcile(prior, current *Ledger, p, c Partition) (*Reconciliation, error) {
	if p.PeriodStart != c.PeriodStart {
		return nil, fmt.Errorf("partitions use different period starts: prior %v, current %v", p.PeriodStart, c.PeriodStart)
	}
	r := &Reconciliation{
		PeriodStart: c.PeriodStart,
		Prior:       LedgerInfo{Name: prior.Name(), Records: prior.Len()},
		Current:     LedgerInfo{Name: current.Name(), Records: current.Len()},
		Anomalies:   make([]Anomaly, 0, len(Categories)),
	}
	for _, cat := range Categories {
		a, err := cat.evaluate(prior, current, p, c)
		if err != nil {
			return nil, err
		}
		r.Anomalies = append(r.Anomalies, a)
	}
	return r, nil
}

func (cat Category) evaluate(prior, current *Ledger, p, c Partition) (Anomaly, error) {
	a := Anomaly{Category: cat}
	readPrior, readCurrent := cat.reads()

	for _, code := range cat.Select(p, c).Elements() {
		var pr, cr Record
		var ok bool
		if readPrior {
			if pr, ok = prior.Record(code); !ok {
				return a, &IntegrityError{Category: cat.Number, Code: code, Side: Prior}
			}
		}
		if readCurrent {
			if cr, ok = current.Record(code); !ok {
				return a, &IntegrityError{Category: cat.Number, Code: code, Side: Current}
			}
		}
		if !cat.Where.keep(pr, cr) {
			continue
		}
		name := pr.Name
		if cat.NameFrom == Current {
			name = cr.Name
		}
		a.Findings = append(a.Findings, Finding{Code: code, Name: name, Delta: cat.Delta.apply(pr, cr)})
	}
	return a, nil
}
