package kouji

import "bitbucket.org/creachadair/stringset"

// Tier groups categories under a report banner.
type Tier int

const (
	// Differential anomalies change the work-in-progress balance between the
	// two periods (未成工事の差額となる不整合).
	Differential Tier = iota
	// NonDifferential anomalies leave the balance unchanged but are still
	// inconsistent and need checking (未成工事の差額とはならない不整合).
	NonDifferential
)

func (t Tier) String() string {
	switch t {
	case Differential:
		return "differential"
	case NonDifferential:
		return "non-differential"
	default:
		return "unknown"
	}
}

// Side designates one of the two ledgers being compared.
type Side int

const (
	Prior   Side = iota // the prior period ledger (前期)
	Current             // the current period ledger (当期)
)

func (s Side) String() string {
	if s == Prior {
		return "prior"
	}
	return "current"
}

// Filter is a condition on the records of a candidate code.
type Filter int

const (
	// Always keeps every candidate.
	Always Filter = iota
	// OpeningNonZero keeps codes whose current opening balance is not zero.
	OpeningNonZero
	// BalanceMismatch keeps codes whose prior cumulative amount differs from
	// the current opening balance.
	BalanceMismatch
)

func (f Filter) reads() (prior, current bool) {
	switch f {
	case OpeningNonZero:
		return false, true
	case BalanceMismatch:
		return true, true
	default:
		return false, false
	}
}

func (f Filter) keep(prior, current Record) bool {
	switch f {
	case OpeningNonZero:
		return current.Opening() != 0
	case BalanceMismatch:
		return prior.Cumulative != current.Opening()
	default:
		return true
	}
}

// Delta is the rule computing the signed amount reported for a code.
type Delta int

const (
	MinusPriorCumulative Delta = iota // −prior.cumulative
	CurrentOpening                    // current.opening
	CurrentCumulative                 // current.cumulative
	OpeningGap                        // current.opening − prior.cumulative
)

func (d Delta) String() string {
	switch d {
	case MinusPriorCumulative:
		return "-prior.cumulative"
	case CurrentOpening:
		return "current.opening"
	case CurrentCumulative:
		return "current.cumulative"
	case OpeningGap:
		return "current.opening-prior.cumulative"
	default:
		return "unknown"
	}
}

func (d Delta) reads() (prior, current bool) {
	switch d {
	case MinusPriorCumulative:
		return true, false
	case CurrentOpening, CurrentCumulative:
		return false, true
	default:
		return true, true
	}
}

func (d Delta) apply(prior, current Record) int64 {
	switch d {
	case MinusPriorCumulative:
		return -prior.Cumulative
	case CurrentOpening:
		return current.Opening()
	case CurrentCumulative:
		return current.Cumulative
	default:
		return current.Opening() - prior.Cumulative
	}
}

// Category is an anomaly rule.
//
// Candidates are selected by set algebra on the two partitions, then kept if
// they pass Where. Each kept code is reported with the amount computed by
// Delta and the name read from the NameFrom ledger.
type Category struct {
	Number   int
	Slug     string
	Title    string
	Label    string // Japanese heading used in reports
	Tier     Tier
	Select   func(p, c Partition) stringset.Set
	Where    Filter
	Delta    Delta
	NameFrom Side
}

// reads returns which ledgers must hold the selected codes.
func (cat Category) reads() (prior, current bool) {
	dp, dc := cat.Delta.reads()
	fp, fc := cat.Where.reads()
	prior = dp || fp || cat.NameFrom == Prior
	current = dc || fc || cat.NameFrom == Current
	return prior, current
}

// Categories is the ordered list of anomaly rules. Reports follow this order.
var Categories = []Category{
	{
		Number: 1,
		Slug:   "incomplete-vanished",
		Title:  "Incomplete project vanished",
		Label:  "前期未成だった工事が無くなっている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.Incomplete.Diff(c.All)
		},
		Delta:    MinusPriorCumulative,
		NameFrom: Prior,
	},
	{
		Number: 2,
		Slug:   "future-completed-vanished",
		Title:  "Future-completed project vanished",
		Label:  "前期に当期以降の完成日が入っていた工事が無くなっている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.FutureCompleted.Diff(c.All)
		},
		Delta:    MinusPriorCumulative,
		NameFrom: Prior,
	},
	{
		Number: 3,
		Slug:   "new-with-opening-balance",
		Title:  "New project already has an opening balance",
		Label:  "前期に無かった工事が当期首残を持っている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return c.Incomplete.Union(c.FutureCompleted).Diff(p.All)
		},
		Where:    OpeningNonZero,
		Delta:    CurrentOpening,
		NameFrom: Current,
	},
	{
		Number: 4,
		Slug:   "past-completed-reopened",
		Title:  "Past-completed project reverted to incomplete",
		Label:  "過年度に完成していた工事が当期に未成となっている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.PastCompleted.Intersect(c.Incomplete)
		},
		Delta:    CurrentCumulative,
		NameFrom: Current,
	},
	{
		Number: 5,
		Slug:   "incomplete-became-past-completed",
		Title:  "Incomplete project became past-completed",
		Label:  "前期末に未成だった工事が当期に過年度完成となっている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.Incomplete.Intersect(c.PastCompleted)
		},
		Delta:    MinusPriorCumulative,
		NameFrom: Prior,
	},
	{
		Number: 6,
		Slug:   "future-completed-became-past-completed",
		Title:  "Future-completed project became past-completed",
		Label:  "前期に当期以降の完成日が入っていた工事が当期に過年度完成になっている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.FutureCompleted.Intersect(c.PastCompleted)
		},
		// The name comes from the current ledger while the amount is the
		// prior cumulative amount. Keep it that way until the accounting team
		// confirms which name they expect.
		Delta:    MinusPriorCumulative,
		NameFrom: Current,
	},
	{
		Number: 7,
		Slug:   "past-completed-became-future-completed",
		Title:  "Past-completed project became future-completed",
		Label:  "過年度に完成していた工事に当期以降の完成日が入っている",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			return p.PastCompleted.Intersect(c.FutureCompleted)
		},
		Delta:    CurrentCumulative,
		NameFrom: Current,
	},
	{
		Number: 8,
		Slug:   "opening-balance-mismatch",
		Title:  "Opening balance differs from prior closing balance",
		Label:  "当期首残高と前期末残高が異なる",
		Tier:   Differential,
		Select: func(p, c Partition) stringset.Set {
			// codes past-completed in both periods belong to category 10
			return p.All.Intersect(c.All).Diff(p.PastCompleted.Intersect(c.PastCompleted))
		},
		Where:    BalanceMismatch,
		Delta:    OpeningGap,
		NameFrom: Prior,
	},
	{
		Number: 9,
		Slug:   "new-past-completed",
		Title:  "New project already past-completed",
		Label:  "前期に無かった工事が当期に過年度完成になっている",
		Tier:   NonDifferential,
		Select: func(p, c Partition) stringset.Set {
			return c.PastCompleted.Diff(p.All)
		},
		Delta:    CurrentCumulative,
		NameFrom: Current,
	},
	{
		Number: 10,
		Slug:   "past-completed-balance-mismatch",
		Title:  "Past-completed project with mismatched balance",
		Label:  "前期に完成している工事で当期首残高と前期末残高が異なる",
		Tier:   NonDifferential,
		Select: func(p, c Partition) stringset.Set {
			return p.PastCompleted.Intersect(c.PastCompleted)
		},
		Where:    BalanceMismatch,
		Delta:    OpeningGap,
		NameFrom: Prior,
	},
}
