package kouji

import (
	"errors"
	"slices"
	"testing"

	"github.com/etnz/kouji/date"
	"github.com/google/go-cmp/cmp"
)

var (
	past   = date.New(2020, 6, 30)
	future = date.New(2021, 6, 30)
)

// pr and cr build prior and current records named after their side, so that
// tests can check where a finding takes its name from.
func pr(code string, actual, cumulative int64, completed date.Date) Record {
	return Record{Code: code, Name: "prior " + code, Actual: actual, Cumulative: cumulative, Completed: completed}
}

func cr(code string, actual, cumulative int64, completed date.Date) Record {
	return Record{Code: code, Name: "current " + code, Actual: actual, Cumulative: cumulative, Completed: completed}
}

func TestReconcileCategories(t *testing.T) {
	none := date.Date{}

	testCases := []struct {
		name    string
		prior   []Record
		current []Record
		want    map[int][]Finding
	}{
		{
			name:  "incomplete project vanished",
			prior: []Record{pr("A001", 400, 1000, none)},
			want:  map[int][]Finding{1: {{"A001", "prior A001", -1000}}},
		},
		{
			name:  "future-completed project vanished",
			prior: []Record{pr("A002", 0, 700, future)},
			want:  map[int][]Finding{2: {{"A002", "prior A002", -700}}},
		},
		{
			name:    "new project with opening balance",
			current: []Record{cr("B003", 100, 600, none), cr("B004", 100, 100, future)},
			want:    map[int][]Finding{3: {{"B003", "current B003", 500}}},
		},
		{
			name:    "new past-completed project is not a new project with opening balance",
			current: []Record{cr("B002", 0, 500, past)},
			want:    map[int][]Finding{9: {{"B002", "current B002", 500}}},
		},
		{
			name:    "past-completed project reopened",
			prior:   []Record{pr("C001", 0, 800, past)},
			current: []Record{cr("C001", 50, 850, none)},
			want:    map[int][]Finding{4: {{"C001", "current C001", 850}}},
		},
		{
			name:    "incomplete project became past-completed",
			prior:   []Record{pr("D001", 100, 300, none)},
			current: []Record{cr("D001", 0, 300, date.New(2021, 3, 15))},
			want:    map[int][]Finding{5: {{"D001", "prior D001", -300}}},
		},
		{
			name:    "future-completed project became past-completed",
			prior:   []Record{pr("E001", 0, 400, future)},
			current: []Record{cr("E001", 0, 400, date.New(2021, 3, 31))},
			want:    map[int][]Finding{6: {{"E001", "current E001", -400}}},
		},
		{
			name:    "past-completed project became future-completed",
			prior:   []Record{pr("F001", 0, 200, past)},
			current: []Record{cr("F001", 0, 200, date.New(2021, 5, 1))},
			want:    map[int][]Finding{7: {{"F001", "current F001", 200}}},
		},
		{
			name:    "opening balance mismatch",
			prior:   []Record{pr("G001", 300, 1000, none)},
			current: []Record{cr("G001", 100, 1050, none)},
			want:    map[int][]Finding{8: {{"G001", "prior G001", -50}}},
		},
		{
			name:    "past-completed balance mismatch is not an opening balance mismatch",
			prior:   []Record{pr("C003", 0, 1000, past)},
			current: []Record{cr("C003", 100, 1000, past)},
			want:    map[int][]Finding{10: {{"C003", "prior C003", -100}}},
		},
		{
			name:    "one code in two differential categories",
			prior:   []Record{pr("D002", 100, 300, none)},
			current: []Record{cr("D002", 0, 350, date.New(2021, 3, 15))},
			want: map[int][]Finding{
				5: {{"D002", "prior D002", -300}},
				8: {{"D002", "prior D002", 50}},
			},
		},
		{
			name:    "consistent incomplete project",
			prior:   []Record{pr("H001", 500, 1000, none)},
			current: []Record{cr("H001", 200, 1200, none)},
		},
		{
			name:    "completed on the period start",
			prior:   []Record{pr("H002", 0, 100, none)},
			current: []Record{cr("H002", 0, 100, periodStart)},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Audit(mustLedger(t, "zenki.csv", tc.prior...), mustLedger(t, "touki.csv", tc.current...), periodStart)
			if err != nil {
				t.Fatalf("Audit() unexpected error: %v", err)
			}
			if len(r.Anomalies) != len(Categories) {
				t.Fatalf("len(Anomalies) = %d, want %d", len(r.Anomalies), len(Categories))
			}
			for i, a := range r.Anomalies {
				if a.Category.Number != Categories[i].Number {
					t.Errorf("Anomalies[%d] is category %d, want %d", i, a.Category.Number, Categories[i].Number)
				}
				if diff := cmp.Diff(tc.want[a.Category.Number], a.Findings); diff != "" {
					t.Errorf("category %d findings mismatch (-want +got):\n%s", a.Category.Number, diff)
				}
			}
		})
	}
}

// mixed returns ledgers where every category finds something.
func mixed(t *testing.T) (prior, current *Ledger) {
	t.Helper()
	prior = mustLedger(t, "zenki.csv",
		pr("A001", 400, 1000, date.Date{}),
		pr("A010", 0, 10, date.Date{}),
		pr("A002", 0, 700, future),
		pr("C001", 0, 800, past),
		pr("D001", 100, 300, date.Date{}),
		pr("E001", 0, 400, future),
		pr("F001", 0, 200, past),
		pr("G001", 300, 1000, date.Date{}),
		pr("C003", 0, 1000, past),
		pr("C004", 0, 1000, past),
		pr("H001", 500, 1000, date.Date{}),
	)
	current = mustLedger(t, "touki.csv",
		cr("B003", 100, 600, date.Date{}),
		cr("B002", 0, 500, past),
		cr("C001", 50, 850, date.Date{}),
		cr("D001", 0, 300, date.New(2021, 3, 15)),
		cr("E001", 0, 400, date.New(2021, 3, 31)),
		cr("F001", 0, 200, date.New(2021, 5, 1)),
		cr("G001", 100, 1050, date.Date{}),
		cr("C003", 100, 1000, past),
		cr("C004", 0, 1000, past),
		cr("H001", 200, 1200, date.Date{}),
	)
	return prior, current
}

func TestReconcileReport(t *testing.T) {
	prior, current := mixed(t)
	r, err := Audit(prior, current, periodStart)
	if err != nil {
		t.Fatal(err)
	}

	if len(r.Found()) != len(Categories) {
		t.Errorf("len(Found()) = %d, want %d", len(r.Found()), len(Categories))
	}
	if got := len(r.Tier(Differential)); got != 8 {
		t.Errorf("len(Tier(Differential)) = %d, want 8", got)
	}
	if got := len(r.Tier(NonDifferential)); got != 2 {
		t.Errorf("len(Tier(NonDifferential)) = %d, want 2", got)
	}
	// -1000-10 -700 +500 +850 -300 -400 +200 -50
	if got := r.Differential(); got != -910 {
		t.Errorf("Differential() = %d, want -910", got)
	}
	a, ok := r.Anomaly(1)
	if !ok || !slices.Equal(a.Codes(), []string{"A001", "A010"}) || a.Total() != -1010 {
		t.Errorf("Anomaly(1) = %v %v total %d, want [A001 A010] total -1010", ok, a.Codes(), a.Total())
	}
	if r.PeriodStart != periodStart || r.Prior.Name != "zenki.csv" || r.Current.Records != 10 {
		t.Errorf("summary = %v %+v %+v", r.PeriodStart, r.Prior, r.Current)
	}

	for _, a := range r.Anomalies {
		codes := a.Codes()
		for i := 1; i < len(codes); i++ {
			if codes[i-1] >= codes[i] {
				t.Errorf("category %d codes not strictly ascending: %v", a.Category.Number, codes)
			}
		}
	}
}

func TestReconcileNoDoubleCount(t *testing.T) {
	prior, current := mixed(t)
	r, err := Audit(prior, current, periodStart)
	if err != nil {
		t.Fatal(err)
	}
	p, c := Classify(prior, periodStart), Classify(current, periodStart)
	bothPast := p.PastCompleted.Intersect(c.PastCompleted)

	eight, _ := r.Anomaly(8)
	for _, code := range eight.Codes() {
		if bothPast.Contains(code) {
			t.Errorf("category 8 reports %q, past-completed in both ledgers", code)
		}
	}
	// C004 has consistent balances and belongs to no category
	for _, a := range r.Anomalies {
		if slices.Contains(a.Codes(), "C004") {
			t.Errorf("category %d reports C004", a.Category.Number)
		}
	}
}

func TestReconcileIdempotent(t *testing.T) {
	prior, current := mixed(t)
	first, err := Audit(prior, current, periodStart)
	if err != nil {
		t.Fatal(err)
	}
	for range 5 {
		again, err := Audit(prior, current, periodStart)
		if err != nil {
			t.Fatal(err)
		}
		for i := range first.Anomalies {
			if diff := cmp.Diff(first.Anomalies[i].Findings, again.Anomalies[i].Findings); diff != "" {
				t.Fatalf("category %d differs between runs:\n%s", first.Anomalies[i].Category.Number, diff)
			}
		}
	}
}

func TestReconcileClean(t *testing.T) {
	l := mustLedger(t, "zenki.csv", pr("H001", 0, 1000, date.Date{}), pr("C004", 0, 1000, past))
	r, err := Audit(l, l, periodStart)
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsClean() || r.HasTier(Differential) || r.HasTier(NonDifferential) || r.Differential() != 0 {
		t.Errorf("Audit() of identical ledgers without activity is not clean: %+v", r.Found())
	}
}

func TestReconcileIntegrityFault(t *testing.T) {
	prior := mustLedger(t, "zenki.csv", pr("A001", 0, 1000, date.Date{}))
	current := mustLedger(t, "touki.csv")

	p := Classify(prior, periodStart)
	p.All.Add("X001")
	p.Incomplete.Add("X001")
	c := Classify(current, periodStart)

	_, err := Reconcile(prior, current, p, c)
	if !errors.Is(err, ErrIntegrity) {
		t.Fatalf("Reconcile() error = %v, want ErrIntegrity", err)
	}
	var ie *IntegrityError
	if !errors.As(err, &ie) {
		t.Fatalf("Reconcile() error = %T, want *IntegrityError", err)
	}
	if ie.Category != 1 || ie.Code != "X001" || ie.Side != Prior {
		t.Errorf("IntegrityError = %+v, want category 1, code X001, prior side", ie)
	}
}

func TestReconcilePeriodMismatch(t *testing.T) {
	prior := mustLedger(t, "zenki.csv")
	current := mustLedger(t, "touki.csv")
	_, err := Reconcile(prior, current, Classify(prior, date.New(2020, 4, 1)), Classify(current, periodStart))
	if err == nil {
		t.Error("Reconcile() with different period starts expected an error")
	}
}

func TestCategories(t *testing.T) {
	slugs := make(map[string]bool)
	for i, cat := range Categories {
		if cat.Number != i+1 {
			t.Errorf("Categories[%d].Number = %d, want %d", i, cat.Number, i+1)
		}
		if slugs[cat.Slug] {
			t.Errorf("duplicate slug %q", cat.Slug)
		}
		slugs[cat.Slug] = true
		if cat.Select == nil || cat.Label == "" || cat.Title == "" {
			t.Errorf("category %d is incomplete", cat.Number)
		}
		if want := cat.Number >= 9; (cat.Tier == NonDifferential) != want {
			t.Errorf("category %d tier = %v", cat.Number, cat.Tier)
		}
	}
}
