package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/kouji"
	"github.com/etnz/kouji/date"
)

// banners are the section titles of each tier, in English and in Japanese.
var banners = map[kouji.Tier]struct{ Title, Label string }{
	kouji.Differential:    {"Differential anomalies", "未成工事の差額となる不整合"},
	kouji.NonDifferential: {"Non-differential anomalies", "未成工事の差額とはならない不整合"},
}

// Markdown renders a reconciliation as a Markdown report.
//
// Empty categories are omitted, and so is a tier banner when none of its
// categories found anything.
func Markdown(r *kouji.Reconciliation, f Formatter) string {
	var b strings.Builder

	fmt.Fprint(&b, "# Work-in-progress ledger audit\n\n")
	fmt.Fprintf(&b, "Period start: **%s** (fiscal year %s)\n\n", r.PeriodStart, date.FiscalYear(r.PeriodStart))

	fmt.Fprintln(&b, "| Ledger | File | Projects |")
	fmt.Fprintln(&b, "|:---|:---|---:|")
	fmt.Fprintf(&b, "| Prior | %s | %d |\n", Escape(r.Prior.Name), r.Prior.Records)
	fmt.Fprintf(&b, "| Current | %s | %d |\n\n", Escape(r.Current.Name), r.Current.Records)

	if r.IsClean() {
		fmt.Fprint(&b, "No anomaly found.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Work-in-progress differential: **%s**\n", f.Format(r.Differential()))

	for _, tier := range []kouji.Tier{kouji.Differential, kouji.NonDifferential} {
		anomalies := r.Tier(tier)
		if len(anomalies) == 0 {
			continue
		}
		banner := banners[tier]
		fmt.Fprintf(&b, "\n## %s\n\n", banner.Title)
		fmt.Fprintf(&b, "%s\n", banner.Label)

		for _, a := range anomalies {
			fmt.Fprintf(&b, "\n### %d. %s\n\n", a.Category.Number, a.Category.Title)
			fmt.Fprintf(&b, "%s\n\n", a.Category.Label)
			fmt.Fprintln(&b, "| Code | Amount | Name |")
			fmt.Fprintln(&b, "|:---|---:|:---|")
			for _, finding := range a.Findings {
				fmt.Fprintf(&b, "| %s | %s | %s |\n", Escape(finding.Code), f.Format(finding.Delta), Escape(finding.Name))
			}
			fmt.Fprintf(&b, "| **Total** | **%s** | |\n", f.Format(a.Total()))
		}
	}
	return b.String()
}

// Escape protects a Markdown table cell.
func Escape(s string) string { return strings.ReplaceAll(s, "|", `\|`) }
