package renderer

import (
	"fmt"
	"io"

	"github.com/etnz/kouji"
)

// Text writes the console listing of a reconciliation, in the layout
// accounting staff know from the legacy audit tool:
//
//	※※※※※※※《未成工事の差額となる不整合》※※※※※※※
//
//	【前期未成だった工事が無くなっている】
//	<Code>      :<Amount>       :<Name>
//	A001        :         -1,000:本社改修工事
//
// Nothing is written when the reconciliation is clean.
func Text(w io.Writer, r *kouji.Reconciliation, f Formatter) error {
	tw := &errWriter{w: w}
	if r.HasTier(kouji.Differential) {
		tw.printf("\n※※※※※※※《%s》※※※※※※※\n\n", banners[kouji.Differential].Label)
		for _, a := range r.Tier(kouji.Differential) {
			textSection(tw, a, f)
		}
	}
	if r.HasTier(kouji.NonDifferential) {
		tw.printf("※※※※※※《%s》※※※※※※\n\n", banners[kouji.NonDifferential].Label)
		for _, a := range r.Tier(kouji.NonDifferential) {
			textSection(tw, a, f)
		}
	}
	return tw.err
}

func textSection(w *errWriter, a kouji.Anomaly, f Formatter) {
	w.printf("【%s】\n", a.Category.Label)
	w.printf("%-12s:%-15s:%s\n", "<Code>", "<Amount>", "<Name>")
	for _, finding := range a.Findings {
		w.printf("%-12s:%15s:%s\n", finding.Code, f.Format(finding.Delta), finding.Name)
	}
	w.printf("\n")
}

// errWriter keeps the first write error.
type errWriter struct {
	w   io.Writer
	err error
}

func (w *errWriter) printf(format string, args ...any) {
	if w.err != nil {
		return
	}
	_, w.err = fmt.Fprintf(w.w, format, args...)
}
