package renderer

import (
	"encoding/json"
	"io"

	"github.com/etnz/kouji"
	"github.com/etnz/kouji/date"
)

// Report is the JSON document of a reconciliation.
type Report struct {
	PeriodStart  date.Date       `json:"periodStart"`
	Prior        LedgerSummary   `json:"prior"`
	Current      LedgerSummary   `json:"current"`
	Differential int64           `json:"differential"`
	Anomalies    []AnomalyReport `json:"anomalies"`
}

// LedgerSummary describes a compared ledger.
type LedgerSummary struct {
	Name     string `json:"name"`
	Projects int    `json:"projects"`
}

// AnomalyReport is a non empty category.
type AnomalyReport struct {
	Number   int             `json:"number"`
	Slug     string          `json:"slug"`
	Title    string          `json:"title"`
	Label    string          `json:"label"`
	Tier     string          `json:"tier"`
	Delta    string          `json:"delta"`
	NameFrom string          `json:"nameFrom"`
	Total    int64           `json:"total"`
	Findings []FindingReport `json:"findings"`
}

// FindingReport is a reported project.
type FindingReport struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// NewReport builds the JSON document of a reconciliation. Only non empty
// categories are listed.
func NewReport(r *kouji.Reconciliation) *Report {
	rep := &Report{
		PeriodStart:  r.PeriodStart,
		Prior:        LedgerSummary{Name: r.Prior.Name, Projects: r.Prior.Records},
		Current:      LedgerSummary{Name: r.Current.Name, Projects: r.Current.Records},
		Differential: r.Differential(),
		Anomalies:    []AnomalyReport{},
	}
	for _, a := range r.Found() {
		ar := AnomalyReport{
			Number:   a.Category.Number,
			Slug:     a.Category.Slug,
			Title:    a.Category.Title,
			Label:    a.Category.Label,
			Tier:     a.Category.Tier.String(),
			Delta:    a.Category.Delta.String(),
			NameFrom: a.Category.NameFrom.String(),
			Total:    a.Total(),
		}
		for _, f := range a.Findings {
			ar.Findings = append(ar.Findings, FindingReport{Code: f.Code, Name: f.Name, Amount: f.Delta})
		}
		rep.Anomalies = append(rep.Anomalies, ar)
	}
	return rep
}

// JSON writes the indented JSON document of a reconciliation.
func JSON(w io.Writer, r *kouji.Reconciliation) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(NewReport(r))
}
