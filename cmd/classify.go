package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/etnz/kouji"
	"github.com/etnz/kouji/date"
	"github.com/etnz/kouji/renderer"
	"github.com/google/subcommands"
)

type classifyCmd struct {
	ledger string
	start  string

	out io.Writer
}

func (*classifyCmd) Name() string     { return "classify" }
func (*classifyCmd) Synopsis() string { return "lists the projects of a ledger with their status" }
func (*classifyCmd) Usage() string {
	return `wip classify [-l <file>] [-start <date>]

  Lists every project of a ledger with its completion date and its status
  relative to the period start: incomplete, completed in the current period
  or later, or completed before it. Completion dates after the end of the
  fiscal year are flagged.

`
}

func (c *classifyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "l", "", "ledger file (default from config, the current ledger)")
	f.StringVar(&c.start, "start", "", "start of the current period, 20210401 or 2021-04-01")
}

func (c *classifyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.ledger == "" {
		c.ledger = cfg.Current
	}
	if c.start == "" {
		c.start = cfg.PeriodStart
	}
	if c.start == "" {
		fmt.Fprintln(os.Stderr, "Error: -start is required")
		return subcommands.ExitUsageError
	}
	periodStart, err := date.ParsePeriodStart(c.start)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()

	l, err := newLoader(cfg, logger).Load(c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(stdout(c.out), classification(l, kouji.Classify(l, periodStart)))
	return subcommands.ExitSuccess
}

// classification renders a partition as a Markdown table.
func classification(l *kouji.Ledger, p kouji.Partition) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", l.Name())
	fmt.Fprintf(&b, "Period start: **%s**\n\n", p.PeriodStart)
	fmt.Fprintln(&b, "| Code | Name | Completed | Status |")
	fmt.Fprintln(&b, "|:---|:---|:---|:---|")
	fy := date.FiscalYear(p.PeriodStart)
	for r := range l.Records() {
		s, _ := p.Status(r.Code)
		status := s.String()
		// a completion date the current fiscal year cannot hold yet
		if s == kouji.FutureCompleted && !fy.Contains(r.Completed) {
			status += " (after fiscal year end)"
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", renderer.Escape(r.Code), renderer.Escape(r.Name), r.Completed, status)
	}
	fmt.Fprintf(&b, "\n%d incomplete, %d completed in or after the period, %d completed before.\n",
		len(p.Incomplete), len(p.FutureCompleted), len(p.PastCompleted))
	return b.String()
}
