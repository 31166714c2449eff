package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/kouji"
	"github.com/etnz/kouji/date"
	"github.com/etnz/kouji/renderer"
	"github.com/google/subcommands"
)

type auditCmd struct {
	prior    string
	current  string
	start    string
	format   string
	selector string
	currency string
	strict   bool

	in  io.Reader // answers the period start prompt
	out io.Writer
}

func (*auditCmd) Name() string { return "audit" }
func (*auditCmd) Synopsis() string {
	return "compares the prior and current ledgers and lists the anomalies"
}
func (*auditCmd) Usage() string {
	return `wip audit [-prior <file>] [-current <file>] [-start <date>] [-format markdown|text|json] [-select <jsonpath>]

  Classifies the projects of both ledgers against the start of the current
  period and lists every project that breaks the continuity between them.

  Ledgers are read from CSV or XLSX exports, or from JSONL files written by
  'wip convert'. When no period start is configured, it is asked for.

  The -select flag applies a JSONPath expression to the JSON report, for
  instance '$.anomalies[?(@.tier=="differential")].findings[*].code'.

`
}

func (c *auditCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prior, "prior", "", "prior period ledger file (default from config, zenki.csv)")
	f.StringVar(&c.current, "current", "", "current period ledger file (default from config, touki.csv)")
	f.StringVar(&c.start, "start", "", "start of the current period, 20210401 or 2021-04-01")
	f.StringVar(&c.format, "format", "markdown", "output format: markdown, text or json")
	f.StringVar(&c.selector, "select", "", "JSONPath expression applied to the JSON report")
	f.StringVar(&c.currency, "currency", "", "ISO 4217 currency code used to format amounts")
	f.BoolVar(&c.strict, "strict", false, "exit with a failure when a differential anomaly is found")
}

func (c *auditCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "Error: audit takes no arguments")
		return subcommands.ExitUsageError
	}
	switch c.format {
	case "markdown", "text", "json":
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	c.defaults(cfg)

	fm, err := formatter(c.currency)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	periodStart, err := c.periodStart()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	logger := newLogger()
	defer logger.Sync()
	loader := newLoader(cfg, logger)

	prior, err := loader.Load(c.prior)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading prior ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	current, err := loader.Load(c.current)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading current ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	rec, err := kouji.Audit(prior, current, periodStart)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	out := stdout(c.out)
	switch {
	case c.selector != "":
		err = selectReport(out, rec, c.selector)
	case c.format == "json":
		err = renderer.JSON(out, rec)
	case c.format == "text":
		err = renderer.Text(out, rec, fm)
	default:
		printMarkdown(out, renderer.Markdown(rec, fm))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.strict && rec.HasTier(kouji.Differential) {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// defaults fills the flags left empty from the configuration.
func (c *auditCmd) defaults(cfg Config) {
	if c.prior == "" {
		c.prior = cfg.Prior
	}
	if c.current == "" {
		c.current = cfg.Current
	}
	if c.start == "" {
		c.start = cfg.PeriodStart
	}
	if c.currency == "" {
		c.currency = cfg.Currency
	}
}

// periodStart parses the configured period start, or prompts for it.
func (c *auditCmd) periodStart() (date.Date, error) {
	if c.start != "" {
		return date.ParsePeriodStart(c.start)
	}
	in := c.in
	if in == nil {
		in = os.Stdin
	}
	return promptPeriodStart(in, os.Stderr)
}

// promptPeriodStart asks for the period start the way accounting staff are used to.
func promptPeriodStart(in io.Reader, out io.Writer) (date.Date, error) {
	fmt.Fprint(out, "期首年月日[例：2021年4月1日→20210401]>>")
	line, err := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(line)
	if line == "" {
		if err != nil && !errors.Is(err, io.EOF) {
			return date.Date{}, fmt.Errorf("reading period start: %w", err)
		}
		return date.Date{}, errors.New("no period start given")
	}
	return date.ParsePeriodStart(line)
}

// selectReport writes the part of the JSON report matched by a JSONPath expression.
func selectReport(w io.Writer, rec *kouji.Reconciliation, path string) error {
	data, err := json.Marshal(renderer.NewReport(rec))
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return fmt.Errorf("selecting %q: %w", path, err)
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
