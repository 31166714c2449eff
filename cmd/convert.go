package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/kouji"
	"github.com/google/subcommands"
)

type convertCmd struct {
	ledger string
	output string

	out io.Writer
}

func (*convertCmd) Name() string     { return "convert" }
func (*convertCmd) Synopsis() string { return "converts a CSV or XLSX ledger export to JSONL" }
func (*convertCmd) Usage() string {
	return `wip convert -l <file> [-o <file>]

  Reads a ledger export with the configured layout and writes it as JSONL,
  one project per line, sorted by code. Completion dates are written in
  ISO 8601 form.

  The output defaults to the input file name with a .jsonl extension. Use
  '-o -' to write on the standard output.

`
}

func (c *convertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ledger, "l", "", "ledger file to convert")
	f.StringVar(&c.output, "o", "", "output file, '-' for the standard output")
}

func (c *convertCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ledger == "" {
		fmt.Fprintln(os.Stderr, "Error: -l is required")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	logger := newLogger()
	defer logger.Sync()

	l, err := newLoader(cfg, logger).Load(c.ledger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	if c.output == "-" {
		if err := kouji.EncodeLedger(stdout(c.out), l); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	output := c.output
	if output == "" {
		output = strings.TrimSuffix(c.ledger, filepath.Ext(c.ledger)) + ".jsonl"
	}
	if output == c.ledger {
		fmt.Fprintf(os.Stderr, "Error: refusing to overwrite %q\n", c.ledger)
		return subcommands.ExitUsageError
	}
	if err := kouji.SaveLedger(output, l); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(stdout(c.out), "%d projects written to %s\n", l.Len(), output)
	return subcommands.ExitSuccess
}
