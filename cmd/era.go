package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/kouji/date"
	"github.com/google/subcommands"
)

type eraCmd struct {
	out io.Writer
}

func (*eraCmd) Name() string     { return "era" }
func (*eraCmd) Synopsis() string { return "converts era-prefixed dates to ISO 8601 and back" }
func (*eraCmd) Usage() string {
	return `wip era <date>...

  Converts dates written with a Japanese era prefix, as found in ledger
  exports, to ISO 8601 dates:

    wip era R03/04/01 H31.04.30

  ISO 8601 dates are converted to the era notation:

    wip era 2021-04-01

  Known eras are S (昭和), H (平成) and R (令和). Empty, 0 and 0.0 denote an
  incomplete project.

`
}

func (*eraCmd) SetFlags(*flag.FlagSet) {}

func (c *eraCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: at least one date is required")
		return subcommands.ExitUsageError
	}
	out := stdout(c.out)
	status := subcommands.ExitSuccess
	for _, token := range f.Args() {
		if d, err := date.Parse(token); err == nil {
			fmt.Fprintf(out, "%s\t%s\n", token, date.FormatWareki(d))
			continue
		}
		d, ok, err := date.ParseWareki(token)
		switch {
		case err != nil:
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			status = subcommands.ExitFailure
		case !ok:
			fmt.Fprintf(out, "%s\tincomplete\n", token)
		default:
			fmt.Fprintf(out, "%s\t%s\n", token, d)
		}
	}
	return status
}
