// Package cmd implements the CLI application to audit work-in-progress ledgers.
package cmd

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/kouji"
	"github.com/etnz/kouji/renderer"
	"github.com/google/subcommands"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&auditCmd{}, "audit")
	c.Register(&classifyCmd{}, "audit")

	c.Register(&convertCmd{}, "ledgers")
	c.Register(&eraCmd{}, "ledgers")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "wip.toml", "Path to the configuration file (TOML)")
var verbose = flag.Bool("v", false, "Log loading details on stderr")

// loadConfig reads the application configuration.
func loadConfig() (Config, error) { return LoadConfig(*configFile, os.Getenv) }

// newLogger returns the application logger, writing on stderr.
func newLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if *verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// newLoader returns a ledger loader for the configured layout.
func newLoader(cfg Config, logger *zap.Logger) *kouji.Loader {
	return kouji.NewLoader(cfg.Layout, logger)
}

// formatter returns the amount formatter for a currency code, plain numbers if empty.
func formatter(code string) (renderer.Formatter, error) {
	if code == "" {
		return renderer.Plain(), nil
	}
	return renderer.Currency(code)
}

// printMarkdown renders md for the terminal when w is one, and writes it
// raw otherwise.
func printMarkdown(w io.Writer, md string) {
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(120),
		)
		if err == nil {
			if out, err := r.Render(md); err == nil {
				fmt.Fprint(w, out)
				return
			}
		}
	}
	fmt.Fprint(w, md)
}

// stdout returns w, or the standard output when w is nil.
func stdout(w io.Writer) io.Writer {
	if w == nil {
		return os.Stdout
	}
	return w
}
