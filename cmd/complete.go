package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete answers shell completion requests for the program name, and
// returns when the process was not invoked for completion.
func Complete(name string) {
	ledgers := predict.Or(
		predict.Files("*.csv"),
		predict.Files("*.xlsx"),
		predict.Files("*.xlsm"),
		predict.Files("*.jsonl"),
	)
	cmd := &complete.Command{
		Sub: map[string]*complete.Command{
			"audit": {
				Flags: map[string]complete.Predictor{
					"prior":    ledgers,
					"current":  ledgers,
					"start":    predict.Something,
					"format":   predict.Set{"markdown", "text", "json"},
					"select":   predict.Something,
					"currency": predict.Set{"JPY", "USD", "EUR"},
					"strict":   predict.Nothing,
				},
			},
			"classify": {
				Flags: map[string]complete.Predictor{
					"l":     ledgers,
					"start": predict.Something,
				},
			},
			"convert": {
				Flags: map[string]complete.Predictor{
					"l": ledgers,
					"o": predict.Files("*.jsonl"),
				},
			},
			"era":      {Args: predict.Something},
			"topic":    {Args: predict.Set{"audit", "categories", "config", "eras", "layout", "*"}},
			"help":     {},
			"flags":    {},
			"commands": {},
		},
		Flags: map[string]complete.Predictor{
			"config": predict.Files("*.toml"),
			"v":      predict.Nothing,
		},
	}
	cmd.Complete(name)
}
