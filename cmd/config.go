package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/kouji"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the settings shared by all commands.
//
// Values come, by increasing priority, from the defaults, the TOML
// configuration file, the environment (a .env file is loaded first) and
// finally the command flags.
type Config struct {
	Prior       string       `toml:"prior"`        // prior period ledger file (前期)
	Current     string       `toml:"current"`      // current period ledger file (当期)
	PeriodStart string       `toml:"period_start"` // start of the current period, 20210401 or 2021-04-01
	Currency    string       `toml:"currency"`     // ISO code for amounts, plain numbers when empty
	Layout      kouji.Layout `toml:"layout"`
}

// DefaultConfig returns the settings used when nothing is configured.
// The file names are the ones accounting staff export to.
func DefaultConfig() Config {
	return Config{
		Prior:   "zenki.csv",
		Current: "touki.csv",
		Layout:  kouji.DefaultLayout(),
	}
}

// envVars maps environment variables to the setting they override.
var envVars = map[string]func(c *Config, v string){
	"WIP_PRIOR":        func(c *Config, v string) { c.Prior = v },
	"WIP_CURRENT":      func(c *Config, v string) { c.Current = v },
	"WIP_PERIOD_START": func(c *Config, v string) { c.PeriodStart = v },
	"WIP_CURRENCY":     func(c *Config, v string) { c.Currency = v },
	"WIP_ENCODING":     func(c *Config, v string) { c.Layout.Encoding = v },
	"WIP_SHEET":        func(c *Config, v string) { c.Layout.Sheet = v },
}

// LoadEnvFile loads the variables of a .env file into the environment,
// without overriding variables already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadConfig reads the configuration file at path, if it exists, and applies
// the environment variables returned by getenv.
func LoadConfig(path string, getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// no configuration file, keep the defaults
	case err != nil:
		return cfg, fmt.Errorf("reading config %q: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %q: %w", path, err)
		}
	}

	for name, set := range envVars {
		if v := getenv(name); v != "" {
			set(&cfg, v)
		}
	}

	if err := cfg.Layout.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}
