package config

import (
	"fmt"
	"slices"

	"github.com/japaniel/nvlookup/pkg/emit"
	"github.com/japaniel/nvlookup/pkg/logging"
)

var (
	validLevels  = []string{"debug", "info", "warn", "error"}
	validFormats = []string{logging.FormatConsole, logging.FormatJSON}
	validModes   = []string{emit.ModeText, emit.ModeAlfred}
)

// Validate checks the loaded configuration. Load calls it automatically;
// call it again after overriding fields.
func (c *Config) Validate() error {
	if err := c.QueryEndpoints().Validate(); err != nil {
		return fmt.Errorf("endpoints: %w", err)
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be > 0 (got %v)", c.HTTP.Timeout)
	}
	if c.HTTP.MaxBodyBytes <= 0 {
		return fmt.Errorf("http.max_body_bytes must be > 0 (got %d)", c.HTTP.MaxBodyBytes)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("batch.workers must be > 0 (got %d)", c.Batch.Workers)
	}
	if !slices.Contains(validModes, c.Output.Mode) {
		return fmt.Errorf("output.mode must be one of %v (got %q)", validModes, c.Output.Mode)
	}
	if !slices.Contains(validLevels, c.Log.Level) {
		return fmt.Errorf("log.level must be one of %v (got %q)", validLevels, c.Log.Level)
	}
	if !slices.Contains(validFormats, c.Log.Format) {
		return fmt.Errorf("log.format must be one of %v (got %q)", validFormats, c.Log.Format)
	}
	if c.Output.Mode == emit.ModeAlfred && c.LogsToStdout() {
		return fmt.Errorf("log.path %q would mix log lines into the %s output", c.Log.Path, emit.ModeAlfred)
	}
	return nil
}
