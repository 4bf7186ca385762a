package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTracker(); err != nil {
		return err
	}
	if err := c.validatePacing(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	if err := c.validateBrowser(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTracker() error {
	if c.Tracker.ClientBinary == "" {
		return errors.New("tracker.client_binary must be set")
	}
	if c.Tracker.CLIBinary == "" {
		return errors.New("tracker.cli_binary must be set")
	}
	if c.Tracker.StatusCacheTTL < 0 {
		return errors.New("tracker.status_cache_ttl must not be negative")
	}
	if c.Tracker.ReconnectBackoff <= 0 {
		return errors.New("tracker.reconnect_backoff must be positive")
	}
	if c.Tracker.StatusMaxAttempts <= 0 {
		return errors.New("tracker.status_max_attempts must be positive")
	}
	return nil
}

func (c *Config) validatePacing() error {
	if c.Pacing.ShiftLengthHours <= 0 || c.Pacing.ShiftLengthHours > 24 {
		return errors.New("pacing.shift_length_hours must be between 0 and 24")
	}
	if c.Pacing.PollInterval <= 0 {
		return errors.New("pacing.poll_interval must be positive")
	}
	if c.Pacing.DayBoundaryWindow <= 0 {
		return errors.New("pacing.day_boundary_window must be positive")
	}
	return nil
}

func (c *Config) validateLedger() error {
	switch c.Ledger.Backend {
	case "sqlite":
		if c.Ledger.SQLitePath == "" {
			return errors.New("ledger.sqlite_path must be set for the sqlite backend")
		}
	case "sheets":
		if c.Ledger.Sheets.SpreadsheetID == "" {
			defaultPath, err := DefaultConfigPath()
			if err != nil {
				defaultPath = "~/.config/pacer/config.toml"
			}
			return fmt.Errorf("ledger.sheets.spreadsheet_id is required for the sheets backend. Edit %s (create with 'pacer config init')", defaultPath)
		}
		if c.Ledger.Sheets.SheetName == "" {
			return errors.New("ledger.sheets.sheet_name must be set")
		}
		if c.Ledger.Sheets.StartRow < 2 {
			return errors.New("ledger.sheets.start_row must be at least 2 (row 1 holds the header)")
		}
	default:
		return fmt.Errorf("ledger.backend: unsupported value %q (expected sqlite or sheets)", c.Ledger.Backend)
	}
	return nil
}

func (c *Config) validateBrowser() error {
	if !c.Browser.Enabled {
		return nil
	}
	if c.Browser.Binary == "" {
		return errors.New("browser.binary must be set when browser.enabled is true")
	}
	if c.Browser.URL == "" {
		return errors.New("browser.url must be set when browser.enabled is true")
	}
	return nil
}
