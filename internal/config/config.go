package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	StateDir string `toml:"state_dir"`
	LogDir   string `toml:"log_dir"`
}

// Tracker contains configuration for the supervised time-tracking client.
type Tracker struct {
	ClientBinary        string `toml:"client_binary"`
	CLIBinary           string `toml:"cli_binary"`
	NotConnectedMessage string `toml:"not_connected_message"`
	StatusCacheTTL      int    `toml:"status_cache_ttl"`
	ReconnectBackoff    int    `toml:"reconnect_backoff"`
	StatusMaxAttempts   int    `toml:"status_max_attempts"`
}

// Pacing contains the weekly budget parameters driving pause/resume decisions.
type Pacing struct {
	ShiftLengthHours  float64 `toml:"shift_length_hours"`
	PollInterval      int     `toml:"poll_interval"`
	DayBoundaryWindow int     `toml:"day_boundary_window"`
}

// Sheets contains configuration for the Google Sheets ledger backend.
type Sheets struct {
	SpreadsheetID   string `toml:"spreadsheet_id"`
	SheetName       string `toml:"sheet_name"`
	StartRow        int    `toml:"start_row"`
	CredentialsFile string `toml:"credentials_file"`
	TokenFile       string `toml:"token_file"`
}

// Ledger selects and configures the durable ledger backend.
type Ledger struct {
	Backend    string `toml:"backend"`
	SQLitePath string `toml:"sqlite_path"`
	Sheets     Sheets `toml:"sheets"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Browser configures the optional notes-page launch at daemon startup.
type Browser struct {
	Enabled     bool   `toml:"enabled"`
	Binary      string `toml:"binary"`
	ProcessName string `toml:"process_name"`
	URL         string `toml:"url"`
}

// Config encapsulates all configuration values for pacer.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Tracker Tracker `toml:"tracker"`
	Pacing  Pacing  `toml:"pacing"`
	Ledger  Ledger  `toml:"ledger"`
	Logging Logging `toml:"logging"`
	Browser Browser `toml:"browser"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/pacer/config.toml")
}

// SampleConfig returns the embedded sample configuration document.
func SampleConfig() string {
	return sampleConfig
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("pacer.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	var err error
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Ledger.SQLitePath, err = expandPath(c.Ledger.SQLitePath); err != nil {
		return fmt.Errorf("ledger.sqlite_path: %w", err)
	}
	if c.Ledger.Sheets.CredentialsFile, err = expandPath(c.Ledger.Sheets.CredentialsFile); err != nil {
		return fmt.Errorf("ledger.sheets.credentials_file: %w", err)
	}
	if c.Ledger.Sheets.TokenFile, err = expandPath(c.Ledger.Sheets.TokenFile); err != nil {
		return fmt.Errorf("ledger.sheets.token_file: %w", err)
	}
	c.Ledger.Backend = strings.ToLower(strings.TrimSpace(c.Ledger.Backend))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// EnsureDirectories creates the state and log directories when missing.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.StateDir, c.Paths.LogDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// PollInterval returns the reconciliation cadence.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Pacing.PollInterval) * time.Second
}

// DayBoundaryWindow returns the near-rollover window for the day-boundary sync.
func (c *Config) DayBoundaryWindow() time.Duration {
	return time.Duration(c.Pacing.DayBoundaryWindow) * time.Second
}

// ShiftLength returns the configured shift length as a duration.
func (c *Config) ShiftLength() time.Duration {
	return time.Duration(c.Pacing.ShiftLengthHours * float64(time.Hour))
}

// StatusCacheTTL returns how long a tracker status response stays fresh.
func (c *Config) StatusCacheTTL() time.Duration {
	return time.Duration(c.Tracker.StatusCacheTTL) * time.Second
}

// ReconnectBackoff returns the wait between tracker relaunch attempts.
func (c *Config) ReconnectBackoff() time.Duration {
	return time.Duration(c.Tracker.ReconnectBackoff) * time.Second
}

// SocketPath returns the daemon's IPC socket location.
func (c *Config) SocketPath() string {
	return filepath.Join(c.Paths.StateDir, "pacerd.sock")
}

// ExpandPath resolves a leading ~ in user-supplied paths.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", nil
	}
	if trimmed == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}
