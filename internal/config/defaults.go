package config

const (
	defaultStateDir            = "~/.local/share/pacer"
	defaultLogDir              = "~/.local/share/pacer/logs"
	defaultClientBinary        = "HubstaffClient.bin.x86_64"
	defaultCLIBinary           = "HubstaffCLI.bin.x86_64"
	defaultNotConnectedMessage = "Could not connect to timer"
	defaultStatusCacheTTL      = 600
	defaultReconnectBackoff    = 60
	defaultStatusMaxAttempts   = 30
	defaultShiftLengthHours    = 8.1
	defaultPollInterval        = 60
	defaultDayBoundaryWindow   = 300
	defaultLedgerBackend       = "sqlite"
	defaultSQLitePath          = "~/.local/share/pacer/ledger.db"
	defaultSheetName           = "Tracking"
	defaultSheetStartRow       = 2
	defaultCredentialsFile     = "~/.config/pacer/credentials.json"
	defaultTokenFile           = "~/.config/pacer/google_token.json"
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
	defaultBrowserBinary       = "firefox"
	defaultBrowserProcessName  = "firefox-bin"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Tracker: Tracker{
			ClientBinary:        defaultClientBinary,
			CLIBinary:           defaultCLIBinary,
			NotConnectedMessage: defaultNotConnectedMessage,
			StatusCacheTTL:      defaultStatusCacheTTL,
			ReconnectBackoff:    defaultReconnectBackoff,
			StatusMaxAttempts:   defaultStatusMaxAttempts,
		},
		Pacing: Pacing{
			ShiftLengthHours:  defaultShiftLengthHours,
			PollInterval:      defaultPollInterval,
			DayBoundaryWindow: defaultDayBoundaryWindow,
		},
		Ledger: Ledger{
			Backend:    defaultLedgerBackend,
			SQLitePath: defaultSQLitePath,
			Sheets: Sheets{
				SheetName:       defaultSheetName,
				StartRow:        defaultSheetStartRow,
				CredentialsFile: defaultCredentialsFile,
				TokenFile:       defaultTokenFile,
			},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Browser: Browser{
			Enabled:     false,
			Binary:      defaultBrowserBinary,
			ProcessName: defaultBrowserProcessName,
		},
	}
}
