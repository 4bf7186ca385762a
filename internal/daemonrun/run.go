// Package daemonrun wires the daemon runtime: logger, ledger backend,
// tracker supervisor, reconciliation loop, and IPC server. It is shared by
// the pacerd binary and the CLI's foreground run command.
package daemonrun

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"pacer/internal/config"
	"pacer/internal/daemon"
	"pacer/internal/ipc"
	"pacer/internal/ledger"
	"pacer/internal/ledger/sheetledger"
	"pacer/internal/ledger/sqliteledger"
	"pacer/internal/logging"
	"pacer/internal/reconcile"
	"pacer/internal/tracker"
)

// Run starts the pacer daemon runtime and blocks until the loop exits,
// either on SIGINT/SIGTERM, an IPC stop request, or a fatal loop error.
func Run(cmdCtx context.Context, cfg *config.Config) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("prepare directories: %w", err)
	}

	logger, err := logging.NewForDir(cfg.Logging.Level, cfg.Logging.Format, cfg.Paths.LogDir)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	service, closeLedger, err := OpenLedger(signalCtx, cfg)
	if err != nil {
		return fmt.Errorf("open ledger backend: %w", err)
	}
	defer closeLedger()

	client := tracker.NewCLI(cfg.Tracker.CLIBinary, cfg.Tracker.NotConnectedMessage)
	supervisor := tracker.NewSupervisor(client, tracker.Options{
		ClientBinary:      cfg.Tracker.ClientBinary,
		ReconnectBackoff:  cfg.ReconnectBackoff(),
		StatusCacheTTL:    cfg.StatusCacheTTL(),
		MaxStatusAttempts: cfg.Tracker.StatusMaxAttempts,
	}, logger)

	sync := ledger.NewSync(service, logger)
	loop := reconcile.New(supervisor, sync, reconcile.Options{
		ShiftLengthHours: cfg.Pacing.ShiftLengthHours,
		PollInterval:     cfg.PollInterval(),
		BoundaryWindow:   cfg.DayBoundaryWindow(),
	}, logger)

	d, err := daemon.New(cfg, loop, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(signalCtx, cfg.SocketPath(), d, cfg.Ledger.Backend, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("daemon start: %w", err)
	}

	if err := d.Wait(); err != nil {
		logger.Error("daemon exited", logging.Error(err))
		return err
	}
	logger.Info("pacer daemon shut down")
	return nil
}

// OpenLedger selects the configured ledger backend. The returned closer is
// a no-op for backends without resources to release.
func OpenLedger(ctx context.Context, cfg *config.Config) (ledger.Service, func(), error) {
	switch cfg.Ledger.Backend {
	case "sqlite":
		store, err := sqliteledger.Open(cfg.Ledger.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case "sheets":
		client, err := sheetledger.Open(ctx, sheetledger.Options{
			SpreadsheetID:   cfg.Ledger.Sheets.SpreadsheetID,
			SheetName:       cfg.Ledger.Sheets.SheetName,
			StartRow:        cfg.Ledger.Sheets.StartRow,
			CredentialsFile: cfg.Ledger.Sheets.CredentialsFile,
			TokenFile:       cfg.Ledger.Sheets.TokenFile,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("open sheets ledger: %w", err)
		}
		return client, func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend %q", cfg.Ledger.Backend)
	}
}
