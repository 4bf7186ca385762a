package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"pacer/internal/browser"
	"pacer/internal/config"
	"pacer/internal/logging"
	"pacer/internal/reconcile"
)

// Daemon coordinates the reconciliation loop and enforces single-instance
// execution via a lock file.
type Daemon struct {
	cfg    *config.Config
	loop   *reconcile.Loop
	logger *slog.Logger

	session  string
	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
	cancel    context.CancelFunc
	group     *errgroup.Group
}

// Status represents daemon runtime information.
type Status struct {
	Running   bool
	PID       int
	SessionID string
	StartedAt time.Time
	LockPath  string
	Snapshot  reconcile.Snapshot
}

// New constructs a daemon around an initialized loop.
func New(cfg *config.Config, loop *reconcile.Loop, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || loop == nil {
		return nil, errors.New("daemon requires config and loop")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	lockPath := filepath.Join(cfg.Paths.StateDir, "pacerd.lock")
	return &Daemon{
		cfg:      cfg,
		loop:     loop,
		logger:   logger,
		session:  uuid.NewString(),
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// SessionID identifies this daemon run in logs and IPC responses.
func (d *Daemon) SessionID() string {
	return d.session
}

// Start acquires the instance lock and launches the loop in the
// background. The loop's terminal error is surfaced by Wait.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another pacer daemon instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	d.cancel = cancel
	d.group = group
	d.startedAt = time.Now()
	d.running.Store(true)

	browser.Launch(d.cfg.Browser, d.logger)

	group.Go(func() error {
		return d.loop.Run(groupCtx)
	})

	d.logger.Info("pacer daemon started",
		logging.String(logging.FieldSession, d.session),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Wait blocks until the loop exits and returns its terminal error, then
// releases the instance lock.
func (d *Daemon) Wait() error {
	if d.group == nil {
		return errors.New("daemon not started")
	}
	err := d.group.Wait()
	d.release()
	return err
}

// Stop requests loop shutdown. Safe to call from IPC handlers; the actual
// stop/kill sequence runs inside the loop.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	if d.cancel != nil {
		d.cancel()
	}
}

func (d *Daemon) release() {
	if !d.running.Swap(false) {
		return
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.logger.Info("pacer daemon stopped", logging.String(logging.FieldSession, d.session))
}

// Status reports current runtime information.
func (d *Daemon) Status() Status {
	return Status{
		Running:   d.running.Load(),
		PID:       os.Getpid(),
		SessionID: d.session,
		StartedAt: d.startedAt,
		LockPath:  d.lockPath,
		Snapshot:  d.loop.CurrentSnapshot(),
	}
}
