package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"pacer/internal/logging"
	"pacer/internal/procs"
)

// Options configures supervision of the tracker client process.
type Options struct {
	// ClientBinary is the process name of the tracking client, used for
	// relaunch and kill by name match.
	ClientBinary string
	// ReconnectBackoff is the wait after a relaunch before the next status
	// attempt.
	ReconnectBackoff time.Duration
	// StatusCacheTTL bounds how long a status response stays fresh.
	StatusCacheTTL time.Duration
	// MaxStatusAttempts caps the status retry loop before the tracker is
	// declared unavailable.
	MaxStatusAttempts int
}

// Supervisor owns the lifecycle of the external tracking client: launch,
// status with retry and caching, best-effort stop/resume, and kill.
type Supervisor struct {
	client Client
	opts   Options
	logger *slog.Logger
	cache  *statusCache

	// Seams for tests.
	killByName func(string) (int, error)
	launch     func(string, ...string) error
	now        func() time.Time
}

// NewSupervisor wires a Supervisor around the given client.
func NewSupervisor(client Client, opts Options, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		client:     client,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "tracker"),
		cache:      newStatusCache(opts.StatusCacheTTL),
		killByName: procs.KillByName,
		launch:     procs.LaunchDetached,
		now:        time.Now,
	}
}

// Open terminates any running client instance and launches a fresh one.
// The launch is fire and forget; the client takes tens of seconds to come
// up and the status retry loop absorbs that.
func (s *Supervisor) Open() error {
	killed, err := s.killByName(s.opts.ClientBinary)
	if err != nil {
		s.logger.Warn("terminate existing client failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "client_kill_failed"),
		)
	} else if killed > 0 {
		s.logger.Info("terminated running client before relaunch",
			logging.Int("processes", killed),
		)
	}
	if err := s.launch(s.opts.ClientBinary); err != nil {
		return fmt.Errorf("open tracker client: %w", err)
	}
	s.logger.Info("tracker client launched",
		logging.String("binary", s.opts.ClientBinary),
	)
	return nil
}

// Status returns the current tracker status, reading through the TTL cache.
// While the client is unreachable it relaunches and retries with a fixed
// backoff, up to MaxStatusAttempts, then fails with ErrUnavailable. Other
// client errors (malformed responses) propagate immediately.
func (s *Supervisor) Status(ctx context.Context) (Status, error) {
	if status, ok := s.cache.get(s.now()); ok {
		return status, nil
	}

	for attempt := 1; ; attempt++ {
		status, err := s.client.Status(ctx)
		if err == nil {
			s.cache.set(status, s.now())
			return status, nil
		}
		if !errors.Is(err, ErrNotConnected) {
			return Status{}, err
		}

		s.logger.Warn("tracker not connected, relaunching client",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", s.opts.MaxStatusAttempts),
			logging.String(logging.FieldEventType, "tracker_not_connected"),
			logging.String(logging.FieldErrorHint, "client may still be starting up"),
		)
		if attempt >= s.opts.MaxStatusAttempts {
			return Status{}, fmt.Errorf("%w: status failed after %d attempts", ErrUnavailable, attempt)
		}
		if err := s.Open(); err != nil {
			s.logger.Warn("client relaunch failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "client_launch_failed"),
			)
		}
		select {
		case <-ctx.Done():
			return Status{}, ctx.Err()
		case <-time.After(s.opts.ReconnectBackoff):
		}
	}
}

// Stop pauses the timer. Unlike Status, a not-connected response triggers a
// single relaunch and returns: stop is a best-effort control action, not a
// required read.
func (s *Supervisor) Stop(ctx context.Context) error {
	return s.control(ctx, "stop", s.client.Stop)
}

// Resume restarts the timer with the same best-effort semantics as Stop.
func (s *Supervisor) Resume(ctx context.Context) error {
	return s.control(ctx, "resume", s.client.Resume)
}

func (s *Supervisor) control(ctx context.Context, name string, action func(context.Context) error) error {
	err := action(ctx)
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotConnected) {
		s.logger.Warn("tracker not connected during control action",
			logging.String("action", name),
			logging.String(logging.FieldEventType, "tracker_not_connected"),
		)
		if openErr := s.Open(); openErr != nil {
			s.logger.Warn("client relaunch failed",
				logging.Error(openErr),
				logging.String(logging.FieldEventType, "client_launch_failed"),
			)
		}
		return nil
	}
	return fmt.Errorf("tracker %s: %w", name, err)
}

// InvalidateStatus drops the cached status so the next Status call
// re-polls the tracker.
func (s *Supervisor) InvalidateStatus() {
	s.cache.invalidate()
}

// Kill terminates the client process. Used during shutdown only.
func (s *Supervisor) Kill() error {
	killed, err := s.killByName(s.opts.ClientBinary)
	if err != nil {
		return fmt.Errorf("kill tracker client: %w", err)
	}
	s.logger.Info("tracker client killed", logging.Int("processes", killed))
	return nil
}
