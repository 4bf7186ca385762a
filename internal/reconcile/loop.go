package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"pacer/internal/clockfmt"
	"pacer/internal/ledger"
	"pacer/internal/logging"
	"pacer/internal/pacing"
	"pacer/internal/tracker"
)

// Supervisor is the slice of the tracker supervisor the loop drives.
type Supervisor interface {
	Open() error
	Status(ctx context.Context) (tracker.Status, error)
	Stop(ctx context.Context) error
	Resume(ctx context.Context) error
	Kill() error
	InvalidateStatus()
}

// Ledger is the slice of the ledger sync the loop drives.
type Ledger interface {
	Rows(ctx context.Context) ([]ledger.Row, bool)
	Upsert(ctx context.Context, tracked time.Duration, date time.Time) error
	Backfill(ctx context.Context, today time.Time) error
}

// Options carries the loop's pacing parameters.
type Options struct {
	ShiftLengthHours float64
	PollInterval     time.Duration
	BoundaryWindow   time.Duration
}

// Decision names the control action a tick settled on.
type Decision string

const (
	DecisionHold   Decision = "hold"
	DecisionStop   Decision = "stop"
	DecisionResume Decision = "resume"
)

// Snapshot is the loop's last observed state, served over IPC.
type Snapshot struct {
	LastTick       time.Time
	Tracking       bool
	TrackedToday   time.Duration
	PendingSeconds float64
	WeeklyHours    float64
	LastDecision   Decision
}

// Loop ties the pacing policy, tracker supervisor, and ledger sync together
// on a fixed cadence.
type Loop struct {
	supervisor Supervisor
	ledger     Ledger
	opts       Options
	logger     *slog.Logger

	now func() time.Time

	mu         sync.Mutex
	budget     pacing.Budget
	haveBudget bool
	snapshot   Snapshot
}

// New constructs a Loop.
func New(supervisor Supervisor, ldg Ledger, opts Options, logger *slog.Logger) *Loop {
	return &Loop{
		supervisor: supervisor,
		ledger:     ldg,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "reconcile"),
		now:        time.Now,
	}
}

// Run executes the startup sequence and then ticks until ctx is canceled.
// Cancellation triggers the shutdown sequence (tracker stop, then kill)
// before returning. Any other returned error is fatal: tracker permanently
// unavailable, a malformed tracker response, or an unusable ledger.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.ledger.Backfill(ctx, l.now()); err != nil {
		if errors.Is(err, ledger.ErrEmpty) {
			return fmt.Errorf("startup: %w (seed an anchor row with 'pacer ledger init')", err)
		}
		return fmt.Errorf("startup backfill: %w", err)
	}
	if err := l.supervisor.Open(); err != nil {
		// The status retry loop relaunches as needed; a failed first
		// launch is not fatal on its own.
		l.logger.Warn("initial tracker launch failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "client_launch_failed"),
		)
	}

	for {
		select {
		case <-ctx.Done():
			l.shutdown()
			return nil
		default:
		}

		if err := l.tick(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				l.shutdown()
				return nil
			}
			return err
		}

		select {
		case <-ctx.Done():
			l.shutdown()
			return nil
		case <-time.After(l.opts.PollInterval):
		}
	}
}

// tick runs one reconciliation iteration: refresh the budget, poll status,
// and apply the boundary/overshoot/catch-up rules in that order.
func (l *Loop) tick(ctx context.Context) error {
	now := l.now()

	if rows, ok := l.ledger.Rows(ctx); ok {
		weekly := ledger.WeeklyTracked(rows, now)
		// Project through the end of today: the budget a full tracking
		// day should reach, hence the next day's weekday index.
		budget := pacing.Target(now.AddDate(0, 0, 1), weekly, l.opts.ShiftLengthHours)
		l.mu.Lock()
		l.budget = budget
		l.haveBudget = true
		l.mu.Unlock()
		l.logger.Info("pacing budget recomputed",
			logging.Int("weekday_index", budget.WeekdayIndex),
			logging.Float64("week_tracked_hours", weekly),
			logging.Float64("projected_weekly_hours", budget.ProjectedWeeklyHours),
			logging.Float64("pending_seconds", budget.PendingSeconds),
		)
	} else if !l.hasBudget() {
		l.logger.Warn("no pacing budget yet, holding control actions",
			logging.String(logging.FieldEventType, "budget_unavailable"),
			logging.String(logging.FieldErrorHint, "waiting for a successful ledger read"),
		)
	}

	status, err := l.supervisor.Status(ctx)
	if err != nil {
		return err
	}

	pending := l.pendingSeconds()
	duration := status.TrackedToday
	shift := time.Duration(l.opts.ShiftLengthHours * float64(time.Hour))
	remaining := shift - duration
	if remaining < 0 {
		remaining = 0
	}
	rollover := now.Add(remaining)

	l.logger.Info("tick",
		logging.String("tracked_today", clockfmt.Format(duration)),
		logging.Bool("tracking", status.Tracking),
		logging.Float64("pending_seconds", pending),
		logging.Duration("remaining", remaining),
		logging.String("rollover_date", ledger.FormatDate(rollover)),
		logging.String(logging.FieldDate, ledger.FormatDate(now)),
	)

	// An imminent day rollover while still tracking: capture today's final
	// duration before the date changes. This must precede any stop so the
	// durable record reflects the pre-stop total.
	if status.Tracking && remaining < l.opts.BoundaryWindow && differentDay(now, rollover) {
		l.logger.Info("day rollover imminent, syncing today's total")
		if err := l.ledger.Upsert(ctx, duration, now); err != nil {
			l.logUpsertFailure(err)
		}
	}

	decision := DecisionHold
	switch {
	case status.Tracking && float64(duration/time.Second) > pending:
		decision = DecisionStop
		l.logger.Info("budget met, stopping tracker",
			logging.Float64("tracked_seconds", float64(duration/time.Second)),
			logging.Float64("pending_seconds", pending),
		)
		if err := l.ledger.Upsert(ctx, duration, now); err != nil {
			l.logUpsertFailure(err)
		}
		if err := l.supervisor.Stop(ctx); err != nil {
			return err
		}
		l.supervisor.InvalidateStatus()

	case !status.Tracking && float64(duration/time.Second) <= pending:
		decision = DecisionResume
		l.logger.Info("behind pace, resuming tracker",
			logging.Float64("tracked_seconds", float64(duration/time.Second)),
			logging.Float64("pending_seconds", pending),
		)
		if err := l.supervisor.Resume(ctx); err != nil {
			return err
		}
		l.supervisor.InvalidateStatus()
	}

	l.mu.Lock()
	l.snapshot = Snapshot{
		LastTick:       now,
		Tracking:       status.Tracking,
		TrackedToday:   duration,
		PendingSeconds: pending,
		WeeklyHours:    l.budget.WeeklyTrackedHours,
		LastDecision:   decision,
	}
	l.mu.Unlock()
	return nil
}

// shutdown runs the termination sequence: pause the timer so no phantom
// time accrues, then kill the client process. Uses a fresh context because
// the run context is already canceled.
func (l *Loop) shutdown() {
	l.logger.Info("stopping tracker before exit")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := l.supervisor.Stop(ctx); err != nil {
		l.logger.Warn("tracker stop during shutdown failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "shutdown_stop_failed"),
		)
	}
	if err := l.supervisor.Kill(); err != nil {
		l.logger.Warn("tracker kill during shutdown failed",
			logging.Error(err),
			logging.String(logging.FieldEventType, "shutdown_kill_failed"),
		)
	}
}

// CurrentSnapshot returns the last tick's observed state.
func (l *Loop) CurrentSnapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

func (l *Loop) pendingSeconds() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.haveBudget {
		return 0
	}
	return l.budget.PendingSeconds
}

func (l *Loop) hasBudget() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.haveBudget
}

func (l *Loop) logUpsertFailure(err error) {
	l.logger.Warn("ledger sync failed, dropping update for this tick",
		logging.Error(err),
		logging.String(logging.FieldEventType, "ledger_sync_failed"),
		logging.String(logging.FieldErrorHint, "next successful tick recomputes from current state"),
	)
}

func differentDay(a, b time.Time) bool {
	return ledger.FormatDate(a) != ledger.FormatDate(b)
}
