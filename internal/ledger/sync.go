package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"pacer/internal/clockfmt"
	"pacer/internal/logging"
)

// Sync implements idempotent append-or-update synchronization against a
// ledger Service.
type Sync struct {
	service Service
	logger  *slog.Logger
}

// NewSync wires a Sync around the given transport.
func NewSync(service Service, logger *slog.Logger) *Sync {
	return &Sync{
		service: service,
		logger:  logging.NewComponentLogger(logger, "ledger"),
	}
}

// snapshot indexes a row sequence by calendar date for O(1) lookups.
type snapshot struct {
	rows   []Row
	byDate map[string]int
}

func newSnapshot(rows []Row) snapshot {
	byDate := make(map[string]int, len(rows))
	for i, row := range rows {
		byDate[row.Date] = i
	}
	return snapshot{rows: rows, byDate: byDate}
}

// previousTo returns the most recent row dated before date: the row holding
// the weekly total the chain continues from.
func (s snapshot) previousTo(date string) (Row, bool) {
	if idx, ok := s.byDate[date]; ok {
		if idx == 0 {
			return Row{}, false
		}
		return s.rows[idx-1], true
	}
	if len(s.rows) == 0 {
		return Row{}, false
	}
	return s.rows[len(s.rows)-1], true
}

// Rows fetches all ledger rows. A transport failure is logged and reported
// as "no data available this tick" rather than raised; callers must not
// mistake it for an empty ledger.
func (s *Sync) Rows(ctx context.Context) ([]Row, bool) {
	rows, err := s.service.Read(ctx)
	if err != nil {
		s.logger.Warn("ledger read failed, skipping this tick",
			logging.Error(err),
			logging.String(logging.FieldEventType, "ledger_read_failed"),
			logging.String(logging.FieldErrorHint, "check ledger service availability"),
		)
		return nil, false
	}
	return rows, true
}

// WeeklyTracked derives the cumulative hours tracked in today's week from
// the row sequence: zero on Mondays, otherwise the weekly total of the most
// recent row dated before today.
func WeeklyTracked(rows []Row, today time.Time) float64 {
	if IsMonday(today) {
		return 0
	}
	prev, ok := newSnapshot(rows).previousTo(FormatDate(today))
	if !ok {
		return 0
	}
	return prev.Weekly
}

// Upsert records tracked as date's total. The existing row for date is
// updated in place when present; otherwise a new row is appended. The
// weekly cumulative restarts at zero on Mondays and otherwise continues
// from the most recent earlier row. Repeating the call with the same
// arguments leaves the ledger unchanged.
func (s *Sync) Upsert(ctx context.Context, tracked time.Duration, date time.Time) error {
	rows, err := s.service.Read(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmpty
	}

	target := FormatDate(date)
	snap := newSnapshot(rows)

	weekly := 0.0
	if !IsMonday(date) {
		if prev, ok := snap.previousTo(target); ok {
			weekly = prev.Weekly
		}
	}
	weekly = round2(weekly + tracked.Hours())

	row := Row{Date: target, Tracked: tracked, Weekly: weekly}
	last := rows[len(rows)-1]
	if last.Date == target {
		if err := s.service.Update(ctx, len(rows)-1, row); err != nil {
			return fmt.Errorf("update ledger row %s: %w", target, err)
		}
	} else {
		if err := s.service.Append(ctx, row); err != nil {
			return fmt.Errorf("append ledger row %s: %w", target, err)
		}
	}

	s.logger.Info("ledger synced",
		logging.String(logging.FieldDate, target),
		logging.String("tracked", clockfmt.Format(tracked)),
		logging.Float64("weekly_hours", weekly),
	)
	return nil
}

// Backfill inserts a zero-duration row for every calendar day between the
// ledger's last row and today, keeping the weekly-cumulative chain free of
// holes. An empty ledger is fatal: the chain needs an anchor row.
func (s *Sync) Backfill(ctx context.Context, today time.Time) error {
	rows, err := s.service.Read(ctx)
	if err != nil {
		return fmt.Errorf("read ledger: %w", err)
	}
	if len(rows) == 0 {
		return ErrEmpty
	}

	lastDate, err := ParseDate(rows[len(rows)-1].Date)
	if err != nil {
		return err
	}

	missing := 0
	for day := lastDate.AddDate(0, 0, 1); FormatDate(day) < FormatDate(today); day = day.AddDate(0, 0, 1) {
		if err := s.Upsert(ctx, 0, day); err != nil {
			return fmt.Errorf("backfill %s: %w", FormatDate(day), err)
		}
		missing++
	}
	if missing > 0 {
		s.logger.Info("backfilled missing ledger days",
			logging.Int("days", missing),
			logging.String("from", FormatDate(lastDate)),
		)
	}
	return nil
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
