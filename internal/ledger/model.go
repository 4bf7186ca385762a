package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in ledger rows. Lexicographic
// order matches chronological order.
const DateLayout = "2006/01/02"

// ErrEmpty reports a ledger with no rows at all. The weekly-cumulative
// chain needs at least one anchor row; pacer does not self-bootstrap an
// empty ledger (seed one with 'pacer ledger init').
var ErrEmpty = errors.New("ledger is empty")

// Row is one ledger entry: a calendar date, the duration tracked that day,
// and the cumulative hours tracked in that date's week.
type Row struct {
	Date    string
	Tracked time.Duration
	Weekly  float64
}

// Service is the transport to the durable ledger. Read returns all rows in
// append order; Update overwrites the row at a 0-based position; Append
// adds a row after the last one.
type Service interface {
	Read(ctx context.Context) ([]Row, error)
	Update(ctx context.Context, index int, row Row) error
	Append(ctx context.Context, row Row) error
}

// FormatDate renders t's calendar date in the ledger layout.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a ledger date string.
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(DateLayout, text)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse ledger date %q: %w", text, err)
	}
	return t, nil
}

// IsMonday reports whether t falls on the first day of the tracking week.
func IsMonday(t time.Time) bool {
	return t.Weekday() == time.Monday
}
