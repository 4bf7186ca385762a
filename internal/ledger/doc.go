// Package ledger maintains the durable, date-indexed record of daily
// tracked duration and weekly cumulative hours.
//
// Service abstracts the transport (Google Sheets or local SQLite); Sync
// implements the idempotent append-or-update semantics on top of it: one
// row per calendar date, in-place updates for today's row, a weekly
// cumulative chain that resets on Mondays, and startup backfill of missing
// days.
package ledger
