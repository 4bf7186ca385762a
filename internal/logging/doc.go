// Package logging assembles the structured slog loggers used across pacer.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes attribute helpers plus standardized field names so
// the reconciliation loop, supervisor, and ledger code all emit decision
// records with the same shape. A no-op logger is provided for tests and
// wiring code that cannot fail.
package logging
