// Package clockfmt converts between time.Duration and the H:MM:SS clock
// text used by both the tracker CLI and the ledger.
package clockfmt
