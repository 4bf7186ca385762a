// Package pacing computes the weekly work-hour budget that drives the
// reconciliation loop's pause/resume decisions. It is pure arithmetic with
// no I/O, so decisions stay reproducible from logged inputs.
package pacing
