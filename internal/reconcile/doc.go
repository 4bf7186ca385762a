// Package reconcile runs the pacing control loop: poll the tracker,
// compare today's tracked time against the weekly budget, pause or resume
// the timer, and synchronize the ledger at calendar-day boundaries.
//
// The loop is the only writer of pacing decisions; shutdown is cooperative
// via context cancellation, after which the loop itself stops and kills the
// tracker client before returning.
package reconcile
