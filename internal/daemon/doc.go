// Package daemon hosts the reconciliation loop as a single-instance
// background process: it enforces the lock file, launches the browser
// convenience action, and exposes runtime status for IPC callers.
package daemon
