// Package browser opens the operator's notes page when the daemon starts.
// A convenience side effect, not part of the control loop.
package browser
