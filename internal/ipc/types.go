package ipc

import "time"

// StatusRequest asks the daemon for its runtime state.
type StatusRequest struct{}

// StatusResponse carries daemon and reconciliation state back to the CLI.
type StatusResponse struct {
	Running   bool      `json:"running"`
	PID       int       `json:"pid"`
	SessionID string    `json:"session_id"`
	StartedAt time.Time `json:"started_at"`
	LockPath  string    `json:"lock_path"`

	LedgerBackend string `json:"ledger_backend"`

	LastTick       time.Time `json:"last_tick"`
	Tracking       bool      `json:"tracking"`
	TrackedToday   string    `json:"tracked_today"`
	PendingSeconds float64   `json:"pending_seconds"`
	WeeklyHours    float64   `json:"weekly_hours"`
	LastDecision   string    `json:"last_decision"`
}

// StopRequest asks the daemon to shut down.
type StopRequest struct{}

// StopResponse acknowledges a stop request.
type StopResponse struct {
	Stopped bool `json:"stopped"`
}
