// Package ipc implements JSON-RPC communication between the pacer CLI and
// the daemon over a Unix domain socket. The server wraps a daemon instance
// and exposes status and stop operations; the client provides typed call
// wrappers for the CLI.
package ipc
