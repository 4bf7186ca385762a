// Package procs provides the process-control collaborators pacer needs to
// supervise the external tracking client: enumerate running processes by
// name, terminate them, and launch detached executables.
package procs
