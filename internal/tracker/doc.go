// Package tracker supervises the external time-tracking client.
//
// Client abstracts the tracker's command interface (status/stop/resume);
// the CLI implementation shells out to the vendor's command-line binary and
// decodes its JSON responses. Supervisor layers lifecycle management on
// top: it relaunches the client process when the CLI reports it
// unreachable, caches status responses for a bounded TTL, and exposes the
// kill switch used during shutdown.
package tracker
