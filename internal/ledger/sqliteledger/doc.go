// Package sqliteledger stores the ledger in a local SQLite database. It is
// the default backend: durable, single-file, and usable without Google
// credentials.
package sqliteledger
