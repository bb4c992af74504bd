// Package store persists subscriptions and places and publishes the full
// subscription list to watchers whenever it changes.
//
// Three backends are provided: MemoryStore for tests and ephemeral runs,
// FileStore which keeps a JSON state file, and SQLiteStore backed by
// modernc.org/sqlite.
package store
