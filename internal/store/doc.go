// Package store provides SQLite-backed durable storage for encoded
// key/value records.
//
// The store owns a single connection to one table:
//
//	CREATE TABLE IF NOT EXISTS <table> (key TEXT PRIMARY KEY, value TEXT NOT NULL)
//
// Keys and values are opaque at this layer - callers hand in
// already-encoded text. The store provides:
//
//   - Upsert writes (PutRaw): ON CONFLICT(key) DO UPDATE keeps the
//     original rowid, so replacing a value never moves the key in
//     iteration order.
//   - Insertion-ordered scans (Keys/Items): ORDER BY rowid, which for a
//     rowid table is insertion order. This ordering is a contract.
//   - Explicit transactions (Begin/Commit/Rollback): BEGIN IMMEDIATE on
//     the shared connection. Nesting is rejected at this layer;
//     re-entrant scoping is the facade's job.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout: wait for file locks instead of failing immediately
//   - MaxOpenConns(1): one connection, so explicit BEGIN/COMMIT
//     statements always run on the same underlying handle
//
// The Store is NOT safe for concurrent use. The kv facade serializes
// access to it with a mutex.
package store
