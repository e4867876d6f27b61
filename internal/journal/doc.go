// Package journal provides SQLite-backed durable storage for the operations a
// base collection emits.
//
// The journal is an append-only log with:
//   - Collections: one row per recorded base (ID and display name)
//   - Operations: one row per notification, keyed by a content hash
//
// # Ordering
//
// Every operation carries the base revision that produced it. All reads use
// ORDER BY revision ASC, id ASC COLLATE BINARY, so replay is deterministic.
// UNIQUE(collection_id, revision) makes writes idempotent.
//
// # Payloads
//
// Insert and Replace payloads are the projected wrapper items, serialized as
// a canonical JSON array by an Encoder. Swap and Reset store an empty array.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package journal
