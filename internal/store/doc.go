// Package store provides durable key-value slots for tally snapshots.
//
// A Backend holds opaque byte payloads under string keys. The Adapter sits on
// top of a Backend and gives the engine best-effort typed access:
//   - Load decodes the payload under a key, falling back to a default when the
//     key is absent, the payload is corrupt, or the backend read fails
//   - Save encodes and writes synchronously; failures are logged and dropped
//
// Neither operation returns an error to the caller. Storage problems are
// reported through the Adapter's slog.Logger only.
//
// # Backends
//
//   - SQLite: mattn/go-sqlite3, the default. Also keeps the operation journal.
//   - Bolt: go.etcd.io/bbolt, a single "slots" bucket.
//   - Memory: process-local map for tests and the scenario harness.
//
// # SQLite Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single connection: one writer, matching the engine's single caller
//
// # Journal
//
// The journal is an append-only log of engine operations ordered by a
// logical seq, never by wall-clock time. Each entry records the resulting
// snapshot digest so a session can be audited after the fact.
package store
