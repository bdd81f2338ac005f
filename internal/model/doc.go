// Package model defines the score-tracking data model shared by the engine,
// the store, and the CLI.
//
// This package contains types and pure helpers only. Every other internal
// package imports model; model imports nothing internal.
//
// Key design constraints:
//   - Scores and deltas are decimal.Decimal, never float64
//   - JSON field names are camelCase and must round-trip with existing snapshots
//   - Timestamps are Unix milliseconds
//   - Values are treated as immutable once published; use Clone before editing
package model
