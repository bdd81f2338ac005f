// Package engine implements the tally game-state engine.
//
// The engine owns the current game and the game history. It exposes four
// operations (CreateGame, AddRound, UndoLastRound, ResetGame) and enforces
// the game invariants:
//   - a game's player set is fixed at creation
//   - completed is true iff some player's score reaches the target
//   - winner is the first player in list order at or above the target
//   - completed and reset games move to the front of history and never change
//
// ARCHITECTURE:
//
// Pure transitions:
// Every operation is a pure function in transition.go that takes the current
// GameState and an input and returns a new GameState. The previous snapshot is
// never mutated, so a failed or skipped save can never leave a half-applied
// state behind.
//
// Single caller:
// Engine methods run synchronously on the caller's goroutine, one at a time.
// The engine does no locking; callers must not invoke it concurrently.
//
// Persistence:
// After each applied operation the full snapshot is written through
// store.Save. Storage failures are logged by the adapter and never surface
// here. When a journal is configured, every call (including no-ops) is
// appended with a logical seq and the resulting snapshot digest.
//
// Input validation is the caller's job; see package input.
package engine
