// Package harness runs scripted tally sessions and checks their outcome.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: tie_break
//	description: "First player in list order wins a tie"
//	default_target: 100
//	steps:
//	  - op: create
//	    names: [Ana, Ben]
//	    target: 100
//	  - op: round
//	    scores: { Ana: "90", Ben: "95" }
//	  - op: round
//	    scores: { Ana: "15", Ben: "5" }
//	    expect: { applied: true, completed: true }
//	assertions:
//	  - type: winner
//	    game: history[0]
//	    player: Ana
//
// Round scores are keyed by player name and parsed with the same rules the
// CLI applies. Players left out of a round score zero.
//
// # Assertion Types
//
//   - no_current_game: no game is in progress
//   - round_count: the current game has exactly count rounds
//   - score: player's score in game equals value
//   - winner: player is game's winner
//   - history_count: history holds exactly count games
//   - completed: game's completed flag equals value
//
// game is "current" (the default) or "history[N]", newest first.
//
// # Deterministic Testing
//
// Each scenario runs the real engine over a fresh store.Memory, with a
// testutil.DeterministicClock for timestamps and a testutil.SequenceGenerator
// for ids. The trace is read back from the engine's journal, so identical
// scenarios produce byte-identical traces and golden files.
package harness
