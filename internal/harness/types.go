package harness

import (
	"github.com/roach88/tally/internal/model"
	"github.com/roach88/tally/internal/store"
)

// TraceEntry is one journaled engine call.
type TraceEntry struct {
	Seq     int64          `json:"seq"`
	Op      string         `json:"op"`
	Args    map[string]any `json:"args"`
	Applied bool           `json:"applied"`
	Digest  string         `json:"digest"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace lists engine calls in seq order.
	Trace []TraceEntry `json:"trace"`

	// Errors holds expect and assertion failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State is the final game state.
	State model.GameState `json:"state"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEntry{},
		Errors: []string{},
		State:  model.NewGameState(),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// traceFromJournal converts newest-first journal entries to a trace.
func traceFromJournal(entries []store.JournalEntry) []TraceEntry {
	trace := make([]TraceEntry, len(entries))
	for i, e := range entries {
		trace[len(entries)-1-i] = TraceEntry{
			Seq:     e.Seq,
			Op:      e.Op,
			Args:    e.Args,
			Applied: e.Applied,
			Digest:  e.Digest,
		}
	}
	return trace
}
