package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/engine"
	"github.com/roach88/tally/internal/input"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

// Harness drives one engine through a scenario's steps.
type Harness struct {
	engine *engine.Engine
	mem    *store.Memory
	clock  *testutil.DeterministicClock
	logger *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs against a fresh in-memory store. The logical clock
// ticks once before every step, so step N sees wall time
// testutil.BaseMillis + N*1000.
//
// Run returns an error when a step cannot be executed at all (invalid
// names, unknown player in scores). Failed expectations and assertions
// are reported in Result.Errors instead.
func Run(scenario *Scenario) (*Result, error) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mem := store.NewMemory()
	clock := testutil.NewDeterministicClock()
	eng := engine.New(ctx, store.NewAdapter(mem, logger),
		engine.WithIDGenerator(testutil.NewSequenceGenerator("id")),
		engine.WithTimeSource(clock),
		engine.WithJournal(mem),
		engine.WithDefaultTarget(scenario.DefaultTarget),
		engine.WithLogger(logger),
	)

	h := &Harness{
		engine: eng,
		mem:    mem,
		clock:  clock,
		logger: logger,
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		h.clock.Next()
		if err := h.executeStep(ctx, i, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i, step.Op, err)
		}
	}

	entries, err := mem.ReadJournal(ctx, store.JournalQuery{})
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	result.Trace = traceFromJournal(entries)
	result.State = eng.State()

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

// stepOutcome is what a step reported back, for expect checks.
type stepOutcome struct {
	applied   bool
	completed bool
	outcome   string
}

func (h *Harness) executeStep(ctx context.Context, i int, step Step, result *Result) error {
	var out stepOutcome

	switch step.Op {
	case OpCreate:
		names, err := input.Names(step.Names)
		if err != nil {
			return err
		}
		h.engine.CreateGame(ctx, names, step.Target)
		out.applied = true

	case OpRound:
		scores, err := h.roundScores(step.Scores)
		if err != nil {
			return err
		}
		g, ok := h.engine.AddRound(ctx, scores)
		out.applied = ok
		out.completed = ok && g.Completed

	case OpUndo:
		out.applied = h.engine.UndoLastRound(ctx)

	case OpReset:
		o := h.engine.ResetGame(ctx)
		out.applied = o != engine.ResetNone
		out.outcome = o.String()
	}

	h.logger.Debug("step executed", "step", i, "op", step.Op, "applied", out.applied)

	if step.Expect != nil {
		checkExpect(i, step, out, result)
	}
	return nil
}

// roundScores resolves name-keyed scores against the current game.
// Without a current game the round is passed through empty and the
// engine records it as a no-op.
func (h *Harness) roundScores(byName map[string]string) (map[string]decimal.Decimal, error) {
	g, ok := h.engine.CurrentGame()
	if !ok {
		return map[string]decimal.Decimal{}, nil
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	slices.Sort(names)

	args := make([]string, len(names))
	for i, name := range names {
		args[i] = name + "=" + byName[name]
	}
	return input.RoundScores(g, args)
}

func checkExpect(i int, step Step, out stepOutcome, result *Result) {
	exp := step.Expect
	if exp.Applied != nil && *exp.Applied != out.applied {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected applied=%t, got %t", i, step.Op, *exp.Applied, out.applied))
	}
	if exp.Completed != nil && *exp.Completed != out.completed {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected completed=%t, got %t", i, step.Op, *exp.Completed, out.completed))
	}
	if exp.Outcome != "" && exp.Outcome != out.outcome {
		result.AddError(fmt.Sprintf("steps[%d] %s: expected outcome %q, got %q", i, step.Op, exp.Outcome, out.outcome))
	}
}
