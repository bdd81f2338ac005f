package harness

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/model"
)

// finishedResult has one game in progress and one archived winner.
func finishedResult() *Result {
	archived := model.Game{
		ID: "g-old",
		Players: []model.Player{
			{ID: "p1", Name: "Ana", Score: decimal.NewFromInt(104), IsWinner: true},
			{ID: "p2", Name: "Ben", Score: decimal.RequireFromString("88.5")},
		},
		Rounds:      []model.Round{{ID: "r1"}, {ID: "r2"}},
		TargetScore: 100,
		Completed:   true,
		Winner:      "p1",
	}
	current := model.Game{
		ID: "g-new",
		Players: []model.Player{
			{ID: "p3", Name: "Cy", Score: decimal.NewFromInt(12)},
			{ID: "p4", Name: "Di", Score: decimal.Zero},
		},
		Rounds:      []model.Round{{ID: "r3"}},
		TargetScore: 50,
	}

	r := NewResult()
	r.State = model.GameState{CurrentGame: &current, GameHistory: []model.Game{archived}}
	r.Trace = []TraceEntry{
		{Seq: 1, Op: OpCreate, Applied: true},
		{Seq: 2, Op: OpUndo, Applied: false},
	}
	return r
}

func TestEvaluateAssertions_AllPass(t *testing.T) {
	errs := EvaluateAssertions(finishedResult(), []Assertion{
		{Type: AssertRoundCount, Count: 1},
		{Type: AssertRoundCount, Game: "history[0]", Count: 2},
		{Type: AssertScore, Player: "Cy", Value: "12"},
		{Type: AssertScore, Player: "Ben", Value: "88.50", Game: "history[0]"},
		{Type: AssertWinner, Player: "Ana", Game: "history[0]"},
		{Type: AssertHistoryCount, Count: 1},
		{Type: AssertCompleted, Game: "history[0]", Value: "true"},
		{Type: AssertCompleted, Value: "false"},
	})
	assert.Empty(t, errs)
}

func TestEvaluateAssertions_Failures(t *testing.T) {
	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{name: "game in progress", assertion: Assertion{Type: AssertNoCurrentGame}, want: "game g-new in progress"},
		{name: "round count", assertion: Assertion{Type: AssertRoundCount, Count: 3}, want: "Actual: 1 rounds"},
		{name: "score mismatch", assertion: Assertion{Type: AssertScore, Player: "Cy", Value: "13"}, want: "Cy has 12"},
		{name: "unknown player", assertion: Assertion{Type: AssertScore, Player: "Zed", Value: "1"}, want: "player not found"},
		{name: "no winner yet", assertion: Assertion{Type: AssertWinner, Player: "Cy"}, want: "no winner"},
		{name: "wrong winner", assertion: Assertion{Type: AssertWinner, Player: "Ben", Game: "history[0]"}, want: "Actual: Ana"},
		{name: "history count", assertion: Assertion{Type: AssertHistoryCount, Count: 2}, want: "1 archived games"},
		{name: "missing history", assertion: Assertion{Type: AssertCompleted, Game: "history[4]", Value: "true"}, want: "history has 1 games"},
		{name: "completed", assertion: Assertion{Type: AssertCompleted, Value: "true"}, want: "completed=false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := EvaluateAssertions(finishedResult(), []Assertion{tt.assertion})
			require.Len(t, errs, 1)
			assert.Contains(t, errs[0], tt.want)
			assert.Contains(t, errs[0], "assertions[0]")
		})
	}
}

func TestEvaluateAssertions_NoCurrentGame(t *testing.T) {
	r := NewResult()
	assert.Empty(t, EvaluateAssertions(r, []Assertion{{Type: AssertNoCurrentGame}}))

	errs := EvaluateAssertions(r, []Assertion{{Type: AssertRoundCount, Count: 0}})
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "no current game")
}

func TestAssertionError_IncludesTrace(t *testing.T) {
	err := &AssertionError{
		Type:     AssertScore,
		Expected: "Ana has 10",
		Actual:   "Ana has 5",
		Trace:    finishedResult().Trace,
	}

	msg := err.Error()
	assert.Contains(t, msg, "Assertion failed: score")
	assert.Contains(t, msg, "Expected: Ana has 10")
	assert.Contains(t, msg, "[1]  create")
	assert.Contains(t, msg, "[2]- undo")
}
