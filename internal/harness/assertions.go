package harness

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/roach88/tally/internal/model"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEntry // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, entry := range e.Trace {
		mark := " "
		if !entry.Applied {
			mark = "-"
		}
		fmt.Fprintf(&buf, "  [%d]%s %s %v\n", entry.Seq, mark, entry.Op, entry.Args)
	}

	return buf.String()
}

// EvaluateAssertions runs every assertion against result and returns the
// failure messages.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	switch a.Type {
	case AssertNoCurrentGame:
		return assertNoCurrentGame(result)
	case AssertRoundCount:
		return assertRoundCount(result, a)
	case AssertScore:
		return assertScore(result, a)
	case AssertWinner:
		return assertWinner(result, a)
	case AssertHistoryCount:
		return assertHistoryCount(result, a)
	case AssertCompleted:
		return assertCompleted(result, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// lookupGame resolves a scenario game reference in the final state.
func lookupGame(result *Result, a Assertion) (model.Game, error) {
	ref, err := ParseGameRef(a.Game)
	if err != nil {
		return model.Game{}, err
	}

	if ref.Current {
		if result.State.CurrentGame == nil {
			return model.Game{}, &AssertionError{
				Type:     a.Type,
				Expected: "a current game",
				Actual:   "no current game",
				Trace:    result.Trace,
			}
		}
		return *result.State.CurrentGame, nil
	}

	if ref.Index >= len(result.State.GameHistory) {
		return model.Game{}, &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%s to exist", ref),
			Actual:   fmt.Sprintf("history has %d games", len(result.State.GameHistory)),
			Trace:    result.Trace,
		}
	}
	return result.State.GameHistory[ref.Index], nil
}

// playerByName finds a player of g by name.
func playerByName(g model.Game, name string) (model.Player, bool) {
	for _, p := range g.Players {
		if p.Name == name {
			return p, true
		}
	}
	return model.Player{}, false
}

func assertNoCurrentGame(result *Result) error {
	if result.State.CurrentGame == nil {
		return nil
	}
	return &AssertionError{
		Type:     AssertNoCurrentGame,
		Expected: "no current game",
		Actual:   fmt.Sprintf("game %s in progress", result.State.CurrentGame.ID),
		Trace:    result.Trace,
	}
}

func assertRoundCount(result *Result, a Assertion) error {
	g, err := lookupGame(result, a)
	if err != nil {
		return err
	}
	if len(g.Rounds) == a.Count {
		return nil
	}
	return &AssertionError{
		Type:     AssertRoundCount,
		Expected: fmt.Sprintf("%d rounds", a.Count),
		Actual:   fmt.Sprintf("%d rounds", len(g.Rounds)),
		Trace:    result.Trace,
	}
}

func assertScore(result *Result, a Assertion) error {
	want, err := decimal.NewFromString(a.Value)
	if err != nil {
		return fmt.Errorf("score value %q: %w", a.Value, err)
	}

	g, err := lookupGame(result, a)
	if err != nil {
		return err
	}
	p, ok := playerByName(g, a.Player)
	if !ok {
		return &AssertionError{
			Type:     AssertScore,
			Expected: fmt.Sprintf("player %q in game %s", a.Player, g.ID),
			Actual:   "player not found",
			Trace:    result.Trace,
		}
	}
	if p.Score.Equal(want) {
		return nil
	}
	return &AssertionError{
		Type:     AssertScore,
		Expected: fmt.Sprintf("%s has %s", a.Player, want),
		Actual:   fmt.Sprintf("%s has %s", a.Player, p.Score),
		Trace:    result.Trace,
	}
}

func assertWinner(result *Result, a Assertion) error {
	g, err := lookupGame(result, a)
	if err != nil {
		return err
	}

	actual := "no winner"
	if w, ok := model.WinnerPlayer(g); ok {
		if w.Name == a.Player {
			return nil
		}
		actual = w.Name
	}
	return &AssertionError{
		Type:     AssertWinner,
		Expected: a.Player,
		Actual:   actual,
		Trace:    result.Trace,
	}
}

func assertHistoryCount(result *Result, a Assertion) error {
	if n := len(result.State.GameHistory); n != a.Count {
		return &AssertionError{
			Type:     AssertHistoryCount,
			Expected: fmt.Sprintf("%d archived games", a.Count),
			Actual:   fmt.Sprintf("%d archived games", n),
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertCompleted(result *Result, a Assertion) error {
	want, err := strconv.ParseBool(a.Value)
	if err != nil {
		return fmt.Errorf("completed value %q: %w", a.Value, err)
	}

	g, err := lookupGame(result, a)
	if err != nil {
		return err
	}
	if g.Completed == want {
		return nil
	}
	return &AssertionError{
		Type:     AssertCompleted,
		Expected: fmt.Sprintf("completed=%t", want),
		Actual:   fmt.Sprintf("completed=%t", g.Completed),
		Trace:    result.Trace,
	}
}
